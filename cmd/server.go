package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liberhite/Aplikasipengajuan/internal/api"
	"github.com/liberhite/Aplikasipengajuan/internal/config"
	"github.com/liberhite/Aplikasipengajuan/internal/database"
	"github.com/liberhite/Aplikasipengajuan/internal/lock"
	"github.com/liberhite/Aplikasipengajuan/internal/metrics"
	"github.com/liberhite/Aplikasipengajuan/internal/repository"
	"github.com/liberhite/Aplikasipengajuan/internal/service"
	"github.com/liberhite/Aplikasipengajuan/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the Aplikasi Pengajuan API server.
The server listens on the configured host and port and serves the
submission, reassignment, handler and dashboard endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err := api.NewLoggerFromConfig(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		var db *gorm.DB
		var repos struct {
			pengajuan repository.PengajuanRepository
			handlers  repository.HandlerRepository
			penugasan repository.PenugasanRepository
			proses    repository.ProsesRepository
		}

		switch cfg.Storage.Driver {
		case "memory":
			// Row-tuple in-process store, mainly for demos. Data is lost
			// on shutdown.
			logger.Warn("storage driver is memory, data will not persist")
			rs := store.NewRepositories(store.NewMemory())
			repos.pengajuan = rs.Pengajuan
			repos.handlers = rs.Handler
			repos.penugasan = rs.Penugasan
			repos.proses = rs.Proses
		default:
			db, err = database.ConnectWithRetry(cfg.Database, 5, 2*time.Second)
			if err != nil {
				return fmt.Errorf("failed to connect database: %w", err)
			}
			defer func() {
				sqlDB, _ := db.DB()
				if sqlDB != nil {
					sqlDB.Close()
				}
			}()
			repos.pengajuan = repository.NewPengajuanRepository(db)
			repos.handlers = repository.NewHandlerRepository(db)
			repos.penugasan = repository.NewPenugasanRepository(db)
			repos.proses = repository.NewProsesRepository(db)
		}

		locks := lock.NewRegistry(time.Duration(cfg.Assignment.LockTimeoutSeconds) * time.Second)
		svc := service.NewPengajuanService(
			repos.pengajuan, repos.handlers, repos.penugasan, repos.proses,
			locks, logger,
		)
		controller := api.NewPengajuanController(svc)

		router := api.SetupRoutes(cfg, db, controller)

		// Keep the db connection gauges current while the server runs.
		stopPool := make(chan struct{})
		if db != nil {
			go func() {
				ticker := time.NewTicker(15 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if err := metrics.UpdateDatabaseConnections(db); err != nil {
							logger.WithError(err).Debug("failed to update db connection metrics")
						}
					case <-stopPool:
						return
					}
				}
			}()
		}

		// Hot-reload the log level when the config file changes.
		watcher := config.NewWatcher(cfg, configPath)
		watcher.OnChange(func(next *config.Config) {
			level, err := logrus.ParseLevel(next.Log.Level)
			if err != nil {
				logger.WithError(err).Warn("invalid log level in updated config, keeping current")
				return
			}
			logger.SetLevel(level)
			api.SetLoggerLevel(level)
			logger.WithField("level", next.Log.Level).Info("log level reloaded")
		})
		if err := watcher.Start(); err != nil {
			logger.WithError(err).Warn("config watcher not started")
		}
		defer watcher.Stop()

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		go func() {
			logger.WithField("addr", addr).Info("server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Fatal("failed to start server")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server")
		close(stopPool)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Fatal("server forced to shutdown")
		}

		logger.Info("server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().String("config", "", "Config file path (default: config.yaml)")
	serverCmd.Flags().String("host", "0.0.0.0", "Server host")
	serverCmd.Flags().Int("port", 8080, "Server port")
}
