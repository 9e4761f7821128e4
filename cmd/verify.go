package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/liberhite/Aplikasipengajuan/internal/api"
	"github.com/liberhite/Aplikasipengajuan/internal/config"
	"github.com/liberhite/Aplikasipengajuan/internal/database"
	"github.com/liberhite/Aplikasipengajuan/internal/lock"
	"github.com/liberhite/Aplikasipengajuan/internal/repository"
	"github.com/liberhite/Aplikasipengajuan/internal/service"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check cross-table consistency",
	Long: `Check the invariants that the assignment engine maintains:
- every nomor proses is unique
- each assigned pengajuan has exactly one AKTIF penugasan
- every penugasan points at an existing pengajuan
- each pengajuan has exactly one proses record
- each handler's workload equals its AKTIF penugasan count

Any drift (for example after a hand-edited import) is reported, one
finding per line. The command exits non-zero when drift is found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		defer func() {
			sqlDB, _ := db.DB()
			if sqlDB != nil {
				sqlDB.Close()
			}
		}()

		svc := service.NewPengajuanService(
			repository.NewPengajuanRepository(db),
			repository.NewHandlerRepository(db),
			repository.NewPenugasanRepository(db),
			repository.NewProsesRepository(db),
			lock.NewRegistry(time.Duration(cfg.Assignment.LockTimeoutSeconds)*time.Second),
			api.NewLogger(),
		)

		findings, err := svc.CheckConsistency(context.Background())
		if err != nil {
			return fmt.Errorf("consistency check failed: %w", err)
		}
		if len(findings) == 0 {
			log.Println("all consistency checks passed")
			return nil
		}

		for _, finding := range findings {
			log.Printf("DRIFT: %s", finding)
		}
		return fmt.Errorf("%d consistency finding(s)", len(findings))
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().String("config", "", "Config file path")
}
