package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/liberhite/Aplikasipengajuan/internal/config"
	"github.com/liberhite/Aplikasipengajuan/internal/database"
	"github.com/liberhite/Aplikasipengajuan/internal/model"
	"github.com/liberhite/Aplikasipengajuan/internal/repository"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed <email> <nama> <role> <password>",
	Short: "Create a handler account",
	Long: `Create a handler account in the users table with a bcrypt-hashed
credential. Accounts with role PP and status AKTIF are eligible for
assignment; PPK accounts submit pengajuan.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, nama, role, password := args[0], args[1], args[2], args[3]
		if role != model.RolePP && role != model.RolePPK {
			return fmt.Errorf("role must be %s or %s", model.RolePP, model.RolePPK)
		}

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
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		handlers := repository.NewHandlerRepository(db)
		if existing, err := handlers.FindByEmail(email); err == nil {
			log.Printf("account %s already exists (role=%s)", existing.Email, existing.Role)
			return nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check existing account: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		nip, _ := cmd.Flags().GetString("nip")
		satker, _ := cmd.Flags().GetString("satker")
		h := &model.HandlerModel{
			Email:        email,
			Nama:         nama,
			NIP:          nip,
			Role:         role,
			Satker:       satker,
			PasswordHash: string(hash),
			Status:       model.HandlerAktif,
			Workload:     0,
		}
		if err := h.Validate(); err != nil {
			return err
		}
		if err := handlers.Save(h); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		log.Printf("created account %s (role=%s)", email, role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("config", "", "Config file path")
	seedCmd.Flags().String("nip", "", "Employee identification number")
	seedCmd.Flags().String("satker", "", "Work unit")
}
