package cmd

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"

	"github.com/liberhite/Aplikasipengajuan/internal/config"
	"github.com/liberhite/Aplikasipengajuan/internal/database"
	"github.com/liberhite/Aplikasipengajuan/internal/repository"
	"github.com/liberhite/Aplikasipengajuan/internal/store"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <table> <file.csv>",
	Short: "Import a legacy sheet export",
	Long: `Import a CSV export of one of the legacy sheets into the database.
The table argument is the legacy sheet name: Pengajuan, Users,
Penugasan_PP or Proses_PP. The CSV must keep the original column order;
a leading header row is skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, path := args[0], args[1]

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

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(records) > 0 {
			// First row is the header row of the sheet export.
			records = records[1:]
		}

		imported := 0
		for i, record := range records {
			row := make(store.Row, len(record))
			for j, cell := range record {
				row[j] = cell
			}
			if err := importRow(db, table, row); err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}
			imported++
		}

		log.Printf("imported %d rows into %s", imported, table)
		return nil
	},
}

// importRow decodes one legacy row through the positional column maps and
// persists it through the matching repository.
func importRow(db *gorm.DB, table string, row store.Row) error {
	switch table {
	case store.TablePengajuan:
		p, err := store.DecodePengajuan(row)
		if err != nil {
			return err
		}
		return repository.NewPengajuanRepository(db).Save(p)
	case store.TableUsers:
		h, err := store.DecodeHandler(row)
		if err != nil {
			return err
		}
		return repository.NewHandlerRepository(db).Save(h)
	case store.TablePenugasan:
		a, err := store.DecodePenugasan(row)
		if err != nil {
			return err
		}
		return repository.NewPenugasanRepository(db).Save(a)
	case store.TableProses:
		p, err := store.DecodeProses(row)
		if err != nil {
			return err
		}
		return repository.NewProsesRepository(db).Save(p)
	default:
		return fmt.Errorf("%w: %s", store.ErrUnknownTable, table)
	}
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("config", "", "Config file path")
}
