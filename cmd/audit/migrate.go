package main

import (
	"fmt"

	"github.com/fintegrity/backend/internal/infrastructure/config"
	"github.com/fintegrity/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the ledger schema",
	Long: `Migrate creates the companies, accounting periods, documents, line
items, and accounts tables in the configured database. Safe to run
repeatedly; existing data is preserved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		db, err := persistence.NewDatabase(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			_ = db.Close()
		}()

		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
