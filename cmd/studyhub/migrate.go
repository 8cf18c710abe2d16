package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"studyhub/backend/internal/config"
	"studyhub/backend/internal/db"
)

func newMigrateCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			database, err := db.OpenSQLite(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
