package main

import (
	"log/slog"

	"eduloan-backend/internal/infrastructure/db"

	"github.com/spf13/cobra"
)

func migrateCmd(envDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*envDir)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.openDB(); err != nil {
				return err
			}
			if err := db.Migrate(a.db); err != nil {
				return err
			}
			a.log.Info("migration complete", slog.Int("tables", len(db.Models())))
			return nil
		},
	}
}
