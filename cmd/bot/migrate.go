package main

import (
	"fmt"

	"ai-notes-bot/pkg/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the notes table in Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Connection == "" {
			return fmt.Errorf("DB_CONNECTION_STRING is not set")
		}

		db, err := database.NewGormDBFromDSN(cfg.Store.Connection, true)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		fmt.Println("✅ Migration completed")
		return nil
	},
}
