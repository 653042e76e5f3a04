package main

import (
	"github.com/spf13/cobra"
	"github.com/yukikurage/daily-planner-api/internal/database"
	"github.com/yukikurage/daily-planner-api/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return err
		}
		logging.CLI().Info("Schema is up to date")
		return nil
	},
}
