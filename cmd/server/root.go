package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/daily-planner-api/internal/config"
	"github.com/yukikurage/daily-planner-api/internal/database"
	"github.com/yukikurage/daily-planner-api/internal/logging"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "daily-planner",
	Short: "Daily planning and accountability API",
	Long: `Daily planner API server.

Users plan tomorrow as a 100-point budget, execute against it today and are
ranked by score, streak and XP against friends and a global leaderboard.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(auditCmd)
}

// bootstrap loads configuration, configures logging and opens the database.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
