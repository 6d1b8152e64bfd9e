package main

import (
	"fmt"

	"anoa.com/socialblog/internal/config"
	"anoa.com/socialblog/pkg/database"
	"anoa.com/socialblog/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "socialblog",
		Short: "Social blogging API server",
		Long: `Serves the social blogging API: profiles synced from the identity provider,
the follow graph, posts with likes and comments, and the live feed.

Running without a subcommand is the same as "serve".`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, false)
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())

	return cmd
}

func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads configuration, builds the process logger and opens the database.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	zap.ReplaceGlobals(log)

	db, err := database.Connect(database.Options{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		Debug:    !cfg.IsProduction(),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("database: %w", err)
	}

	return cfg, log, db, nil
}
