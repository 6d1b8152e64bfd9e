package main

import (
	"context"
	"fmt"
	"time"

	"anoa.com/socialblog/internal/server"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, skipMigrate)
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "start without running database migrations")

	return cmd
}

func runServe(cmd *cobra.Command, skipMigrate bool) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if !skipMigrate {
		if err := server.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Info("database migrations completed")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		err = client.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Warn("redis unreachable, realtime feed updates disabled", zap.Error(err))
			_ = client.Close()
		} else {
			redisClient = client
			defer client.Close()
		}
	} else {
		log.Info("REDIS_URL not set, realtime feed updates disabled")
	}

	srv := server.NewServer(cfg, db, redisClient, log)
	return srv.Run(":" + cfg.Port)
}
