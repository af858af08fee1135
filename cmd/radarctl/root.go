package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stonefield/radarpipe/internal/config"
	"github.com/stonefield/radarpipe/internal/database"
	"github.com/stonefield/radarpipe/internal/logger"
	"github.com/stonefield/radarpipe/internal/repository"
)

var rootCmd = &cobra.Command{
	Use:   "radarctl",
	Short: "PropertyRadar CSV import tooling",
	Long: `radarctl imports PropertyRadar CSV exports into the property database,
verifies imported data, applies the schema, and watches an inbox
directory for new files.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadEnv loads configuration and builds the logger shared by every
// subcommand.
func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, logger.New(cfg.Server.Env), nil
}

// openStore connects to Postgres and wraps the pool in a Store. The
// caller owns the returned database handle and must Close it.
func openStore(ctx context.Context, cfg *config.Config) (*database.Database, repository.Store, error) {
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, repository.NewStore(db), nil
}
