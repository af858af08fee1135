package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stonefield/radarpipe/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Migrate applies the embedded schema to the configured database. Every
statement is idempotent, so running it against an existing database is
safe.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.ApplySchema(ctx); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Info("Schema applied", map[string]interface{}{
		"host":     cfg.Database.Host,
		"database": cfg.Database.Name,
	})
	fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
	return nil
}
