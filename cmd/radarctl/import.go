package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/stonefield/radarpipe/internal/importer"
	"github.com/stonefield/radarpipe/internal/repository"
	"github.com/stonefield/radarpipe/internal/services"
)

var importFlags struct {
	file       string
	listName   string
	importedBy string
	strategy   string
	batchSize  int
	dryRun     bool
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a PropertyRadar CSV export",
	Long: `Import runs a CSV file through the full pipeline: header validation,
per-row extraction and normalization, entity resolution against existing
records, association building, and optional campaign list collection.

With --dry-run the file is processed against an in-memory store, so the
full pipeline runs (including dedup within the file) without touching
the database.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFlags.file, "file", "f", "", "path to the CSV file (required)")
	importCmd.Flags().StringVarP(&importFlags.listName, "list", "l", "", "campaign list to collect contacts into")
	importCmd.Flags().StringVar(&importFlags.importedBy, "imported-by", "radarctl", "identity recorded on the import run")
	importCmd.Flags().StringVar(&importFlags.strategy, "strategy", importer.StrategyMerge, "duplicate handling: merge or skip")
	importCmd.Flags().IntVar(&importFlags.batchSize, "batch-size", 0, "rows per transaction (0 = configured default)")
	importCmd.Flags().BoolVar(&importFlags.dryRun, "dry-run", false, "run the pipeline against an in-memory store")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var store repository.Store
	if importFlags.dryRun {
		store = repository.NewMemoryStore()
	} else {
		db, s, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		store = s
	}

	file, err := os.Open(importFlags.file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", importFlags.file, err)
	}
	defer file.Close()

	service := services.NewImportService(store, cfg.Import, log)
	result, err := service.Import(ctx, services.ImportRequest{
		Reader:            file,
		Filename:          filepath.Base(importFlags.file),
		ImportedBy:        importFlags.importedBy,
		ListName:          importFlags.listName,
		DuplicateStrategy: importFlags.strategy,
		BatchSize:         importFlags.batchSize,
		Progress: func(processed, total int) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\rprocessed %d/%d rows", processed, total)
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !result.Success {
		return fmt.Errorf("import failed: %s (%s)", result.ErrorMessage, result.ErrorCode)
	}
	if importFlags.dryRun {
		fmt.Fprintln(cmd.ErrOrStderr(), "dry run: no database changes were made")
	}
	return nil
}
