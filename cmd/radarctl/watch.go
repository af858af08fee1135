package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/stonefield/radarpipe/internal/logger"
	"github.com/stonefield/radarpipe/internal/services"
)

// Inbox subdirectories files are moved to after processing.
const (
	processedDir = "processed"
	failedDir    = "failed"
)

var watchFlags struct {
	dir        string
	schedule   string
	listName   string
	importedBy string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an inbox directory and import CSV files as they arrive",
	Long: `Watch scans the inbox directory on a cron schedule. Each CSV file found
is imported and then moved to the processed/ subdirectory, or failed/
if the run could not proceed. Row-level errors do not fail a run.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchFlags.dir, "dir", "d", "", "inbox directory to watch (required)")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "@every 1m", "cron schedule for inbox scans")
	watchCmd.Flags().StringVarP(&watchFlags.listName, "list", "l", "", "campaign list to collect contacts into")
	watchCmd.Flags().StringVar(&watchFlags.importedBy, "imported-by", "radarctl-watch", "identity recorded on import runs")
	_ = watchCmd.MarkFlagRequired("dir")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	for _, sub := range []string{processedDir, failedDir} {
		if err := os.MkdirAll(filepath.Join(watchFlags.dir, sub), 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	db, store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	service := services.NewImportService(store, cfg.Import, log)
	watchLog := log.WithComponent("inbox_watcher")

	// A slow import must not overlap with the next tick.
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err = scheduler.AddFunc(watchFlags.schedule, func() {
		scanInbox(ctx, service, watchLog)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", watchFlags.schedule, err)
	}

	watchLog.Info("Watching inbox", map[string]interface{}{
		"dir":      watchFlags.dir,
		"schedule": watchFlags.schedule,
	})
	scheduler.Start()
	defer scheduler.Stop()

	// Pick up anything already sitting in the inbox before the first tick.
	scanInbox(ctx, service, watchLog)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	watchLog.Info("Watcher stopped", nil)
	return nil
}

// scanInbox imports every CSV currently in the inbox and files each one
// under processed/ or failed/ by outcome.
func scanInbox(ctx context.Context, service services.ImportService, log *logger.Logger) {
	entries, err := os.ReadDir(watchFlags.dir)
	if err != nil {
		log.Error("Failed to read inbox", err, map[string]interface{}{"dir": watchFlags.dir})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		importInboxFile(ctx, service, log, entry.Name())
	}
}

func importInboxFile(ctx context.Context, service services.ImportService, log *logger.Logger, name string) {
	path := filepath.Join(watchFlags.dir, name)

	file, err := os.Open(path)
	if err != nil {
		log.Error("Failed to open inbox file", err, map[string]interface{}{"file": path})
		return
	}

	result, err := service.Import(ctx, services.ImportRequest{
		Reader:     file,
		Filename:   name,
		ImportedBy: watchFlags.importedBy,
		ListName:   watchFlags.listName,
	})
	file.Close()

	dest := filepath.Join(watchFlags.dir, processedDir, name)
	switch {
	case err != nil:
		log.Error("Import failed", err, map[string]interface{}{"file": name})
		dest = filepath.Join(watchFlags.dir, failedDir, name)
	case !result.Success:
		log.Warn("Import rejected", map[string]interface{}{
			"file":    name,
			"code":    result.ErrorCode,
			"message": result.ErrorMessage,
		})
		dest = filepath.Join(watchFlags.dir, failedDir, name)
	default:
		log.Info("Imported inbox file", map[string]interface{}{
			"file":               name,
			"run_id":             result.RunID.String(),
			"total_rows":         result.Stats.TotalRows,
			"failed_rows":        result.Stats.FailedRows,
			"properties_created": result.Stats.PropertiesCreated,
			"contacts_created":   result.Stats.ContactsCreated,
		})
	}

	if err := os.Rename(path, dest); err != nil {
		log.Error("Failed to move inbox file", err, map[string]interface{}{
			"from": path,
			"to":   dest,
		})
	}
}
