package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stonefield/radarpipe/internal/config"
	"github.com/stonefield/radarpipe/internal/importer"
	"github.com/stonefield/radarpipe/internal/logger"
	"github.com/stonefield/radarpipe/internal/models"
	"github.com/stonefield/radarpipe/internal/repository"
)

// Service-level errors
var (
	ErrRunNotFound = errors.New("import run not found")
	ErrEmptyFile   = errors.New("csv stream is empty")
)

// ImportRequest describes one import invocation.
type ImportRequest struct {
	// Reader supplies the CSV content.
	Reader io.Reader
	// Filename is recorded on the run for audit.
	Filename string
	// ImportedBy identifies the initiating user.
	ImportedBy string
	// ListName, when set, collects every resolved contact into the named
	// campaign list (created if it does not exist).
	ListName string
	// DuplicateStrategy is merge (default) or skip.
	DuplicateStrategy string
	// BatchSize overrides the configured batch size when positive.
	BatchSize int
	// Progress is the optional row-based progress sink.
	Progress importer.ProgressFunc
}

// ImportService orchestrates import runs: header validation, campaign
// list resolution, batched row processing, and run-record finalization.
type ImportService interface {
	// Import executes one run. Domain failures (bad header, list creation
	// failure) come back inside the Result with a machine-readable code;
	// the error return is reserved for invocation mistakes.
	Import(ctx context.Context, req ImportRequest) (*importer.Result, error)

	// Verify re-parses a CSV and checks storage covers it. Read-only.
	Verify(ctx context.Context, csv io.Reader) (*importer.ConsistencyReport, error)

	// GetRun retrieves a run record. Returns ErrRunNotFound when the ID
	// is unknown.
	GetRun(ctx context.Context, id uuid.UUID) (*models.ImportRun, error)
}

// importService is the concrete implementation of ImportService.
type importService struct {
	store repository.Store
	cfg   config.ImportConfig
	log   *logger.Logger
}

// NewImportService creates a new instance of ImportService.
func NewImportService(store repository.Store, cfg config.ImportConfig, log *logger.Logger) ImportService {
	return &importService{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

// Import runs the full pipeline for one CSV stream.
func (s *importService) Import(ctx context.Context, req ImportRequest) (*importer.Result, error) {
	if req.Reader == nil {
		return nil, fmt.Errorf("import request has no csv reader")
	}

	start := time.Now()
	runID := uuid.New()
	log := s.log.WithRunID(runID.String())

	log.Info("Starting import run", map[string]interface{}{
		"filename":    req.Filename,
		"imported_by": req.ImportedBy,
		"list_name":   req.ListName,
	})

	run := &models.ImportRun{
		ID:         runID,
		Filename:   req.Filename,
		ImportedBy: req.ImportedBy,
		Status:     models.ImportRunRunning,
	}
	if err := s.store.Runs().Create(ctx, run); err != nil {
		log.Error("Failed to create run record", err, nil)
		return importer.Failure(runID, importer.CodeDatabase,
			fmt.Sprintf("failed to create import run record: %v", err)), nil
	}

	header, rows, err := importer.ParseCSV(req.Reader)
	if err != nil {
		s.finalize(ctx, log, run, nil, map[string]interface{}{"parse_error": err.Error()}, false)
		return importer.Failure(runID, importer.CodeValidation,
			fmt.Sprintf("failed to parse csv: %v", err)), nil
	}

	// Header validation happens before any row is touched.
	if missing := importer.MissingHeaders(header, importer.RequiredHeaders()); len(missing) > 0 {
		s.finalize(ctx, log, run, nil, map[string]interface{}{"missing_headers": missing}, false)
		result := importer.Failure(runID, importer.CodeMissingHeaders,
			fmt.Sprintf("csv is missing required headers: %s", strings.Join(missing, ", ")))
		result.MissingHeaders = missing
		return result, nil
	}

	// List resolution. A list failure is fatal to the run: no rows have
	// been committed yet, so nothing partial survives.
	var list *models.CampaignList
	if req.ListName != "" {
		list, err = s.resolveList(ctx, req)
		if err != nil {
			log.Error("Failed to resolve campaign list", err, map[string]interface{}{
				"list_name": req.ListName,
			})
			s.finalize(ctx, log, run, nil, map[string]interface{}{"list_error": err.Error()}, false)
			return importer.Failure(runID, importer.CodeListCreation,
				fmt.Sprintf("failed to resolve campaign list %q: %v", req.ListName, err)), nil
		}
	}

	opts := importer.CoordinatorOptions{
		BatchSize:        s.cfg.BatchSize,
		ProgressInterval: s.cfg.ProgressInterval,
		MaxErrors:        s.cfg.MaxErrors,
		Strategy:         req.DuplicateStrategy,
		RunLabel:         runID.String(),
		Progress:         req.Progress,
	}
	if req.BatchSize > 0 {
		opts.BatchSize = req.BatchSize
	}
	if list != nil {
		opts.ListID = list.ID
	}

	coordinator := importer.NewCoordinator(s.store, log, opts)
	stats, runErr := coordinator.Process(ctx, rows)
	stats.ProcessingSeconds = time.Since(start).Seconds()

	if runErr != nil {
		stats.AddError("run aborted: %v", runErr)
		s.finalize(ctx, log, run, stats, nil, false)
		result := importer.Failure(runID, importer.CodeImport, runErr.Error())
		result.Stats = stats
		return result, nil
	}

	s.finalize(ctx, log, run, stats, nil, true)

	log.Info("Import run completed", map[string]interface{}{
		"total_rows":         stats.TotalRows,
		"failed_rows":        stats.FailedRows,
		"properties_created": stats.PropertiesCreated,
		"properties_updated": stats.PropertiesUpdated,
		"contacts_created":   stats.ContactsCreated,
		"contacts_updated":   stats.ContactsUpdated,
		"processing_seconds": stats.ProcessingSeconds,
	})

	result := &importer.Result{
		Success: true,
		RunID:   runID,
		Stats:   stats,
	}
	if list != nil {
		result.ListID = list.ID
		result.ListName = list.Name
	}
	return result, nil
}

// resolveList reuses an existing campaign list by exact name or creates a
// new one referencing the source file and initiator.
func (s *importService) resolveList(ctx context.Context, req ImportRequest) (*models.CampaignList, error) {
	lists := s.store.Lists()

	list, err := lists.FindByName(ctx, req.ListName)
	if err != nil {
		return nil, err
	}
	if list != nil {
		return list, nil
	}

	list = &models.CampaignList{
		Name:        req.ListName,
		Description: fmt.Sprintf("Imported from %s by %s", req.Filename, req.ImportedBy),
		CreatedBy:   req.ImportedBy,
	}
	if err := lists.Create(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// finalize persists the run's terminal status, counts and captured errors.
// Failure to persist is logged but does not fail an otherwise successful
// run: the rows are already committed.
func (s *importService) finalize(ctx context.Context, log *logger.Logger, run *models.ImportRun, stats *importer.Stats, extra map[string]interface{}, success bool) {
	now := time.Now()
	run.CompletedAt = &now
	if success {
		run.Status = models.ImportRunCompleted
	} else {
		run.Status = models.ImportRunFailed
	}

	metadata := map[string]interface{}{}
	for k, v := range extra {
		metadata[k] = v
	}
	if stats != nil {
		run.TotalRows = stats.TotalRows
		run.SuccessCount = stats.SuccessRows()
		run.FailureCount = stats.FailedRows
		metadata["errors"] = stats.Errors
		if stats.ErrorsDropped > 0 {
			metadata["errors_dropped"] = stats.ErrorsDropped
		}
	}
	run.Metadata = metadata

	if err := s.store.Runs().Update(ctx, run); err != nil {
		log.Error("Failed to finalize run record", err, map[string]interface{}{
			"run_id": run.ID.String(),
		})
	}
}

// Verify re-parses the CSV and returns the consistency report.
func (s *importService) Verify(ctx context.Context, csv io.Reader) (*importer.ConsistencyReport, error) {
	if csv == nil {
		return nil, ErrEmptyFile
	}

	_, rows, err := importer.ParseCSV(csv)
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return importer.CheckConsistency(ctx, s.store, rows)
}

// GetRun retrieves one run record by ID.
func (s *importService) GetRun(ctx context.Context, id uuid.UUID) (*models.ImportRun, error) {
	run, err := s.store.Runs().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query import run: %w", err)
	}
	if run == nil {
		return nil, ErrRunNotFound
	}
	return run, nil
}
