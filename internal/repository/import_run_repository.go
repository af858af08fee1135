package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stonefield/radarpipe/internal/database"
	"github.com/stonefield/radarpipe/internal/models"
)

// importRunRepository is the pgx-backed implementation of
// ImportRunRepository.
type importRunRepository struct {
	q database.Querier
}

// NewImportRunRepository creates an ImportRunRepository over the given
// querier.
func NewImportRunRepository(q database.Querier) ImportRunRepository {
	return &importRunRepository{q: q}
}

func (r *importRunRepository) Create(ctx context.Context, run *models.ImportRun) error {
	query := `
		INSERT INTO import_runs (
			id, filename, imported_by, status, total_rows,
			success_count, failure_count, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING started_at`

	err := r.q.QueryRow(ctx, query,
		run.ID, run.Filename, run.ImportedBy, run.Status, run.TotalRows,
		run.SuccessCount, run.FailureCount, run.Metadata,
	).Scan(&run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create import run for %q: %w", run.Filename, err)
	}
	return nil
}

func (r *importRunRepository) Update(ctx context.Context, run *models.ImportRun) error {
	query := `
		UPDATE import_runs SET
			status = $2,
			total_rows = $3,
			success_count = $4,
			failure_count = $5,
			metadata = $6,
			completed_at = $7
		WHERE id = $1`

	_, err := r.q.Exec(ctx, query,
		run.ID, run.Status, run.TotalRows, run.SuccessCount,
		run.FailureCount, run.Metadata, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update import run %s: %w", run.ID, err)
	}
	return nil
}

func (r *importRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ImportRun, error) {
	query := `
		SELECT id, filename, imported_by, status, total_rows,
		       success_count, failure_count, metadata, started_at, completed_at
		FROM import_runs
		WHERE id = $1`

	var run models.ImportRun
	err := r.q.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.Filename,
		&run.ImportedBy,
		&run.Status,
		&run.TotalRows,
		&run.SuccessCount,
		&run.FailureCount,
		&run.Metadata,
		&run.StartedAt,
		&run.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query import run %s: %w", id, err)
	}
	return &run, nil
}
