package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stonefield/radarpipe/internal/database"
	"github.com/stonefield/radarpipe/internal/models"
)

// listRepository is the pgx-backed implementation of ListRepository.
type listRepository struct {
	q database.Querier
}

// NewListRepository creates a ListRepository over the given querier.
func NewListRepository(q database.Querier) ListRepository {
	return &listRepository{q: q}
}

func (r *listRepository) FindByName(ctx context.Context, name string) (*models.CampaignList, error) {
	query := `
		SELECT id, name, description, created_by, created_at
		FROM campaign_lists
		WHERE name = $1
		LIMIT 1`

	var list models.CampaignList
	err := r.q.QueryRow(ctx, query, name).Scan(
		&list.ID,
		&list.Name,
		&list.Description,
		&list.CreatedBy,
		&list.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query campaign list %q: %w", name, err)
	}
	return &list, nil
}

func (r *listRepository) Create(ctx context.Context, list *models.CampaignList) error {
	query := `
		INSERT INTO campaign_lists (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query, list.Name, list.Description, list.CreatedBy).
		Scan(&list.ID, &list.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create campaign list %q: %w", list.Name, err)
	}
	return nil
}

func (r *listRepository) FindMembership(ctx context.Context, listID, contactID uint) (*models.ListMembership, error) {
	query := `
		SELECT id, list_id, contact_id, status, metadata, created_at, updated_at
		FROM list_memberships
		WHERE list_id = $1 AND contact_id = $2
		LIMIT 1`

	var m models.ListMembership
	err := r.q.QueryRow(ctx, query, listID, contactID).Scan(
		&m.ID,
		&m.ListID,
		&m.ContactID,
		&m.Status,
		&m.Metadata,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query membership (list=%d, contact=%d): %w",
			listID, contactID, err)
	}
	return &m, nil
}

func (r *listRepository) CreateMembership(ctx context.Context, m *models.ListMembership) error {
	query := `
		INSERT INTO list_memberships (list_id, contact_id, status, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query, m.ListID, m.ContactID, m.Status, m.Metadata).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create membership (list=%d, contact=%d): %w",
			m.ListID, m.ContactID, err)
	}
	return nil
}

func (r *listRepository) UpdateMembership(ctx context.Context, m *models.ListMembership) error {
	query := `
		UPDATE list_memberships SET
			status = $2,
			metadata = $3,
			updated_at = now()
		WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, m.ID, m.Status, m.Metadata); err != nil {
		return fmt.Errorf("failed to update membership %d: %w", m.ID, err)
	}
	return nil
}
