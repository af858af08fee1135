package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stonefield/radarpipe/internal/database"
	"github.com/stonefield/radarpipe/internal/models"
)

// contactRepository is the pgx-backed implementation of ContactRepository.
type contactRepository struct {
	q database.Querier
}

// NewContactRepository creates a ContactRepository over the given querier.
func NewContactRepository(q database.Querier) ContactRepository {
	return &contactRepository{q: q}
}

func (r *contactRepository) FindByPhone(ctx context.Context, phone string) (*models.Contact, error) {
	query := `
		SELECT id, first_name, last_name, phone, email, metadata, created_at, updated_at
		FROM contacts
		WHERE phone = $1
		LIMIT 1`

	var c models.Contact
	err := r.q.QueryRow(ctx, query, phone).Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Phone,
		&c.Email,
		&c.Metadata,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query contact by phone %q: %w", phone, err)
	}
	return &c, nil
}

func (r *contactRepository) Create(ctx context.Context, c *models.Contact) error {
	query := `
		INSERT INTO contacts (first_name, last_name, phone, email, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		c.FirstName, c.LastName, c.Phone, c.Email, c.Metadata,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create contact %q: %w", c.Phone, err)
	}
	return nil
}

func (r *contactRepository) Update(ctx context.Context, c *models.Contact) error {
	query := `
		UPDATE contacts SET
			first_name = $2,
			last_name = $3,
			phone = $4,
			email = $5,
			metadata = $6,
			updated_at = now()
		WHERE id = $1`

	_, err := r.q.Exec(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Phone, c.Email, c.Metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact %d: %w", c.ID, err)
	}
	return nil
}

func (r *contactRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}
