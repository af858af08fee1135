package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stonefield/radarpipe/internal/database"
	"github.com/stonefield/radarpipe/internal/models"
)

// associationRepository is the pgx-backed implementation of
// AssociationRepository.
type associationRepository struct {
	q database.Querier
}

// NewAssociationRepository creates an AssociationRepository over the given
// querier.
func NewAssociationRepository(q database.Querier) AssociationRepository {
	return &associationRepository{q: q}
}

func (r *associationRepository) FindByPropertyAndContact(ctx context.Context, propertyID, contactID uint) (*models.PropertyContact, error) {
	query := `
		SELECT id, property_id, contact_id, relationship_type, category,
		       is_primary, created_at, updated_at
		FROM property_contacts
		WHERE property_id = $1 AND contact_id = $2
		LIMIT 1`

	var a models.PropertyContact
	err := r.q.QueryRow(ctx, query, propertyID, contactID).Scan(
		&a.ID,
		&a.PropertyID,
		&a.ContactID,
		&a.RelationshipType,
		&a.Category,
		&a.IsPrimary,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query association (property=%d, contact=%d): %w",
			propertyID, contactID, err)
	}
	return &a, nil
}

func (r *associationRepository) Create(ctx context.Context, a *models.PropertyContact) error {
	query := `
		INSERT INTO property_contacts (
			property_id, contact_id, relationship_type, category, is_primary
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		a.PropertyID, a.ContactID, a.RelationshipType, a.Category, a.IsPrimary,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create association (property=%d, contact=%d): %w",
			a.PropertyID, a.ContactID, err)
	}
	return nil
}

func (r *associationRepository) Update(ctx context.Context, a *models.PropertyContact) error {
	query := `
		UPDATE property_contacts SET
			relationship_type = $2,
			category = $3,
			is_primary = $4,
			updated_at = now()
		WHERE id = $1`

	_, err := r.q.Exec(ctx, query, a.ID, a.RelationshipType, a.Category, a.IsPrimary)
	if err != nil {
		return fmt.Errorf("failed to update association %d: %w", a.ID, err)
	}
	return nil
}

func (r *associationRepository) ClearPrimaryExcept(ctx context.Context, propertyID, exceptID uint) error {
	query := `
		UPDATE property_contacts SET
			is_primary = FALSE,
			updated_at = now()
		WHERE property_id = $1 AND id <> $2 AND is_primary`

	if _, err := r.q.Exec(ctx, query, propertyID, exceptID); err != nil {
		return fmt.Errorf("failed to clear primary flags for property %d: %w", propertyID, err)
	}
	return nil
}

func (r *associationRepository) CountOrphans(ctx context.Context) (int, error) {
	// Foreign keys should make this impossible; the consistency check
	// verifies it anyway.
	query := `
		SELECT COUNT(*)
		FROM property_contacts pc
		LEFT JOIN properties p ON p.id = pc.property_id
		LEFT JOIN contacts c ON c.id = pc.contact_id
		WHERE p.id IS NULL OR c.id IS NULL`

	var count int
	if err := r.q.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orphaned associations: %w", err)
	}
	return count, nil
}
