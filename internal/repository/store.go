package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/stonefield/radarpipe/internal/models"
)

// PropertyRepository defines data access for Property records.
// Find methods return nil, nil when no record matches (not an error);
// errors are actual database failures.
type PropertyRepository interface {
	// FindByAPN looks up a property by its parcel identifier.
	FindByAPN(ctx context.Context, apn string) (*models.Property, error)

	// FindByAddressZip looks up a property by case-insensitive
	// (address, zip code) equality.
	FindByAddressZip(ctx context.Context, address, zipCode string) (*models.Property, error)

	// Create inserts a new property and fills in its generated ID.
	Create(ctx context.Context, property *models.Property) error

	// Update persists all fields of an existing property.
	Update(ctx context.Context, property *models.Property) error

	// Count returns the total number of property records.
	Count(ctx context.Context) (int, error)
}

// ContactRepository defines data access for Contact records.
type ContactRepository interface {
	// FindByPhone looks up a contact by canonical phone number, the
	// system-wide contact dedup key.
	FindByPhone(ctx context.Context, phone string) (*models.Contact, error)

	// Create inserts a new contact and fills in its generated ID.
	Create(ctx context.Context, contact *models.Contact) error

	// Update persists all fields of an existing contact.
	Update(ctx context.Context, contact *models.Contact) error

	// Count returns the total number of contact records.
	Count(ctx context.Context) (int, error)
}

// AssociationRepository defines data access for property-contact links.
type AssociationRepository interface {
	// FindByPropertyAndContact looks up the association for one
	// (property, contact) pair.
	FindByPropertyAndContact(ctx context.Context, propertyID, contactID uint) (*models.PropertyContact, error)

	// Create inserts a new association and fills in its generated ID.
	Create(ctx context.Context, assoc *models.PropertyContact) error

	// Update persists all fields of an existing association.
	Update(ctx context.Context, assoc *models.PropertyContact) error

	// ClearPrimaryExcept drops the primary flag on every association for
	// the property other than the given association.
	ClearPrimaryExcept(ctx context.Context, propertyID, exceptID uint) error

	// CountOrphans returns how many associations reference a property or
	// contact that does not exist. Used by the consistency check.
	CountOrphans(ctx context.Context) (int, error)
}

// ListRepository defines data access for campaign lists and memberships.
type ListRepository interface {
	// FindByName looks up a campaign list by exact name.
	FindByName(ctx context.Context, name string) (*models.CampaignList, error)

	// Create inserts a new campaign list and fills in its generated ID.
	Create(ctx context.Context, list *models.CampaignList) error

	// FindMembership looks up the membership row for one (list, contact)
	// pair regardless of status.
	FindMembership(ctx context.Context, listID, contactID uint) (*models.ListMembership, error)

	// CreateMembership inserts a new membership row.
	CreateMembership(ctx context.Context, membership *models.ListMembership) error

	// UpdateMembership persists all fields of an existing membership row.
	UpdateMembership(ctx context.Context, membership *models.ListMembership) error
}

// ImportRunRepository defines data access for import run tracking records.
type ImportRunRepository interface {
	// Create inserts a new run record.
	Create(ctx context.Context, run *models.ImportRun) error

	// Update persists the run's status, counts and metadata.
	Update(ctx context.Context, run *models.ImportRun) error

	// FindByID looks up a run record by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*models.ImportRun, error)
}

// Store bundles the entity repositories behind one handle and owns
// transaction boundaries. The import pipeline never issues raw queries;
// everything goes through these interfaces.
type Store interface {
	Properties() PropertyRepository
	Contacts() ContactRepository
	Associations() AssociationRepository
	Lists() ListRepository
	Runs() ImportRunRepository

	// WithTx runs fn against a store bound to a transaction scope, which
	// commits when fn returns nil and rolls back when it returns an
	// error. Calls nest: on a transaction-bound store the scope is a
	// savepoint, so an inner rollback leaves the outer transaction
	// usable. The batch coordinator opens one scope per batch and one
	// per row; the resolver one around each create it may retry.
	WithTx(ctx context.Context, fn func(Store) error) error
}
