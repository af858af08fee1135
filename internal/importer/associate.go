package importer

import (
	"context"
	"fmt"

	"github.com/stonefield/radarpipe/internal/models"
	"github.com/stonefield/radarpipe/internal/repository"
)

// Associator links properties to contacts with typed relationships.
type Associator struct{}

// NewAssociator creates an Associator.
func NewAssociator() *Associator {
	return &Associator{}
}

// Associate upserts the association for (property, contact): an existing
// row gets its relationship type and primary flag updated, otherwise a new
// row is created. When isPrimary is set, the primary flag is cleared on
// every other association of the same property so a property never has two
// primary contacts.
func (a *Associator) Associate(ctx context.Context, store repository.Store, property *models.Property, contact *models.Contact, relationshipType string, isPrimary bool) (*models.PropertyContact, error) {
	assocs := store.Associations()

	assoc, err := assocs.FindByPropertyAndContact(ctx, property.ID, contact.ID)
	if err != nil {
		return nil, err
	}

	if assoc != nil {
		assoc.RelationshipType = relationshipType
		assoc.Category = models.StorageCategory(relationshipType)
		assoc.IsPrimary = isPrimary
		if err := assocs.Update(ctx, assoc); err != nil {
			return nil, fmt.Errorf("failed to update association %d: %w", assoc.ID, err)
		}
	} else {
		assoc = &models.PropertyContact{
			PropertyID:       property.ID,
			ContactID:        contact.ID,
			RelationshipType: relationshipType,
			Category:         models.StorageCategory(relationshipType),
			IsPrimary:        isPrimary,
		}
		if err := assocs.Create(ctx, assoc); err != nil {
			return nil, fmt.Errorf("failed to create association (property=%d, contact=%d): %w",
				property.ID, contact.ID, err)
		}
	}

	if isPrimary {
		if err := assocs.ClearPrimaryExcept(ctx, property.ID, assoc.ID); err != nil {
			return nil, err
		}
	}

	return assoc, nil
}
