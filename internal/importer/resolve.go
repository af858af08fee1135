package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/stonefield/radarpipe/internal/database"
	"github.com/stonefield/radarpipe/internal/logger"
	"github.com/stonefield/radarpipe/internal/models"
	"github.com/stonefield/radarpipe/internal/repository"
)

// Duplicate handling strategies.
const (
	StrategyMerge = "merge"
	StrategySkip  = "skip"
)

// ErrContactWithoutPhone is returned when a contact payload reaches the
// resolver without a canonical phone number. The extractor filters these
// out, so hitting it indicates a caller bug.
var ErrContactWithoutPhone = errors.New("contact payload has no phone number")

// Resolver reconciles payloads against existing records. Properties match
// by APN first, then by (address, zip) case-insensitively; contacts match
// by canonical phone number only.
type Resolver struct {
	log      *logger.Logger
	strategy string
}

// NewResolver creates a Resolver. strategy controls what happens when a
// property payload matches an existing record: StrategyMerge applies the
// payload's non-nil fields, StrategySkip leaves the record untouched.
func NewResolver(log *logger.Logger, strategy string) *Resolver {
	if strategy == "" {
		strategy = StrategyMerge
	}
	return &Resolver{
		log:      log.WithComponent("entity_resolver"),
		strategy: strategy,
	}
}

// ResolveProperty finds or creates the property for the payload.
//
// On a uniqueness-constraint failure during create (a concurrent run won
// the race), the lookup is re-run once and a newly visible match is
// treated as an update; any other failure propagates.
func (r *Resolver) ResolveProperty(ctx context.Context, store repository.Store, payload PropertyPayload) (*models.Property, Op, error) {
	props := store.Properties()

	existing, err := r.lookupProperty(ctx, props, payload)
	if err != nil {
		return nil, 0, err
	}
	if existing != nil {
		return r.mergeProperty(ctx, props, existing, payload)
	}

	created := propertyFromPayload(payload)
	// The create gets its own transaction scope so a constraint failure
	// rolls back to a savepoint instead of aborting the batch transaction,
	// which would poison the retry lookup and every later statement.
	err = store.WithTx(ctx, func(s repository.Store) error {
		return s.Properties().Create(ctx, created)
	})
	if err != nil {
		if !database.IsUniqueViolation(err) {
			return nil, 0, fmt.Errorf("failed to create property: %w", err)
		}

		// Lost a create race; the winner's row must be visible now.
		existing, lookupErr := r.lookupProperty(ctx, props, payload)
		if lookupErr != nil {
			return nil, 0, lookupErr
		}
		if existing == nil {
			return nil, 0, fmt.Errorf("property create conflicted but no match found: %w", err)
		}
		return r.mergeProperty(ctx, props, existing, payload)
	}

	r.log.Debug("Property created", map[string]interface{}{
		"property_id": created.ID,
		"address":     created.Address,
	})
	return created, OpCreated, nil
}

// lookupProperty applies the dedup key order: APN when present, otherwise
// address plus zip code.
func (r *Resolver) lookupProperty(ctx context.Context, props repository.PropertyRepository, payload PropertyPayload) (*models.Property, error) {
	if payload.APN != nil && *payload.APN != "" {
		property, err := props.FindByAPN(ctx, *payload.APN)
		if err != nil {
			return nil, err
		}
		if property != nil {
			return property, nil
		}
	}
	return props.FindByAddressZip(ctx, payload.Address, payload.ZipCode)
}

// mergeProperty applies the payload onto an existing record according to
// the duplicate strategy and reports the resulting operation tag.
func (r *Resolver) mergeProperty(ctx context.Context, props repository.PropertyRepository, existing *models.Property, payload PropertyPayload) (*models.Property, Op, error) {
	if r.strategy == StrategySkip {
		return existing, OpExisting, nil
	}

	applyPropertyPayload(existing, payload)
	if err := props.Update(ctx, existing); err != nil {
		return nil, 0, fmt.Errorf("failed to update property %d: %w", existing.ID, err)
	}

	r.log.Debug("Property updated", map[string]interface{}{
		"property_id": existing.ID,
		"address":     existing.Address,
	})
	return existing, OpUpdated, nil
}

// ResolveContact finds or creates the contact for the payload, matching
// solely by canonical phone number. Contacts without a phone are never
// created; the extractor guarantees the payload carries one.
func (r *Resolver) ResolveContact(ctx context.Context, store repository.Store, payload *ContactPayload) (*models.Contact, Op, error) {
	if payload.Phone == "" {
		return nil, 0, ErrContactWithoutPhone
	}

	contacts := store.Contacts()

	existing, err := contacts.FindByPhone(ctx, payload.Phone)
	if err != nil {
		return nil, 0, err
	}
	if existing != nil {
		return r.mergeContact(ctx, contacts, existing, payload)
	}

	created := contactFromPayload(payload)
	// Same savepoint discipline as the property create: the constraint
	// failure must not abort the enclosing transaction.
	err = store.WithTx(ctx, func(s repository.Store) error {
		return s.Contacts().Create(ctx, created)
	})
	if err != nil {
		if !database.IsUniqueViolation(err) {
			return nil, 0, fmt.Errorf("failed to create contact: %w", err)
		}

		existing, lookupErr := contacts.FindByPhone(ctx, payload.Phone)
		if lookupErr != nil {
			return nil, 0, lookupErr
		}
		if existing == nil {
			return nil, 0, fmt.Errorf("contact create conflicted but no match found: %w", err)
		}
		return r.mergeContact(ctx, contacts, existing, payload)
	}

	r.log.Debug("Contact created", map[string]interface{}{
		"contact_id": created.ID,
		"phone":      created.Phone,
	})
	return created, OpCreated, nil
}

// mergeContact fills gaps on an existing contact from the payload. A
// real extracted name replaces placeholder values, a missing email is
// backfilled, and new metadata keys are added without clobbering old ones.
func (r *Resolver) mergeContact(ctx context.Context, contacts repository.ContactRepository, existing *models.Contact, payload *ContactPayload) (*models.Contact, Op, error) {
	changed := false

	if existing.FirstName == PlaceholderFirstName && payload.FirstName != PlaceholderFirstName {
		existing.FirstName = payload.FirstName
		changed = true
	}
	if existing.LastName == PlaceholderLastName && payload.LastName != PlaceholderLastName {
		existing.LastName = payload.LastName
		changed = true
	}
	if existing.Email == nil && payload.Email != nil {
		existing.Email = payload.Email
		changed = true
	}
	if len(payload.Metadata) > 0 {
		if existing.Metadata == nil {
			existing.Metadata = map[string]interface{}{}
		}
		for k, v := range payload.Metadata {
			if _, ok := existing.Metadata[k]; !ok {
				existing.Metadata[k] = v
				changed = true
			}
		}
	}

	if changed {
		if err := contacts.Update(ctx, existing); err != nil {
			return nil, 0, fmt.Errorf("failed to update contact %d: %w", existing.ID, err)
		}
	}

	return existing, OpExisting, nil
}

// propertyFromPayload builds a fresh Property from a payload.
func propertyFromPayload(payload PropertyPayload) *models.Property {
	p := &models.Property{
		Address: payload.Address,
		ZipCode: payload.ZipCode,
	}
	applyPropertyPayload(p, payload)
	return p
}

// applyPropertyPayload copies every present payload field onto the record.
// Nil payload fields never clear existing values.
func applyPropertyPayload(p *models.Property, payload PropertyPayload) {
	if payload.Address != "" {
		p.Address = payload.Address
	}
	if payload.ZipCode != "" {
		p.ZipCode = payload.ZipCode
	}
	if payload.APN != nil {
		p.APN = payload.APN
	}
	if payload.City != nil {
		p.City = payload.City
	}
	if payload.PropertyType != nil {
		p.PropertyType = payload.PropertyType
	}
	if payload.YearBuilt != nil {
		p.YearBuilt = payload.YearBuilt
	}
	if payload.SquareFeet != nil {
		p.SquareFeet = payload.SquareFeet
	}
	if payload.Bedrooms != nil {
		p.Bedrooms = payload.Bedrooms
	}
	if payload.Bathrooms != nil {
		p.Bathrooms = payload.Bathrooms
	}
	if payload.EstimatedValue != nil {
		p.EstimatedValue = payload.EstimatedValue
	}
	if payload.EstimatedEquity != nil {
		p.EstimatedEquity = payload.EstimatedEquity
	}
	if payload.PurchaseDate != nil {
		p.PurchaseDate = payload.PurchaseDate
	}
	if payload.OwnerOccupied != nil {
		p.OwnerOccupied = payload.OwnerOccupied
	}
	if payload.ListedForSale != nil {
		p.ListedForSale = payload.ListedForSale
	}
	if payload.Foreclosure != nil {
		p.Foreclosure = payload.Foreclosure
	}
	if payload.MailAddress != nil {
		p.MailAddress = payload.MailAddress
	}
	if payload.MailCity != nil {
		p.MailCity = payload.MailCity
	}
	if payload.MailState != nil {
		p.MailState = payload.MailState
	}
	if payload.MailZip != nil {
		p.MailZip = payload.MailZip
	}
	if payload.Latitude != nil {
		p.Latitude = payload.Latitude
	}
	if payload.Longitude != nil {
		p.Longitude = payload.Longitude
	}
}

// contactFromPayload builds a fresh Contact from a payload.
func contactFromPayload(payload *ContactPayload) *models.Contact {
	return &models.Contact{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Email:     payload.Email,
		Metadata:  payload.Metadata,
	}
}
