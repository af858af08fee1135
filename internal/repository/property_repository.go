package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stonefield/radarpipe/internal/database"
	"github.com/stonefield/radarpipe/internal/models"
)

// propertyColumns is the select list shared by every property query, in
// scanProperty order.
const propertyColumns = `
	id,
	apn,
	address,
	city,
	zip_code,
	property_type,
	year_built,
	square_feet,
	bedrooms,
	bathrooms,
	estimated_value,
	estimated_equity,
	purchase_date,
	owner_occupied,
	listed_for_sale,
	foreclosure,
	mail_address,
	mail_city,
	mail_state,
	mail_zip,
	latitude,
	longitude,
	created_at,
	updated_at`

// propertyRepository is the pgx-backed implementation of PropertyRepository.
type propertyRepository struct {
	q database.Querier
}

// NewPropertyRepository creates a PropertyRepository over the given querier
// (a pool or a transaction).
func NewPropertyRepository(q database.Querier) PropertyRepository {
	return &propertyRepository{q: q}
}

func (r *propertyRepository) FindByAPN(ctx context.Context, apn string) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE apn = $1 LIMIT 1`

	property, err := scanProperty(r.q.QueryRow(ctx, query, apn))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property by apn %q: %w", apn, err)
	}
	return property, nil
}

func (r *propertyRepository) FindByAddressZip(ctx context.Context, address, zipCode string) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + `
		FROM properties
		WHERE LOWER(address) = LOWER($1) AND LOWER(zip_code) = LOWER($2)
		LIMIT 1`

	property, err := scanProperty(r.q.QueryRow(ctx, query, address, zipCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property by address %q zip %q: %w", address, zipCode, err)
	}
	return property, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (
			apn, address, city, zip_code, property_type, year_built,
			square_feet, bedrooms, bathrooms, estimated_value,
			estimated_equity, purchase_date, owner_occupied,
			listed_for_sale, foreclosure, mail_address, mail_city,
			mail_state, mail_zip, latitude, longitude
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		p.APN, p.Address, p.City, p.ZipCode, p.PropertyType, p.YearBuilt,
		p.SquareFeet, p.Bedrooms, p.Bathrooms, p.EstimatedValue,
		p.EstimatedEquity, p.PurchaseDate, p.OwnerOccupied,
		p.ListedForSale, p.Foreclosure, p.MailAddress, p.MailCity,
		p.MailState, p.MailZip, p.Latitude, p.Longitude,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		// Unique violations bubble up unwrapped so the entity resolver
		// can detect the create race and retry its lookup.
		if database.IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create property %q: %w", p.Address, err)
	}
	return nil
}

func (r *propertyRepository) Update(ctx context.Context, p *models.Property) error {
	query := `
		UPDATE properties SET
			apn = $2,
			address = $3,
			city = $4,
			zip_code = $5,
			property_type = $6,
			year_built = $7,
			square_feet = $8,
			bedrooms = $9,
			bathrooms = $10,
			estimated_value = $11,
			estimated_equity = $12,
			purchase_date = $13,
			owner_occupied = $14,
			listed_for_sale = $15,
			foreclosure = $16,
			mail_address = $17,
			mail_city = $18,
			mail_state = $19,
			mail_zip = $20,
			latitude = $21,
			longitude = $22,
			updated_at = now()
		WHERE id = $1`

	_, err := r.q.Exec(ctx, query,
		p.ID, p.APN, p.Address, p.City, p.ZipCode, p.PropertyType,
		p.YearBuilt, p.SquareFeet, p.Bedrooms, p.Bathrooms,
		p.EstimatedValue, p.EstimatedEquity, p.PurchaseDate,
		p.OwnerOccupied, p.ListedForSale, p.Foreclosure, p.MailAddress,
		p.MailCity, p.MailState, p.MailZip, p.Latitude, p.Longitude,
	)
	if err != nil {
		return fmt.Errorf("failed to update property %d: %w", p.ID, err)
	}
	return nil
}

func (r *propertyRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM properties`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

// scanProperty scans one property row in propertyColumns order.
func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID,
		&p.APN,
		&p.Address,
		&p.City,
		&p.ZipCode,
		&p.PropertyType,
		&p.YearBuilt,
		&p.SquareFeet,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.EstimatedValue,
		&p.EstimatedEquity,
		&p.PurchaseDate,
		&p.OwnerOccupied,
		&p.ListedForSale,
		&p.Foreclosure,
		&p.MailAddress,
		&p.MailCity,
		&p.MailState,
		&p.MailZip,
		&p.Latitude,
		&p.Longitude,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
