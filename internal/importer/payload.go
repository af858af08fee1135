// Package importer implements the PropertyRadar CSV import and
// reconciliation pipeline: row extraction, entity resolution with
// deduplication, property-contact association building, and batched
// transactional processing with run-level statistics.
package importer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Op is the closed set of outcomes an entity resolution can have. The
// statistics aggregator consumes it exhaustively so a new outcome cannot
// silently fall through uncounted.
type Op int

const (
	// OpCreated means a new record was inserted.
	OpCreated Op = iota
	// OpUpdated means an existing record was found and merged with the
	// payload.
	OpUpdated
	// OpExisting means an existing record was found and reused without a
	// field merge.
	OpExisting
)

// String returns the tag name for logging.
func (op Op) String() string {
	switch op {
	case OpCreated:
		return "created"
	case OpUpdated:
		return "updated"
	case OpExisting:
		return "existing"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// PropertyPayload carries the normalized property fields extracted from
// one CSV row. Optional fields are pointers: a nil field was absent or
// blank in the row and must not overwrite existing data during a merge.
type PropertyPayload struct {
	PurchaseDate    *time.Time
	APN             *string
	City            *string
	PropertyType    *string
	MailAddress     *string
	MailCity        *string
	MailState       *string
	MailZip         *string
	YearBuilt       *int
	SquareFeet      *int
	Bedrooms        *int
	Bathrooms       *float64
	EstimatedValue  *decimal.Decimal
	EstimatedEquity *decimal.Decimal
	OwnerOccupied   *bool
	ListedForSale   *bool
	Foreclosure     *bool
	Latitude        *float64
	Longitude       *float64
	Address         string
	ZipCode         string
}

// Contact roles within a row.
const (
	RolePrimary   = "primary"
	RoleSecondary = "secondary"
)

// ContactPayload carries one contact extracted from a CSV row. A payload
// is only produced when both a name and a normalizable phone number were
// present, so Phone is always a canonical +1 number and FirstName/LastName
// are non-empty (placeholder-substituted if extraction came up short).
type ContactPayload struct {
	Metadata  map[string]interface{}
	Email     *string
	FirstName string
	LastName  string
	Phone     string
	Role      string
}

// ExtractedRow is the structured result of extracting one CSV row.
type ExtractedRow struct {
	PrimaryContact   *ContactPayload
	SecondaryContact *ContactPayload
	Property         PropertyPayload
}

// ValidationError describes one field-level problem found in a CSV row.
// It is collected, never raised.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
