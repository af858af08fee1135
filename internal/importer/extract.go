package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/stonefield/radarpipe/internal/normalize"
)

// PropertyRadar export column names recognized by the extractor.
const (
	ColType          = "Type"
	ColAddress       = "Address"
	ColCity          = "City"
	ColZip           = "ZIP"
	ColAPN           = "APN"
	ColYearBuilt     = "Year Built"
	ColSquareFeet    = "Square Feet"
	ColBedrooms      = "Bedrooms"
	ColBathrooms     = "Baths"
	ColEstValue      = "Est Value"
	ColEstEquity     = "Est Equity $"
	ColPurchaseDate  = "Purchase Date"
	ColOwnerOccupied = "Owner Occupied?"
	ColListedForSale = "Listed for Sale?"
	ColForeclosure   = "Foreclosure?"
	ColMailAddress   = "Mail Address"
	ColMailCity      = "Mail City"
	ColMailState     = "Mail State"
	ColMailZip       = "Mail ZIP"
	ColLatitude      = "Latitude"
	ColLongitude     = "Longitude"

	ColPrimaryName          = "Primary Name"
	ColPrimaryPhone         = "Primary Mobile Phone1"
	ColPrimaryPhoneStatus   = "Primary Mobile Phone1 Status"
	ColPrimaryEmail         = "Primary Email1"
	ColPrimaryEmailStatus   = "Primary Email1 Status"
	ColSecondaryName        = "Secondary Name"
	ColSecondaryPhone       = "Secondary Mobile Phone1"
	ColSecondaryPhoneStatus = "Secondary Mobile Phone1 Status"
	ColSecondaryEmail       = "Secondary Email1"
	ColSecondaryEmailStatus = "Secondary Email1 Status"
)

// Placeholder values substituted when name extraction would otherwise
// leave a required name field empty.
const (
	PlaceholderFirstName = "Unknown"
	PlaceholderLastName  = "Contact"
)

// importSource tags contact provenance metadata.
const importSource = "propertyradar"

// RequiredHeaders is the minimal header set a PropertyRadar CSV must carry
// before any row is processed.
func RequiredHeaders() []string {
	return []string{
		ColType,
		ColAddress,
		ColCity,
		ColZip,
		ColPrimaryName,
		ColPrimaryPhone,
	}
}

// zipPattern matches 5-digit ZIP codes with an optional +4 extension.
var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// Extractor converts one raw CSV row into normalized payloads.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract produces the property payload and up to two contact payloads
// from the row. It never fails: malformed optional fields are simply
// omitted so downstream merges cannot clobber good data with garbage.
func (e *Extractor) Extract(row map[string]string) ExtractedRow {
	return ExtractedRow{
		Property:         e.extractProperty(row),
		PrimaryContact:   e.extractContact(row, RolePrimary),
		SecondaryContact: e.extractContact(row, RoleSecondary),
	}
}

// Validate checks the row's field formats without extracting it. It never
// returns an error itself; problems come back as itemized values.
func (e *Extractor) Validate(row map[string]string) []ValidationError {
	var errs []ValidationError

	if zip := field(row, ColZip); zip != "" && !zipPattern.MatchString(zip) {
		errs = append(errs, ValidationError{
			Field:   ColZip,
			Message: "must be a 5-digit ZIP code, optionally with a +4 extension",
		})
	}

	for _, col := range []string{ColEstValue, ColEstEquity} {
		if raw := field(row, col); raw != "" && normalize.Currency(raw) == nil {
			errs = append(errs, ValidationError{
				Field:   col,
				Message: "must be a numeric amount",
			})
		}
	}

	for _, col := range []string{ColPrimaryPhone, ColSecondaryPhone} {
		if raw := field(row, col); raw != "" {
			if _, ok := normalize.Phone(raw); !ok {
				errs = append(errs, ValidationError{
					Field:   col,
					Message: "is not a normalizable phone number",
				})
			}
		}
	}

	return errs
}

func (e *Extractor) extractProperty(row map[string]string) PropertyPayload {
	p := PropertyPayload{
		Address: normalize.Address(field(row, ColAddress)),
		ZipCode: field(row, ColZip),
	}

	if apn := field(row, ColAPN); apn != "" {
		p.APN = &apn
	}
	if city := normalize.City(field(row, ColCity)); city != "" {
		p.City = &city
	}
	if propType := field(row, ColType); propType != "" {
		p.PropertyType = &propType
	}
	if mail := normalize.Address(field(row, ColMailAddress)); mail != "" {
		p.MailAddress = &mail
	}
	if mailCity := normalize.City(field(row, ColMailCity)); mailCity != "" {
		p.MailCity = &mailCity
	}
	if state := strings.ToUpper(field(row, ColMailState)); state != "" {
		p.MailState = &state
	}
	if mailZip := field(row, ColMailZip); mailZip != "" {
		p.MailZip = &mailZip
	}

	p.YearBuilt = normalize.Int(field(row, ColYearBuilt))
	p.SquareFeet = normalize.Int(field(row, ColSquareFeet))
	p.Bedrooms = normalize.Int(field(row, ColBedrooms))
	p.Bathrooms = normalize.Float(field(row, ColBathrooms))
	p.EstimatedValue = normalize.Currency(field(row, ColEstValue))
	p.EstimatedEquity = normalize.Currency(field(row, ColEstEquity))
	p.PurchaseDate = normalize.Date(field(row, ColPurchaseDate))
	p.OwnerOccupied = normalize.Bool(field(row, ColOwnerOccupied))
	p.ListedForSale = normalize.Bool(field(row, ColListedForSale))
	p.Foreclosure = normalize.Bool(field(row, ColForeclosure))
	p.Latitude = normalize.Float(field(row, ColLatitude))
	p.Longitude = normalize.Float(field(row, ColLongitude))

	return p
}

// extractContact builds the contact payload for the given role, or nil
// when the row has no usable name-plus-phone pair for that role.
func (e *Extractor) extractContact(row map[string]string, role string) *ContactPayload {
	nameCol, phoneCol := ColPrimaryName, ColPrimaryPhone
	phoneStatusCol, emailCol := ColPrimaryPhoneStatus, ColPrimaryEmail
	emailStatusCol := ColPrimaryEmailStatus
	if role == RoleSecondary {
		nameCol, phoneCol = ColSecondaryName, ColSecondaryPhone
		phoneStatusCol, emailCol = ColSecondaryPhoneStatus, ColSecondaryEmail
		emailStatusCol = ColSecondaryEmailStatus
	}

	rawName := field(row, nameCol)
	if rawName == "" {
		return nil
	}
	phone, ok := normalize.Phone(field(row, phoneCol))
	if !ok {
		return nil
	}

	name := normalize.Name(rawName)
	first, last := normalize.ParseFullName(name)
	if first == "" {
		first = PlaceholderFirstName
	}
	if last == "" {
		last = PlaceholderLastName
	}

	contact := &ContactPayload{
		FirstName: first,
		LastName:  last,
		Phone:     phone,
		Role:      role,
		Metadata: map[string]interface{}{
			"source":       importSource,
			"import_type":  role,
			"content_hash": contentHash(name, phone),
		},
	}

	if email := field(row, emailCol); email != "" {
		contact.Email = &email
	}
	if status := field(row, phoneStatusCol); status != "" {
		contact.Metadata["phone_status"] = status
	}
	if status := field(row, emailStatusCol); status != "" {
		contact.Metadata["email_status"] = status
	}

	return contact
}

// field returns the trimmed value of a column, or "" when absent.
func field(row map[string]string, col string) string {
	return strings.TrimSpace(row[col])
}

// contentHash fingerprints the name and phone a contact was extracted
// from, for provenance auditing.
func contentHash(name, phone string) string {
	sum := sha256.Sum256([]byte(name + "|" + phone))
	return hex.EncodeToString(sum[:])
}
