package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract_FullRow(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	row := map[string]string{
		ColType:           "SFR",
		ColAddress:        "123 MAIN STREET",
		ColCity:           "LOS ANGELES",
		ColZip:            "90001",
		ColAPN:            "123-456-789",
		ColYearBuilt:      "1985",
		ColSquareFeet:     "1,850",
		ColBedrooms:       "3",
		ColBathrooms:      "2.5",
		ColEstValue:       "$500,000",
		ColEstEquity:      "$250,000.50",
		ColOwnerOccupied:  "1",
		ColPrimaryName:    "JOHN SMITH JR",
		ColPrimaryPhone:   "5551234567",
		ColPrimaryEmail:   "john@example.com",
		ColSecondaryName:  "JANE SMITH",
		ColSecondaryPhone: "15559876543",
	}

	// Act
	extracted := extractor.Extract(row)

	// Assert
	prop := extracted.Property
	assert.Equal(t, "123 Main St", prop.Address)
	assert.Equal(t, "90001", prop.ZipCode)
	require.NotNil(t, prop.APN)
	assert.Equal(t, "123-456-789", *prop.APN)
	require.NotNil(t, prop.City)
	assert.Equal(t, "Los Angeles", *prop.City)
	require.NotNil(t, prop.YearBuilt)
	assert.Equal(t, 1985, *prop.YearBuilt)
	require.NotNil(t, prop.SquareFeet)
	assert.Equal(t, 1850, *prop.SquareFeet)
	require.NotNil(t, prop.Bathrooms)
	assert.Equal(t, 2.5, *prop.Bathrooms)
	require.NotNil(t, prop.EstimatedValue)
	assert.True(t, prop.EstimatedValue.Equal(decimal.RequireFromString("500000")))
	require.NotNil(t, prop.EstimatedEquity)
	assert.True(t, prop.EstimatedEquity.Equal(decimal.RequireFromString("250000.50")))
	require.NotNil(t, prop.OwnerOccupied)
	assert.True(t, *prop.OwnerOccupied)

	primary := extracted.PrimaryContact
	require.NotNil(t, primary)
	assert.Equal(t, "John", primary.FirstName)
	assert.Equal(t, "Smith Jr", primary.LastName)
	assert.Equal(t, "+15551234567", primary.Phone)
	assert.Equal(t, RolePrimary, primary.Role)
	require.NotNil(t, primary.Email)
	assert.Equal(t, "john@example.com", *primary.Email)
	assert.Equal(t, importSource, primary.Metadata["source"])
	assert.NotEmpty(t, primary.Metadata["content_hash"])

	secondary := extracted.SecondaryContact
	require.NotNil(t, secondary)
	assert.Equal(t, "Jane", secondary.FirstName)
	assert.Equal(t, "Smith", secondary.LastName)
	assert.Equal(t, "+15559876543", secondary.Phone)
	assert.Equal(t, RoleSecondary, secondary.Role)
}

func TestExtractor_Extract_PlaceholderName(t *testing.T) {
	extractor := NewExtractor()
	row := map[string]string{
		ColAddress:      "456 Oak Ave",
		ColZip:          "90002",
		ColPrimaryName:  "MADONNA",
		ColPrimaryPhone: "5552345678",
	}

	extracted := extractor.Extract(row)

	require.NotNil(t, extracted.PrimaryContact)
	assert.Equal(t, PlaceholderFirstName, extracted.PrimaryContact.FirstName)
	assert.Equal(t, "Madonna", extracted.PrimaryContact.LastName)
}

func TestExtractor_Extract_ContactRequiresPhone(t *testing.T) {
	extractor := NewExtractor()
	row := map[string]string{
		ColAddress:      "456 Oak Ave",
		ColZip:          "90002",
		ColPrimaryName:  "JOHN SMITH",
		ColPrimaryPhone: "12345", // too short to normalize
	}

	extracted := extractor.Extract(row)

	assert.Nil(t, extracted.PrimaryContact)
	assert.Nil(t, extracted.SecondaryContact)
}

func TestExtractor_Extract_ContactRequiresName(t *testing.T) {
	extractor := NewExtractor()
	row := map[string]string{
		ColAddress:      "456 Oak Ave",
		ColZip:          "90002",
		ColPrimaryPhone: "5552345678",
	}

	extracted := extractor.Extract(row)

	assert.Nil(t, extracted.PrimaryContact)
}

func TestExtractor_Extract_MalformedOptionalFieldsOmitted(t *testing.T) {
	extractor := NewExtractor()
	row := map[string]string{
		ColAddress:   "789 Pine Rd",
		ColZip:       "90003",
		ColYearBuilt: "unknown",
		ColEstValue:  "N/A",
	}

	extracted := extractor.Extract(row)

	assert.Nil(t, extracted.Property.YearBuilt)
	assert.Nil(t, extracted.Property.EstimatedValue)
}

func TestExtractor_Validate(t *testing.T) {
	extractor := NewExtractor()

	tests := []struct {
		name       string
		row        map[string]string
		wantFields []string
	}{
		{
			name: "clean row",
			row: map[string]string{
				ColZip:          "90001",
				ColEstValue:     "$500,000",
				ColPrimaryPhone: "5551234567",
			},
			wantFields: nil,
		},
		{
			name:       "bad zip",
			row:        map[string]string{ColZip: "9000"},
			wantFields: []string{ColZip},
		},
		{
			name:       "zip plus four accepted",
			row:        map[string]string{ColZip: "90001-1234"},
			wantFields: nil,
		},
		{
			name:       "non numeric currency",
			row:        map[string]string{ColEstValue: "lots"},
			wantFields: []string{ColEstValue},
		},
		{
			name:       "unnormalizable phone",
			row:        map[string]string{ColPrimaryPhone: "123"},
			wantFields: []string{ColPrimaryPhone},
		},
		{
			name:       "blank fields are not validated",
			row:        map[string]string{ColZip: "", ColEstValue: ""},
			wantFields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := extractor.Validate(tt.row)

			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestExtractor_ContentHashStableAcrossRows(t *testing.T) {
	extractor := NewExtractor()
	row := map[string]string{
		ColAddress:      "123 Main St",
		ColZip:          "90001",
		ColPrimaryName:  "JOHN SMITH",
		ColPrimaryPhone: "5551234567",
	}

	first := extractor.Extract(row)
	second := extractor.Extract(row)

	require.NotNil(t, first.PrimaryContact)
	require.NotNil(t, second.PrimaryContact)
	assert.Equal(t, first.PrimaryContact.Metadata["content_hash"], second.PrimaryContact.Metadata["content_hash"])
}
