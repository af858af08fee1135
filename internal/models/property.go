package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property represents a real-property record reconciled from PropertyRadar
// CSV exports. All nullable fields use pointers to distinguish between zero
// values and NULL, so merge-updates never overwrite existing data with blanks.
//
// Dedup invariant: when APN is present it is the primary key for matching;
// otherwise (address, zip code) identifies the same property
// case-insensitively.
type Property struct {
	CreatedAt       time.Time        `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time        `gorm:"column:updated_at" json:"updatedAt"`
	PurchaseDate    *time.Time       `gorm:"column:purchase_date" json:"purchaseDate,omitempty"`
	APN             *string          `gorm:"size:50;uniqueIndex;column:apn" json:"apn,omitempty"`
	City            *string          `gorm:"size:100;column:city" json:"city,omitempty"`
	PropertyType    *string          `gorm:"size:50;column:property_type" json:"propertyType,omitempty"`
	MailAddress     *string          `gorm:"size:500;column:mail_address" json:"mailAddress,omitempty"`
	MailCity        *string          `gorm:"size:100;column:mail_city" json:"mailCity,omitempty"`
	MailState       *string          `gorm:"size:2;column:mail_state" json:"mailState,omitempty"`
	MailZip         *string          `gorm:"size:10;column:mail_zip" json:"mailZip,omitempty"`
	YearBuilt       *int             `gorm:"column:year_built" json:"yearBuilt,omitempty"`
	SquareFeet      *int             `gorm:"column:square_feet" json:"squareFeet,omitempty"`
	Bedrooms        *int             `gorm:"column:bedrooms" json:"bedrooms,omitempty"`
	Bathrooms       *float64         `gorm:"column:bathrooms" json:"bathrooms,omitempty"`
	EstimatedValue  *decimal.Decimal `gorm:"type:numeric(14,2);column:estimated_value" json:"estimatedValue,omitempty"`
	EstimatedEquity *decimal.Decimal `gorm:"type:numeric(14,2);column:estimated_equity" json:"estimatedEquity,omitempty"`
	OwnerOccupied   *bool            `gorm:"column:owner_occupied" json:"ownerOccupied,omitempty"`
	ListedForSale   *bool            `gorm:"column:listed_for_sale" json:"listedForSale,omitempty"`
	Foreclosure     *bool            `gorm:"column:foreclosure" json:"foreclosure,omitempty"`
	Latitude        *float64         `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude       *float64         `gorm:"column:longitude" json:"longitude,omitempty"`
	Address         string           `gorm:"size:500;index;not null;column:address" json:"address"`
	ZipCode         string           `gorm:"size:10;index;not null;column:zip_code" json:"zipCode"`
	ID              uint             `gorm:"primaryKey" json:"id"`
}

// TableName specifies the table name for the properties relation.
func (Property) TableName() string {
	return "properties"
}
