package models

import (
	"time"
)

// Contact represents a person extracted from an import row.
//
// Dedup invariant: the canonical phone number uniquely identifies a contact
// across the entire system, independent of which property or import produced
// it. A contact seen in multiple rows or imports is reused, never recreated.
type Contact struct {
	CreatedAt time.Time              `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time              `gorm:"column:updated_at" json:"updatedAt"`
	Metadata  map[string]interface{} `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	Email     *string                `gorm:"size:255;column:email" json:"email,omitempty"`
	FirstName string                 `gorm:"size:100;not null;column:first_name" json:"firstName"`
	LastName  string                 `gorm:"size:100;not null;column:last_name" json:"lastName"`
	Phone     string                 `gorm:"size:20;uniqueIndex;not null;column:phone" json:"phone"`
	ID        uint                   `gorm:"primaryKey" json:"id"`
}

// TableName specifies the table name for the contacts relation.
func (Contact) TableName() string {
	return "contacts"
}
