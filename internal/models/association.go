package models

import (
	"strings"
	"time"
)

// Recognized relationship types carried on a property-contact association.
// RelationshipType is an open string; these are the values produced by the
// import pipeline itself.
const (
	RelationshipPrimary   = "PRIMARY"
	RelationshipSecondary = "SECONDARY"
)

// PropertyContact links one Property to one Contact with a typed
// relationship.
//
// Invariants: a (property, contact) pair has at most one association row,
// and at most one association per property carries IsPrimary.
type PropertyContact struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
	// RelationshipType preserves the fine-grained role from the import
	// (PRIMARY, SECONDARY, or general types such as owner/tenant/agent).
	RelationshipType string `gorm:"size:30;not null;column:relationship_type" json:"relationshipType"`
	// Category is the coarse storage-layer bucket retained for the legacy
	// schema: both PRIMARY and SECONDARY collapse to "owner" here. This is
	// an intentional lossy mapping; RelationshipType keeps the detail.
	Category   string `gorm:"size:30;not null;column:category" json:"category"`
	PropertyID uint   `gorm:"index:idx_property_contact,unique;not null;column:property_id" json:"propertyId"`
	ContactID  uint   `gorm:"index:idx_property_contact,unique;not null;column:contact_id" json:"contactId"`
	ID         uint   `gorm:"primaryKey" json:"id"`
	IsPrimary  bool   `gorm:"column:is_primary" json:"isPrimary"`
}

// TableName specifies the table name for the property_contacts relation.
func (PropertyContact) TableName() string {
	return "property_contacts"
}

// StorageCategory maps a fine-grained relationship type to the coarse
// category column. PRIMARY and SECONDARY both collapse to "owner" for
// compatibility with the legacy schema; anything else is stored lowercased.
func StorageCategory(relationshipType string) string {
	switch relationshipType {
	case RelationshipPrimary, RelationshipSecondary:
		return "owner"
	default:
		return strings.ToLower(relationshipType)
	}
}
