package models

import (
	"time"
)

// List membership states.
const (
	MembershipActive  = "active"
	MembershipRemoved = "removed"
)

// CampaignList is a named collection of contacts produced by an import.
type CampaignList struct {
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	Name        string    `gorm:"size:255;uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description,omitempty"`
	CreatedBy   string    `gorm:"size:100;column:created_by" json:"createdBy,omitempty"`
	ID          uint      `gorm:"primaryKey" json:"id"`
}

// TableName specifies the table name for the campaign_lists relation.
func (CampaignList) TableName() string {
	return "campaign_lists"
}

// ListMembership connects a Contact to a CampaignList with a status and
// provenance metadata.
//
// Invariant: a contact appears at most once per list; re-adding a
// previously removed member reactivates the existing row instead of
// inserting a duplicate.
type ListMembership struct {
	CreatedAt time.Time              `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time              `gorm:"column:updated_at" json:"updatedAt"`
	Metadata  map[string]interface{} `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	Status    string                 `gorm:"size:20;not null;column:status" json:"status"`
	ListID    uint                   `gorm:"index:idx_list_contact,unique;not null;column:list_id" json:"listId"`
	ContactID uint                   `gorm:"index:idx_list_contact,unique;not null;column:contact_id" json:"contactId"`
	ID        uint                   `gorm:"primaryKey" json:"id"`
}

// TableName specifies the table name for the list_memberships relation.
func (ListMembership) TableName() string {
	return "list_memberships"
}
