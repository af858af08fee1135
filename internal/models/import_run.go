package models

import (
	"time"

	"github.com/google/uuid"
)

// Import run lifecycle states.
const (
	ImportRunRunning   = "running"
	ImportRunCompleted = "completed"
	ImportRunFailed    = "failed"
)

// ImportRun tracks one execution of the import pipeline against one file.
// It is created at run start and updated once at completion (or fatal
// failure) with final counts, so the outcome is auditable even when the
// run executed in the background and nobody read the immediate result.
type ImportRun struct {
	StartedAt    time.Time              `gorm:"column:started_at" json:"startedAt"`
	CompletedAt  *time.Time             `gorm:"column:completed_at" json:"completedAt,omitempty"`
	Metadata     map[string]interface{} `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	Filename     string                 `gorm:"size:255;not null;column:filename" json:"filename"`
	ImportedBy   string                 `gorm:"size:100;not null;column:imported_by" json:"importedBy"`
	Status       string                 `gorm:"size:20;not null;column:status" json:"status"`
	TotalRows    int                    `gorm:"column:total_rows" json:"totalRows"`
	SuccessCount int                    `gorm:"column:success_count" json:"successCount"`
	FailureCount int                    `gorm:"column:failure_count" json:"failureCount"`
	ID           uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
}

// TableName specifies the table name for the import_runs relation.
func (ImportRun) TableName() string {
	return "import_runs"
}
