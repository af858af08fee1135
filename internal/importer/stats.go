package importer

import (
	"fmt"
)

// Stats aggregates the effects of an import run. Every count reflects what
// actually happened in storage (driven by resolver Op tags), never how many
// payloads the CSV yielded: a re-imported file shows zero creations.
type Stats struct {
	Errors              []string `json:"errors"`
	TotalRows           int      `json:"total_rows"`
	FailedRows          int      `json:"failed_rows"`
	PropertiesCreated   int      `json:"properties_created"`
	PropertiesUpdated   int      `json:"properties_updated"`
	ContactsCreated     int      `json:"contacts_created"`
	ContactsUpdated     int      `json:"contacts_updated"`
	ContactsAddedToList int      `json:"contacts_added_to_list"`
	ErrorsDropped       int      `json:"errors_dropped,omitempty"`
	ProcessingSeconds   float64  `json:"processing_time"`

	maxErrors int
}

// NewStats creates a Stats that retains at most maxErrors error strings;
// further errors are counted in ErrorsDropped. A non-positive maxErrors
// means unbounded.
func NewStats(maxErrors int) *Stats {
	return &Stats{maxErrors: maxErrors}
}

// RecordProperty counts one property resolution outcome.
func (s *Stats) RecordProperty(op Op) {
	switch op {
	case OpCreated:
		s.PropertiesCreated++
	case OpUpdated, OpExisting:
		s.PropertiesUpdated++
	}
}

// RecordContact counts one contact resolution outcome. Finding an existing
// contact always counts as an update, regardless of whether a field merge
// happened.
func (s *Stats) RecordContact(op Op) {
	switch op {
	case OpCreated:
		s.ContactsCreated++
	case OpUpdated, OpExisting:
		s.ContactsUpdated++
	}
}

// AddError records a row- or batch-level error string, honoring the
// retention cap.
func (s *Stats) AddError(format string, args ...interface{}) {
	if s.maxErrors > 0 && len(s.Errors) >= s.maxErrors {
		s.ErrorsDropped++
		return
	}
	s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
}

// Merge folds a committed batch's statistics into the run totals.
func (s *Stats) Merge(batch *Stats) {
	s.FailedRows += batch.FailedRows
	s.PropertiesCreated += batch.PropertiesCreated
	s.PropertiesUpdated += batch.PropertiesUpdated
	s.ContactsCreated += batch.ContactsCreated
	s.ContactsUpdated += batch.ContactsUpdated
	s.ContactsAddedToList += batch.ContactsAddedToList
	s.mergeErrors(batch)
}

// mergeErrors folds only the error strings from a batch into the run
// totals, used when a batch rolled back and its entity counts are void.
func (s *Stats) mergeErrors(batch *Stats) {
	for _, e := range batch.Errors {
		s.AddError("%s", e)
	}
	s.ErrorsDropped += batch.ErrorsDropped
}

// SuccessRows returns how many rows imported without error.
func (s *Stats) SuccessRows() int {
	return s.TotalRows - s.FailedRows
}
