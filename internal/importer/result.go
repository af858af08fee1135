package importer

import (
	"github.com/google/uuid"
)

// Machine-readable failure codes carried on a Result.
const (
	CodeMissingHeaders = "MISSING_HEADERS"
	CodeListCreation   = "LIST_CREATION_ERROR"
	CodeDatabase       = "DATABASE_ERROR"
	CodeValidation     = "VALIDATION_ERROR"
	CodeImport         = "IMPORT_ERROR"
	CodeRowImport      = "ROW_IMPORT_ERROR"
)

// Result is the outcome of one import run. A run with row-level errors is
// still a Success; Failure is reserved for runs that could not proceed at
// all (bad header, list creation failure, or an error before any batch
// committed).
type Result struct {
	Stats          *Stats    `json:"stats,omitempty"`
	ErrorCode      string    `json:"error_code,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	ListName       string    `json:"list_name,omitempty"`
	MissingHeaders []string  `json:"missing_headers,omitempty"`
	RunID          uuid.UUID `json:"run_id"`
	ListID         uint      `json:"list_id,omitempty"`
	Success        bool      `json:"success"`
}

// Failure builds a failed Result with the given code and message.
func Failure(runID uuid.UUID, code, message string) *Result {
	return &Result{
		RunID:        runID,
		ErrorCode:    code,
		ErrorMessage: message,
	}
}
