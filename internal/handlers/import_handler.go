package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apierrors "github.com/stonefield/radarpipe/internal/errors"
	"github.com/stonefield/radarpipe/internal/importer"
	"github.com/stonefield/radarpipe/internal/middleware"
	"github.com/stonefield/radarpipe/internal/services"
)

// maxUploadBytes caps the accepted CSV upload size at 50 MB.
const maxUploadBytes = 50 << 20

// ImportHandler handles CSV import HTTP requests.
type ImportHandler struct {
	service services.ImportService
}

// NewImportHandler creates a new ImportHandler instance.
func NewImportHandler(service services.ImportService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportForm represents the multipart form fields accompanying the CSV
// upload. The file itself arrives under the "file" form key.
type ImportForm struct {
	ListName          string `form:"list_name" binding:"omitempty,max=255"`
	ImportedBy        string `form:"imported_by" binding:"omitempty,max=100"`
	DuplicateStrategy string `form:"duplicate_strategy" binding:"omitempty,oneof=merge skip"`
	BatchSize         int    `form:"batch_size" binding:"omitempty,min=1,max=1000"`
}

// Create handles POST /api/v1/imports.
// It accepts a multipart CSV upload, runs the import synchronously, and
// returns the run result. Row-level failures do not fail the request;
// their counts and messages come back in the stats.
func (h *ImportHandler) Create(c *gin.Context) {
	log := middleware.GetLogger(c)

	var form ImportForm
	if err := c.ShouldBind(&form); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid form parameters", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A CSV file is required under the 'file' form field", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		apierrors.BadRequest(c, "CSV file exceeds the 50MB upload limit", map[string]interface{}{
			"size_bytes": fileHeader.Size,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read uploaded file", err)
		return
	}
	defer file.Close()

	if log != nil {
		log.Info("Processing import upload", map[string]interface{}{
			"filename":   fileHeader.Filename,
			"size_bytes": fileHeader.Size,
			"list_name":  form.ListName,
		})
	}

	result, err := h.service.Import(c.Request.Context(), services.ImportRequest{
		Reader:            file,
		Filename:          fileHeader.Filename,
		ImportedBy:        form.ImportedBy,
		ListName:          form.ListName,
		DuplicateStrategy: form.DuplicateStrategy,
		BatchSize:         form.BatchSize,
	})
	if err != nil {
		apierrors.InternalServerError(c, "Failed to run import", err)
		return
	}
	if !result.Success {
		apierrors.ImportFailure(c, result)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Get handles GET /api/v1/imports/:id.
// It returns the persisted run record, including final counts and the
// captured row errors, for a completed or failed run.
func (h *ImportHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Import run ID must be a valid UUID", nil)
		return
	}

	run, err := h.service.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRunNotFound) {
			apierrors.NotFound(c, "Import run not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to query import run", err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// VerifyResponse wraps the consistency report for the verify endpoint.
type VerifyResponse struct {
	Report *importer.ConsistencyReport `json:"report"`
}

// Verify handles POST /api/v1/imports/verify.
// It re-parses an uploaded CSV and reports whether storage covers every
// distinct property and contact the file describes. Nothing is written.
func (h *ImportHandler) Verify(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A CSV file is required under the 'file' form field", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read uploaded file", err)
		return
	}
	defer file.Close()

	report, err := h.service.Verify(c.Request.Context(), file)
	if err != nil {
		apierrors.BadRequest(c, "Failed to verify CSV: "+err.Error(), nil)
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{Report: report})
}
