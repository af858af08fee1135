package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stonefield/radarpipe/internal/config"
	"github.com/stonefield/radarpipe/internal/importer"
	"github.com/stonefield/radarpipe/internal/logger"
	"github.com/stonefield/radarpipe/internal/models"
	"github.com/stonefield/radarpipe/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCSV = `Type,Address,City,ZIP,APN,Primary Name,Primary Mobile Phone1,Secondary Name,Secondary Mobile Phone1
SFR,123 MAIN STREET,LOS ANGELES,90001,111-222-333,JOHN SMITH,5551234567,JANE SMITH,5559876543
SFR,456 OAK AVENUE,LOS ANGELES,90001,444-555-666,BOB JONES,5552223333,,
`

func newTestService(store repository.Store) ImportService {
	cfg := config.ImportConfig{
		BatchSize:        100,
		ProgressInterval: 25,
		MaxErrors:        500,
	}
	return NewImportService(store, cfg, logger.New("test"))
}

func TestImportService_Import_Success(t *testing.T) {
	// Arrange
	store := repository.NewMemoryStore()
	service := newTestService(store)

	// Act
	result, err := service.Import(context.Background(), ImportRequest{
		Reader:     strings.NewReader(validCSV),
		Filename:   "leads.csv",
		ImportedBy: "ops@example.com",
		ListName:   "August Leads",
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Equal(t, "August Leads", result.ListName)
	assert.NotZero(t, result.ListID)

	require.NotNil(t, result.Stats)
	assert.Equal(t, 2, result.Stats.TotalRows)
	assert.Equal(t, 0, result.Stats.FailedRows)
	assert.Equal(t, 2, result.Stats.PropertiesCreated)
	assert.Equal(t, 3, result.Stats.ContactsCreated)
	assert.Equal(t, 3, result.Stats.ContactsAddedToList)
	assert.Greater(t, result.Stats.ProcessingSeconds, 0.0)

	// The run record is finalized with matching counts.
	run, err := service.GetRun(context.Background(), result.RunID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportRunCompleted, run.Status)
	assert.Equal(t, "leads.csv", run.Filename)
	assert.Equal(t, "ops@example.com", run.ImportedBy)
	assert.Equal(t, 2, run.TotalRows)
	assert.Equal(t, 2, run.SuccessCount)
	assert.Equal(t, 0, run.FailureCount)
	require.NotNil(t, run.CompletedAt)
}

func TestImportService_Import_MissingHeaders(t *testing.T) {
	store := repository.NewMemoryStore()
	service := newTestService(store)

	result, err := service.Import(context.Background(), ImportRequest{
		Reader:   strings.NewReader("Address,City\n123 Main St,Springfield\n"),
		Filename: "broken.csv",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, importer.CodeMissingHeaders, result.ErrorCode)
	assert.Contains(t, result.MissingHeaders, importer.ColZip)
	assert.Contains(t, result.MissingHeaders, importer.ColPrimaryName)

	// Nothing was imported, but the failed run is still on record.
	assert.Equal(t, 0, store.PropertyCount())
	run, err := service.GetRun(context.Background(), result.RunID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportRunFailed, run.Status)
}

func TestImportService_Import_UnparseableCSV(t *testing.T) {
	store := repository.NewMemoryStore()
	service := newTestService(store)

	result, err := service.Import(context.Background(), ImportRequest{
		Reader:   strings.NewReader(""),
		Filename: "empty.csv",
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, importer.CodeValidation, result.ErrorCode)
}

func TestImportService_Import_ReusesExistingList(t *testing.T) {
	store := repository.NewMemoryStore()
	service := newTestService(store)

	existing := &models.CampaignList{Name: "August Leads", CreatedBy: "someone-else"}
	require.NoError(t, store.Lists().Create(context.Background(), existing))

	result, err := service.Import(context.Background(), ImportRequest{
		Reader:   strings.NewReader(validCSV),
		Filename: "leads.csv",
		ListName: "August Leads",
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, existing.ID, result.ListID)
}

func TestImportService_Import_SecondRunIsIdempotent(t *testing.T) {
	store := repository.NewMemoryStore()
	service := newTestService(store)

	_, err := service.Import(context.Background(), ImportRequest{
		Reader:   strings.NewReader(validCSV),
		Filename: "leads.csv",
	})
	require.NoError(t, err)

	result, err := service.Import(context.Background(), ImportRequest{
		Reader:   strings.NewReader(validCSV),
		Filename: "leads.csv",
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Stats.PropertiesCreated)
	assert.Equal(t, 0, result.Stats.ContactsCreated)
	assert.Equal(t, 2, store.PropertyCount())
	assert.Equal(t, 3, store.ContactCount())
}

func TestImportService_Import_RecordsRowFailures(t *testing.T) {
	store := repository.NewMemoryStore()
	service := newTestService(store)

	csvText := `Type,Address,City,ZIP,Primary Name,Primary Mobile Phone1
SFR,123 Main St,Springfield,90001,JOHN SMITH,5551234567
SFR,456 Oak Ave,Springfield,BAD,JANE DOE,5559876543
`
	result, err := service.Import(context.Background(), ImportRequest{
		Reader:   strings.NewReader(csvText),
		Filename: "partial.csv",
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.FailedRows)

	run, err := service.GetRun(context.Background(), result.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.SuccessCount)
	assert.Equal(t, 1, run.FailureCount)
	errs, ok := run.Metadata["errors"].([]string)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "row 3")
}

func TestImportService_GetRun_NotFound(t *testing.T) {
	service := newTestService(repository.NewMemoryStore())

	run, err := service.GetRun(context.Background(), uuid.New())

	assert.Nil(t, run)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestImportService_Verify(t *testing.T) {
	store := repository.NewMemoryStore()
	service := newTestService(store)

	_, err := service.Import(context.Background(), ImportRequest{
		Reader:   strings.NewReader(validCSV),
		Filename: "leads.csv",
	})
	require.NoError(t, err)

	report, err := service.Verify(context.Background(), strings.NewReader(validCSV))

	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Zero(t, report.OrphanedAssociations)
	assert.GreaterOrEqual(t, report.ActualProperties, report.ExpectedProperties)
	assert.GreaterOrEqual(t, report.ActualContacts, report.ExpectedContacts)
}
