package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemastudio/backend/internal/bootstrap"
	apperrors "github.com/schemastudio/backend/pkg/errors"
)

func newTestService(t *testing.T) *DocumentService {
	t.Helper()
	return NewDocumentService(bootstrap.DefaultDocument())
}

func exportText(t *testing.T, svc *DocumentService) string {
	t.Helper()
	_, text, err := svc.ExportText()
	require.NoError(t, err)
	return text
}

func TestDocumentService_StartsOnFirstEntity(t *testing.T) {
	svc := newTestService(t)
	assert.Equal(t, "roles", svc.ActiveKey())
}

func TestDocumentService_SelectEntity(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.SelectEntity("sessions"))
	assert.Equal(t, "sessions", svc.ActiveKey())

	err := svc.SelectEntity("missing")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "sessions", svc.ActiveKey(), "failed select leaves the cursor alone")
}

func TestDocumentService_ImportFailureLeavesDocument(t *testing.T) {
	svc := newTestService(t)
	before := exportText(t, svc)

	err := svc.ImportText("{not json")
	assert.True(t, apperrors.IsImport(err))

	assert.Equal(t, before, exportText(t, svc))
	assert.Equal(t, "roles", svc.ActiveKey())
}

func TestDocumentService_ExportImportPreservesEntityOrder(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.ImportText(exportText(t, svc)))

	doc := svc.Snapshot()
	assert.Equal(t, []string{"roles", "users", "user_roles", "sessions"}, doc.Definitions.Keys())
	assert.Equal(t, "roles", svc.ActiveKey(), "import resets the cursor to the first entity")
}

func TestDocumentService_ExportFilenameFromTitle(t *testing.T) {
	svc := newTestService(t)
	filename, _, err := svc.ExportText()
	require.NoError(t, err)
	assert.Equal(t, "app-schema.json", filename)
}

func TestDocumentService_ReplaceRaw(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.ReplaceRaw([]byte(`{"title":"Mini","definitions":{"things":{"type":"object","properties":{}}}}`)))
	doc := svc.Snapshot()
	assert.Equal(t, "Mini", doc.Title)
	assert.Equal(t, []string{"things"}, doc.Definitions.Keys())
	assert.Equal(t, "things", svc.ActiveKey())

	err := svc.ReplaceRaw([]byte(`{"title":"no definitions"}`))
	assert.True(t, apperrors.IsInvalidDocument(err))
	assert.Equal(t, "Mini", svc.Snapshot().Title)
}

func TestDocumentService_Validate(t *testing.T) {
	svc := newTestService(t)
	res, err := svc.Validate()
	require.NoError(t, err)
	assert.True(t, res.Valid)
}
