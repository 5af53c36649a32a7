package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", NewValidationError("key", "entity key is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"duplicate", NewDuplicateKeyError("entity", "users"), http.StatusConflict, "DUPLICATE_KEY"},
		{"not found", NewNotFoundError("entity", "ghosts"), http.StatusNotFound, "NOT_FOUND"},
		{"invalid document", NewInvalidDocumentError(errors.New("no definitions")), http.StatusBadRequest, "INVALID_DOCUMENT"},
		{"import", NewImportError(errors.New("bad json")), http.StatusBadRequest, "IMPORT_ERROR"},
		{"meta-schema", NewMetaSchemaError([]string{"definitions.users.type: invalid"}), http.StatusUnprocessableEntity, "META_SCHEMA_INVALID"},
		{"service", NewServiceError("suggestion", errors.New("status 502")), http.StatusBadGateway, "SERVICE_UNAVAILABLE"},
		{"internal", NewInternalError("export document", errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.err))
			assert.Equal(t, tt.code, GetErrorCode(tt.err))
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("f", "m")))
	assert.False(t, IsValidation(NewNotFoundError("entity", "x")))

	// As-based helpers see through wrapping
	wrapped := fmt.Errorf("handler: %w", NewDuplicateKeyError("entity", "users"))
	assert.True(t, IsDuplicateKey(wrapped))

	assert.True(t, IsImport(NewImportError(errors.New("x"))))
	assert.True(t, IsInvalidDocument(NewInvalidDocumentError(errors.New("x"))))
	assert.True(t, IsNotFound(NewNotFoundError("entity", "x")))
	assert.True(t, IsService(NewServiceError("suggestion", errors.New("x"))))
}

func TestUnknownErrorDefaults(t *testing.T) {
	err := errors.New("plain")
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(err))
	assert.Equal(t, "UNKNOWN_ERROR", GetErrorCode(err))
}

func TestToResponse(t *testing.T) {
	resp := ToResponse(NewDuplicateKeyError("entity", "users"))
	assert.Equal(t, "DUPLICATE_KEY", resp.Code)
	assert.Contains(t, resp.Message, "users")
}

func TestMetaSchemaError_CarriesFindings(t *testing.T) {
	err := NewMetaSchemaError([]string{"a: wrong", "b: missing"})
	assert.Len(t, err.Findings, 2)
	assert.Contains(t, err.Error(), "2 findings")
}
