package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemastudio/backend/internal/application/services"
	"github.com/schemastudio/backend/internal/interfaces/rest"
)

func newTestRouter(t *testing.T) (*gin.Engine, *services.ServiceManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svcMgr, err := services.NewServiceManager(services.Config{WorkspaceDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svcMgr.Close() })

	documentHandler := rest.NewDocumentHandler(svcMgr)
	schemaHandler := rest.NewSchemaHandler(svcMgr)
	suggestHandler := rest.NewSuggestHandler(svcMgr)
	workspaceHandler := rest.NewWorkspaceHandler(svcMgr)

	router := gin.New()
	api := router.Group("/api")
	api.GET("/document", documentHandler.GetDocument)
	api.PUT("/document", documentHandler.ReplaceDocument)
	api.POST("/document/import", documentHandler.ImportDocument)
	api.GET("/document/export", documentHandler.ExportDocument)
	api.POST("/document/validate", documentHandler.ValidateDocument)
	api.POST("/entities", schemaHandler.CreateEntity)
	api.DELETE("/entities/:key", schemaHandler.DeleteEntity)
	api.POST("/entities/:key/select", schemaHandler.SelectEntity)
	api.PUT("/entities/:key/properties", schemaHandler.UpsertProperty)
	api.DELETE("/entities/:key/properties/:name", schemaHandler.DeleteProperty)
	api.POST("/entities/:key/required/:name", schemaHandler.AddRequired)
	api.DELETE("/entities/:key/required/:name", schemaHandler.RemoveRequired)
	api.POST("/entities/:key/primary-key/:name", schemaHandler.AddPrimaryKey)
	api.DELETE("/entities/:key/primary-key/:name", schemaHandler.RemovePrimaryKey)
	api.POST("/ai/suggest", suggestHandler.Suggest)
	api.GET("/workspace", workspaceHandler.ListFiles)
	api.POST("/workspace/:name", workspaceHandler.SaveCurrent)
	api.GET("/workspace/:name", workspaceHandler.GetFile)
	api.POST("/workspace/:name/load", workspaceHandler.LoadFile)
	api.DELETE("/workspace/:name", workspaceHandler.DeleteFile)

	return router, svcMgr
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetDocument(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/document", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Document  json.RawMessage `json:"document"`
		ActiveKey string          `json:"activeKey"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "roles", resp.ActiveKey)
	assert.Contains(t, string(resp.Document), `"definitions"`)
}

func TestCreateEntity(t *testing.T) {
	router, svcMgr := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/entities", gin.H{
		"key":   "products",
		"title": "Product",
		"type":  "object",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"entity"`)

	assert.True(t, svcMgr.Document.Snapshot().Definitions.Has("products"))
	assert.Equal(t, "products", svcMgr.Document.ActiveKey())
}

func TestCreateEntity_Duplicate(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/entities", gin.H{"key": "users", "title": "User"})
	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DUPLICATE_KEY", resp.Code)
}

func TestDeleteEntity(t *testing.T) {
	router, svcMgr := newTestRouter(t)

	w := doJSON(t, router, http.MethodDelete, "/api/entities/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svcMgr.Document.Snapshot().Definitions.Has("sessions"))
}

func TestSelectEntity_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/entities/nope/select", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpsertProperty(t *testing.T) {
	router, svcMgr := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/entities/users/properties", gin.H{
		"name": "nickname",
		"definition": gin.H{
			"type":      "string",
			"maxLength": 40,
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	users, _ := svcMgr.Document.Snapshot().Definitions.Get("users")
	def, ok := users.Properties.Get("nickname")
	require.True(t, ok)
	require.NotNil(t, def.String)
	require.NotNil(t, def.String.MaxLength)
	assert.Equal(t, 40, *def.String.MaxLength)
}

func TestUpsertProperty_Rename(t *testing.T) {
	router, svcMgr := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/entities/users/properties", gin.H{
		"name":       "mail",
		"prior_name": "email",
		"definition": gin.H{"type": "string", "format": "email"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	users, _ := svcMgr.Document.Snapshot().Definitions.Get("users")
	assert.False(t, users.Properties.Has("email"))
	assert.True(t, users.Properties.Has("mail"))
	assert.Contains(t, users.Required, "mail")
}

func TestDeleteProperty(t *testing.T) {
	router, svcMgr := newTestRouter(t)

	w := doJSON(t, router, http.MethodDelete, "/api/entities/users/properties/email", nil)
	require.Equal(t, http.StatusOK, w.Code)

	users, _ := svcMgr.Document.Snapshot().Definitions.Get("users")
	assert.False(t, users.Properties.Has("email"))
	assert.NotContains(t, users.Required, "email")
}

func TestRequiredEndpoints(t *testing.T) {
	router, svcMgr := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/entities/users/required/name", nil)
	require.Equal(t, http.StatusOK, w.Code)
	users, _ := svcMgr.Document.Snapshot().Definitions.Get("users")
	assert.Contains(t, users.Required, "name")

	w = doJSON(t, router, http.MethodDelete, "/api/entities/users/required/name", nil)
	require.Equal(t, http.StatusOK, w.Code)
	users, _ = svcMgr.Document.Snapshot().Definitions.Get("users")
	assert.NotContains(t, users.Required, "name")

	w = doJSON(t, router, http.MethodPost, "/api/entities/users/required/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidateEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/document/validate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Result struct {
			Valid    bool              `json:"valid"`
			Findings []json.RawMessage `json:"findings"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Result.Valid)
}

func TestExportEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/document/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "app-schema.json")
	assert.True(t, strings.HasSuffix(w.Body.String(), "\n"))
}

func TestImportEndpoint_RoundTrip(t *testing.T) {
	router, svcMgr := newTestRouter(t)

	exported := doJSON(t, router, http.MethodGet, "/api/document/export", nil)
	require.Equal(t, http.StatusOK, exported.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/document/import", bytes.NewReader(exported.Body.Bytes()))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	doc := svcMgr.Document.Snapshot()
	assert.Equal(t, []string{"roles", "users", "user_roles", "sessions"}, doc.Definitions.Keys())
}

func TestImportEndpoint_Malformed(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/document/import", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "IMPORT_ERROR")
}

func TestSuggestEndpoint_Fallback(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/ai/suggest", gin.H{
		"instruction": "An order entity. Fields: total, placed_at",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Mode          string          `json:"mode"`
		DefinitionKey string          `json:"definition_key"`
		Definition    json.RawMessage `json:"definition"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "create_entity", resp.Mode)
	assert.Equal(t, "orders", resp.DefinitionKey)
	assert.Contains(t, string(resp.Definition), `"primaryKey":["id"]`)
}

func TestSuggestEndpoint_MissingInstruction(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/ai/suggest", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkspaceEndpoints(t *testing.T) {
	router, svcMgr := newTestRouter(t)

	// Save the current document
	w := doJSON(t, router, http.MethodPost, "/api/workspace/draft", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// It shows up in the listing
	w = doJSON(t, router, http.MethodGet, "/api/workspace", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "draft.json")

	// Mutate the live document, then load the saved copy back
	_, err := svcMgr.Document.AddEntity("scratch", "Scratch", "object")
	require.NoError(t, err)

	w = doJSON(t, router, http.MethodPost, "/api/workspace/draft/load", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svcMgr.Document.Snapshot().Definitions.Has("scratch"))

	// Delete it
	w = doJSON(t, router, http.MethodDelete, "/api/workspace/draft", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/workspace/draft", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
