package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schemastudio/backend/internal/application/services"
	appErrors "github.com/schemastudio/backend/pkg/errors"
)

// DocumentHandler serves the whole-document operations: read, replace,
// import, export and meta-validation.
type DocumentHandler struct {
	svc *services.ServiceManager
}

func NewDocumentHandler(svc *services.ServiceManager) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// ==================== Document Handlers ====================

// GetDocument handles GET /api/document
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, activeKey := h.svc.Document.State()
	c.JSON(http.StatusOK, gin.H{
		"document":  doc,
		"activeKey": activeKey,
	})
}

// ReplaceDocument handles PUT /api/document. The body is the raw document
// JSON, as produced by the live text editor surface.
func (h *DocumentHandler) ReplaceDocument(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		RespondAppError(c, appErrors.NewValidationError("body", err.Error()))
		return
	}
	if err := h.svc.Document.ReplaceRaw(data); err != nil {
		RespondAppError(c, err)
		return
	}
	doc, activeKey := h.svc.Document.State()
	c.JSON(http.StatusOK, gin.H{
		"message":   "Document replaced",
		"document":  doc,
		"activeKey": activeKey,
	})
}

// ImportDocument handles POST /api/document/import with the file's text as
// the request body.
func (h *DocumentHandler) ImportDocument(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		RespondAppError(c, appErrors.NewImportError(err))
		return
	}
	if err := h.svc.Document.ImportText(string(data)); err != nil {
		RespondAppError(c, err)
		return
	}
	doc, activeKey := h.svc.Document.State()
	c.JSON(http.StatusOK, gin.H{
		"message":   "Document imported",
		"document":  doc,
		"activeKey": activeKey,
	})
}

// ExportDocument handles GET /api/document/export, answering the rendered
// JSON as a file download.
func (h *DocumentHandler) ExportDocument(c *gin.Context) {
	filename, text, err := h.svc.Document.ExportText()
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", []byte(text))
}

// ValidateDocument handles POST /api/document/validate
func (h *DocumentHandler) ValidateDocument(c *gin.Context) {
	HandleGetEnvelope(c, "result", func() (interface{}, error) {
		result, err := h.svc.Document.Validate()
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}
