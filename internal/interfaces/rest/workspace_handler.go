package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/schemastudio/backend/internal/application/services"
)

// WorkspaceHandler serves the saved-documents directory.
type WorkspaceHandler struct {
	svc *services.ServiceManager
}

func NewWorkspaceHandler(svc *services.ServiceManager) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc}
}

// ==================== Workspace Handlers ====================

// ListFiles handles GET /api/workspace
func (h *WorkspaceHandler) ListFiles(c *gin.Context) {
	HandleGetEnvelope(c, "files", func() (interface{}, error) {
		return h.svc.Workspace.List(), nil
	})
}

// SaveCurrent handles POST /api/workspace/:name, snapshotting the current
// document into the workspace under the given name.
func (h *WorkspaceHandler) SaveCurrent(c *gin.Context) {
	name := c.Param("name")
	HandleGetEnvelope(c, "file", func() (interface{}, error) {
		_, text, err := h.svc.Document.ExportText()
		if err != nil {
			return nil, err
		}
		entry, err := h.svc.Workspace.Save(name, text)
		if err != nil {
			return nil, err
		}
		return entry, nil
	})
}

// GetFile handles GET /api/workspace/:name, returning the stored text.
func (h *WorkspaceHandler) GetFile(c *gin.Context) {
	name := c.Param("name")
	HandleGetEnvelope(c, "text", func() (interface{}, error) {
		return h.svc.Workspace.Load(name)
	})
}

// LoadFile handles POST /api/workspace/:name/load, replacing the current
// document with the stored one.
func (h *WorkspaceHandler) LoadFile(c *gin.Context) {
	name := c.Param("name")
	HandleGetEnvelope(c, "activeKey", func() (interface{}, error) {
		text, err := h.svc.Workspace.Load(name)
		if err != nil {
			return nil, err
		}
		if err := h.svc.Document.ImportText(text); err != nil {
			return nil, err
		}
		return h.svc.Document.ActiveKey(), nil
	})
}

// DeleteFile handles DELETE /api/workspace/:name
func (h *WorkspaceHandler) DeleteFile(c *gin.Context) {
	name := c.Param("name")
	HandleDeleteEnvelope(c, "File deleted", func() error {
		return h.svc.Workspace.Delete(name)
	})
}
