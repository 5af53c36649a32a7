package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/schemastudio/backend/internal/application/services"
	"github.com/schemastudio/backend/internal/domain/schema"
)

// SchemaHandler serves entity and property level edits.
type SchemaHandler struct {
	svc *services.ServiceManager
}

func NewSchemaHandler(svc *services.ServiceManager) *SchemaHandler {
	return &SchemaHandler{svc: svc}
}

// ==================== Entity Handlers ====================

// CreateEntity handles POST /api/entities
func (h *SchemaHandler) CreateEntity(c *gin.Context) {
	var req struct {
		Key   string `json:"key"`
		Title string `json:"title"`
		Type  string `json:"type"`
	}
	HandleCreateEnvelope(c, "entity", "Entity created successfully", &req, func() (interface{}, error) {
		return h.svc.Document.AddEntity(req.Key, req.Title, req.Type)
	})
}

// DeleteEntity handles DELETE /api/entities/:key
func (h *SchemaHandler) DeleteEntity(c *gin.Context) {
	key := c.Param("key")
	HandleDeleteEnvelope(c, "Entity removed", func() error {
		h.svc.Document.RemoveEntity(key)
		return nil
	})
}

// SelectEntity handles POST /api/entities/:key/select, moving the editing
// cursor.
func (h *SchemaHandler) SelectEntity(c *gin.Context) {
	key := c.Param("key")
	HandleGetEnvelope(c, "activeKey", func() (interface{}, error) {
		if err := h.svc.Document.SelectEntity(key); err != nil {
			return nil, err
		}
		return h.svc.Document.ActiveKey(), nil
	})
}

// ==================== Property Handlers ====================

// UpsertProperty handles PUT /api/entities/:key/properties. prior_name
// carries the name the edit started from, enabling renames.
func (h *SchemaHandler) UpsertProperty(c *gin.Context) {
	entityKey := c.Param("key")
	var req struct {
		Name       string                  `json:"name"`
		PriorName  string                  `json:"prior_name"`
		Definition *schema.FieldDefinition `json:"definition"`
	}
	HandleUpdateEnvelope(c, "", "Property saved", &req, func() (interface{}, error) {
		return nil, h.svc.Document.UpsertProperty(entityKey, req.PriorName, req.Name, req.Definition)
	})
}

// DeleteProperty handles DELETE /api/entities/:key/properties/:name
func (h *SchemaHandler) DeleteProperty(c *gin.Context) {
	entityKey := c.Param("key")
	name := c.Param("name")
	HandleDeleteEnvelope(c, "Property removed", func() error {
		return h.svc.Document.DeleteProperty(entityKey, name)
	})
}

// AddRequired handles POST /api/entities/:key/required/:name
func (h *SchemaHandler) AddRequired(c *gin.Context) {
	HandleGetEnvelope(c, "message", func() (interface{}, error) {
		if err := h.svc.Document.AddToRequired(c.Param("key"), c.Param("name")); err != nil {
			return nil, err
		}
		return "Property marked required", nil
	})
}

// RemoveRequired handles DELETE /api/entities/:key/required/:name
func (h *SchemaHandler) RemoveRequired(c *gin.Context) {
	HandleDeleteEnvelope(c, "Required mark cleared", func() error {
		return h.svc.Document.RemoveFromRequired(c.Param("key"), c.Param("name"))
	})
}

// AddPrimaryKey handles POST /api/entities/:key/primary-key/:name
func (h *SchemaHandler) AddPrimaryKey(c *gin.Context) {
	HandleGetEnvelope(c, "message", func() (interface{}, error) {
		if err := h.svc.Document.AddToPrimaryKey(c.Param("key"), c.Param("name")); err != nil {
			return nil, err
		}
		return "Property added to primary key", nil
	})
}

// RemovePrimaryKey handles DELETE /api/entities/:key/primary-key/:name
func (h *SchemaHandler) RemovePrimaryKey(c *gin.Context) {
	HandleDeleteEnvelope(c, "Property removed from primary key", func() error {
		return h.svc.Document.RemoveFromPrimaryKey(c.Param("key"), c.Param("name"))
	})
}
