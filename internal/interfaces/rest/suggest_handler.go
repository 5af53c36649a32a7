package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schemastudio/backend/internal/application/services"
)

// SuggestHandler serves AI-assisted schema drafting.
type SuggestHandler struct {
	svc *services.ServiceManager
}

func NewSuggestHandler(svc *services.ServiceManager) *SuggestHandler {
	return &SuggestHandler{svc: svc}
}

// Suggest handles POST /api/ai/suggest
func (h *SuggestHandler) Suggest(c *gin.Context) {
	var req services.SuggestRequest
	if !BindJSON(c, &req) {
		return
	}
	result, err := h.svc.Suggest.Suggest(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
