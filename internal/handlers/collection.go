package handlers

import (
	"devflow/internal/middleware"
	"devflow/internal/services"

	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	collections *services.CollectionService
}

func NewCollectionHandler(s *services.Services) *CollectionHandler {
	return &CollectionHandler{collections: s.Collections}
}

// Toggle POST /api/collections/:questionId/toggle
func (h *CollectionHandler) Toggle(c *gin.Context) {
	respond(c, h.collections.ToggleSaveQuestion(c.Request.Context(), middleware.Sessions(c), services.CollectionParams{
		QuestionID: paramID(c, "questionId"),
	}))
}

// Status GET /api/collections/:questionId
func (h *CollectionHandler) Status(c *gin.Context) {
	respond(c, h.collections.HasSavedQuestion(c.Request.Context(), middleware.Sessions(c), services.CollectionParams{
		QuestionID: paramID(c, "questionId"),
	}))
}

// List GET /api/collections
func (h *CollectionHandler) List(c *gin.Context) {
	var p services.PaginatedParams
	if !bindQuery(c, &p) {
		return
	}
	respond(c, h.collections.GetSavedQuestions(c.Request.Context(), middleware.Sessions(c), p))
}
