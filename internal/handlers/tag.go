package handlers

import (
	"devflow/internal/services"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tags *services.TagService
}

func NewTagHandler(s *services.Services) *TagHandler {
	return &TagHandler{tags: s.Tags}
}

// List GET /api/tags
func (h *TagHandler) List(c *gin.Context) {
	var p services.PaginatedParams
	if !bindQuery(c, &p) {
		return
	}
	respond(c, h.tags.GetTags(c.Request.Context(), p))
}

// Questions GET /api/tags/:id/questions
func (h *TagHandler) Questions(c *gin.Context) {
	var p services.GetTagQuestionsParams
	if !bindQuery(c, &p) {
		return
	}
	p.TagID = paramID(c, "id")
	respond(c, h.tags.GetTagQuestions(c.Request.Context(), p))
}
