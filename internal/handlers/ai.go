package handlers

import (
	"devflow/internal/services"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	ai *services.AIService
}

func NewAIHandler(s *services.Services) *AIHandler {
	return &AIHandler{ai: s.AI}
}

// Answer POST /api/ai/answers
func (h *AIHandler) Answer(c *gin.Context) {
	var p services.AIAnswerParams
	if !bindJSON(c, &p) {
		return
	}
	respond(c, h.ai.GenerateAnswer(c.Request.Context(), p))
}
