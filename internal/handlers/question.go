package handlers

import (
	"time"

	"devflow/internal/middleware"
	"devflow/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questions   *services.QuestionService
	answers     *services.AnswerService
	viewTimeout time.Duration
}

func NewQuestionHandler(s *services.Services, viewTimeout time.Duration) *QuestionHandler {
	return &QuestionHandler{questions: s.Questions, answers: s.Answers, viewTimeout: viewTimeout}
}

// List GET /api/questions
func (h *QuestionHandler) List(c *gin.Context) {
	var p services.PaginatedParams
	if !bindQuery(c, &p) {
		return
	}
	respond(c, h.questions.GetQuestions(c.Request.Context(), p))
}

// Detail GET /api/questions/:id. A successful read schedules a view increment that
// finishes after the response is sent.
func (h *QuestionHandler) Detail(c *gin.Context) {
	id := paramID(c, "id")
	res := h.questions.GetQuestion(c.Request.Context(), services.GetQuestionParams{ID: id})
	respond(c, res)
	if res.Success {
		h.questions.IncrementViewsAfter(c.Request.Context(), id, h.viewTimeout)
	}
}

// Create POST /api/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	var p services.CreateQuestionParams
	if !bindJSON(c, &p) {
		return
	}
	respond(c, h.questions.CreateQuestion(c.Request.Context(), middleware.Sessions(c), p))
}

// Update PUT /api/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	var p services.EditQuestionParams
	if !bindJSON(c, &p) {
		return
	}
	p.ID = paramID(c, "id")
	respond(c, h.questions.EditQuestion(c.Request.Context(), middleware.Sessions(c), p))
}

// IncrementViews POST /api/questions/:id/views
func (h *QuestionHandler) IncrementViews(c *gin.Context) {
	respond(c, h.questions.IncrementViews(c.Request.Context(), services.IncrementViewsParams{
		QuestionID: paramID(c, "id"),
	}))
}

// Answers GET /api/questions/:id/answers
func (h *QuestionHandler) Answers(c *gin.Context) {
	var p services.GetAnswersParams
	if !bindQuery(c, &p) {
		return
	}
	p.QuestionID = paramID(c, "id")
	respond(c, h.answers.GetAnswers(c.Request.Context(), p))
}

// Answer POST /api/questions/:id/answers
func (h *QuestionHandler) Answer(c *gin.Context) {
	var p services.CreateAnswerParams
	if !bindJSON(c, &p) {
		return
	}
	p.QuestionID = paramID(c, "id")
	respond(c, h.answers.CreateAnswer(c.Request.Context(), middleware.Sessions(c), p))
}
