package devapi

import (
	"devflow/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (s *Server) registerAnswers(g *gin.RouterGroup) {
	g.GET("/load/:id", load[models.Answer](s, "Author"))
	g.POST("/create", create(s, s.createAnswer))
	g.PUT("/update/:id", update(s, func(_ *gorm.DB, a *models.Answer, in models.AnswerUpdate) error {
		if in.Content != nil {
			a.Content = *in.Content
		}
		return nil
	}))
	g.DELETE("/delete/:id", remove[models.Answer](s))
	g.GET("/answers-for-question/:id", s.listAnswers)
}

func (s *Server) createAnswer(tx *gorm.DB, in models.AnswerCreate) (*models.Answer, error) {
	var q models.Question
	if err := tx.Select("id").First(&q, in.QuestionID).Error; err != nil {
		return nil, err
	}
	a := &models.Answer{Content: in.Content, UserID: in.UserID, QuestionID: in.QuestionID}
	if err := tx.Create(a).Error; err != nil {
		return nil, err
	}
	if err := award(tx, in.UserID, pointsAnswer, reasonAnswered); err != nil {
		return nil, err
	}
	s.ranker.Schedule(in.QuestionID)
	return a, nil
}

// listAnswers orders by filter: latest (default), oldest or popular.
func (s *Server) listAnswers(c *gin.Context) {
	p := pageOf(c)
	questionID := id(c, "id")
	listPage[models.Answer](c, p, func() *gorm.DB {
		q := s.db.WithContext(c.Request.Context()).Model(&models.Answer{}).
			Where("question_id = ?", questionID)
		switch p.filter {
		case "oldest":
			return q.Order("created_at ASC")
		case "popular":
			return q.Order("upvotes DESC").Order("created_at DESC")
		default:
			return q.Order("created_at DESC")
		}
	}, "Author")
}
