package devapi

import (
	"net/http"

	"devflow/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (s *Server) registerTags(g *gin.RouterGroup) {
	g.GET("/load/:id", load[models.Tag](s))
	g.POST("/create", create(s, func(tx *gorm.DB, in models.TagCreate) (*models.Tag, error) {
		tag := &models.Tag{Name: models.TagKey(in.Name)}
		return tag, tx.Create(tag).Error
	}))
	g.PUT("/update/:id", update(s, func(_ *gorm.DB, t *models.Tag, in models.TagUpdate) error {
		if in.Name != nil {
			t.Name = models.TagKey(*in.Name)
		}
		return nil
	}))
	g.DELETE("/delete/:id", remove[models.Tag](s))
	g.GET("/tags", s.listTags)
	g.GET("/:id/questions", s.tagQuestions)
}

// listTags orders by filter: popular (default), recent, oldest or name.
func (s *Server) listTags(c *gin.Context) {
	p := pageOf(c)
	listPage[models.Tag](c, p, func() *gorm.DB {
		q := s.db.WithContext(c.Request.Context()).Model(&models.Tag{})
		if p.query != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", p.like())
		}
		switch p.filter {
		case "recent":
			return q.Order("created_at DESC")
		case "oldest":
			return q.Order("created_at ASC")
		case "name":
			return q.Order("name ASC")
		default:
			return q.Order("num_questions DESC").Order("name ASC")
		}
	})
}

func (s *Server) tagQuestions(c *gin.Context) {
	tagID := id(c, "id")
	var tag models.Tag
	if err := s.db.WithContext(c.Request.Context()).First(&tag, tagID).Error; err != nil {
		fail(c, err)
		return
	}

	p := pageOf(c)
	var total int64
	base := func() *gorm.DB {
		return s.questionQuery(c, p).
			Joins("JOIN question_tags ON question_tags.question_id = questions.id").
			Where("question_tags.tag_id = ?", tagID)
	}
	if err := base().Count(&total).Error; err != nil {
		fail(c, err)
		return
	}
	questions := []models.Question{}
	err := base().Preload("Tags").Preload("Author").
		Offset((p.page - 1) * p.size).Limit(p.size).Find(&questions).Error
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag, "questions": questions, "total": total})
}
