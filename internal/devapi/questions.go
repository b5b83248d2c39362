package devapi

import (
	"net/http"

	"devflow/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (s *Server) registerQuestions(g *gin.RouterGroup) {
	g.GET("/load/:id", load[models.Question](s, "Tags", "Author"))
	g.POST("/create", create(s, s.createQuestion))
	g.PUT("/update/:id", update(s, s.updateQuestion))
	g.DELETE("/delete/:id", remove[models.Question](s))
	g.GET("/questions", s.listQuestions)
	g.POST("/views/:id", s.incrementViews)
	g.GET("/:id/tags", s.questionTags)
}

func (s *Server) createQuestion(tx *gorm.DB, in models.QuestionCreate) (*models.Question, error) {
	tags, err := upsertTags(tx, in.Tags)
	if err != nil {
		return nil, err
	}
	q := &models.Question{Title: in.Title, Content: in.Content, AuthorID: in.AuthorID, Tags: tags}
	if err := tx.Create(q).Error; err != nil {
		return nil, err
	}
	if err := award(tx, in.AuthorID, pointsAsk, reasonAsked); err != nil {
		return nil, err
	}
	s.ranker.Schedule(q.ID)
	return q, recountTags(tx, tags)
}

func (s *Server) updateQuestion(tx *gorm.DB, q *models.Question, in models.QuestionUpdate) error {
	if in.Title != nil {
		q.Title = *in.Title
	}
	if in.Content != nil {
		q.Content = *in.Content
	}
	if in.Views != nil {
		q.Views = *in.Views
	}
	if in.Tags == nil {
		return nil
	}

	var old []models.Tag
	if err := tx.Model(q).Association("Tags").Find(&old); err != nil {
		return err
	}
	tags, err := upsertTags(tx, in.Tags)
	if err != nil {
		return err
	}
	if err := tx.Model(q).Association("Tags").Replace(tags); err != nil {
		return err
	}
	q.Tags = tags
	return recountTags(tx, append(old, tags...))
}

// upsertTags finds or creates each tag by its lower-cased name.
func upsertTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		key := models.TagKey(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		tag := models.Tag{Name: key}
		if err := tx.Where(models.Tag{Name: key}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func recountTags(tx *gorm.DB, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return tx.Model(&models.Tag{}).Where("id IN ?", ids).
		UpdateColumn("num_questions", gorm.Expr("(SELECT COUNT(*) FROM question_tags WHERE question_tags.tag_id = tags.id)")).Error
}

func (s *Server) listQuestions(c *gin.Context) {
	p := pageOf(c)
	listPage[models.Question](c, p, func() *gorm.DB {
		return s.questionQuery(c, p)
	}, "Tags", "Author")
}

// questionQuery applies search and filter to questions. filter is newest (default),
// oldest, popular, hot or unanswered.
func (s *Server) questionQuery(c *gin.Context, p pageQuery) *gorm.DB {
	q := s.db.WithContext(c.Request.Context()).Model(&models.Question{})
	if p.query != "" {
		q = q.Where("LOWER(questions.title) LIKE LOWER(?) OR LOWER(questions.content) LIKE LOWER(?)", p.like(), p.like())
	}
	switch p.filter {
	case "oldest":
		q = q.Order("questions.created_at ASC")
	case "popular":
		q = q.Order("questions.upvotes DESC").Order("questions.created_at DESC")
	case "hot":
		q = q.Order("questions.score DESC").Order("questions.created_at DESC")
	case "unanswered":
		q = q.Where("NOT EXISTS (SELECT 1 FROM answers WHERE answers.question_id = questions.id)").
			Order("questions.created_at DESC")
	default:
		q = q.Order("questions.created_at DESC")
	}
	return q
}

// incrementViews is a single UPDATE so concurrent views are never lost.
func (s *Server) incrementViews(c *gin.Context) {
	db := s.db.WithContext(c.Request.Context())
	res := db.Model(&models.Question{}).Where("id = ?", id(c, "id")).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		fail(c, gorm.ErrRecordNotFound)
		return
	}
	var q models.Question
	if err := db.First(&q, id(c, "id")).Error; err != nil {
		fail(c, err)
		return
	}
	s.ranker.Schedule(q.ID)
	c.JSON(http.StatusOK, q)
}

func (s *Server) questionTags(c *gin.Context) {
	q := models.Question{ID: id(c, "id")}
	db := s.db.WithContext(c.Request.Context())
	if err := db.Select("id").First(&q, q.ID).Error; err != nil {
		fail(c, err)
		return
	}
	tags := []models.Tag{}
	if err := db.Model(&q).Association("Tags").Find(&tags); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}
