package devapi

import (
	"errors"
	"net/http"

	"devflow/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (s *Server) registerCollections(g *gin.RouterGroup) {
	g.GET("/load/:uid/:qid", s.loadCollection)
	g.POST("/toggle/:uid/:qid", s.toggleCollection)
	g.POST("/user-collection", s.savedQuestions)
}

func (s *Server) loadCollection(c *gin.Context) {
	var uc models.UserCollection
	err := s.db.WithContext(c.Request.Context()).
		Where("user_id = ? AND question_id = ?", id(c, "uid"), id(c, "qid")).
		First(&uc).Error
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, uc)
}

// toggleCollection saves the question, or unsaves it when already saved.
func (s *Server) toggleCollection(c *gin.Context) {
	userID, questionID := id(c, "uid"), id(c, "qid")
	saved := false
	err := s.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Question{}, questionID).Error; err != nil {
			return err
		}
		var uc models.UserCollection
		err := tx.Where("user_id = ? AND question_id = ?", userID, questionID).First(&uc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			saved = true
			return tx.Create(&models.UserCollection{UserID: userID, QuestionID: questionID}).Error
		}
		if err != nil {
			return err
		}
		return tx.Delete(&uc).Error
	})
	if err != nil {
		fail(c, err)
		return
	}
	s.ranker.Schedule(questionID)
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

func (s *Server) savedQuestions(c *gin.Context) {
	p := pageOf(c)
	userID := c.Query("user_id")
	listPage[models.Question](c, p, func() *gorm.DB {
		return s.questionQuery(c, p).
			Joins("JOIN user_collections ON user_collections.question_id = questions.id").
			Where("user_collections.user_id = ?", userID)
	}, "Tags", "Author")
}
