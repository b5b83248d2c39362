package devapi

import (
	"errors"
	"net/http"

	"devflow/internal/httperr"
	"devflow/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (s *Server) registerVotes(g *gin.RouterGroup) {
	g.GET("/load/:id", load[models.Vote](s))
	g.POST("/create", create(s, func(tx *gorm.DB, in models.VoteIntent) (*models.Vote, error) {
		v := &models.Vote{UserID: in.UserID, TargetID: in.TargetID, TargetType: in.TargetType, VoteType: in.VoteType}
		if err := tx.Create(v).Error; err != nil {
			return nil, err
		}
		return v, recountVotes(tx, in.TargetType, in.TargetID)
	}))
	g.PUT("/update/:id", update(s, func(_ *gorm.DB, v *models.Vote, in models.VoteUpdate) error {
		if in.VoteType != nil {
			v.VoteType = *in.VoteType
		}
		return nil
	}))
	g.DELETE("/delete/:id", remove[models.Vote](s))
	g.POST("/do-vote", s.doVote)
	g.POST("/find", s.findVote)
}

func targetTable(t models.TargetType) (string, error) {
	switch t {
	case models.TargetQuestion:
		return "questions", nil
	case models.TargetAnswer:
		return "answers", nil
	}
	return "", httperr.NewRequestError(http.StatusUnprocessableEntity, "invalid target type")
}

// doVote applies the toggle: a new vote is recorded, the same vote again is
// retracted, and the opposite vote replaces the old one. Counters are recomputed in
// the same transaction.
func (s *Server) doVote(c *gin.Context) {
	var in models.VoteIntent
	if !bind(c, &in) {
		return
	}
	if !in.VoteType.Valid() {
		fail(c, httperr.NewRequestError(http.StatusUnprocessableEntity, "invalid vote type"))
		return
	}
	table, err := targetTable(in.TargetType)
	if err != nil {
		fail(c, err)
		return
	}

	var counts struct {
		Upvotes   int64 `json:"upvotes"`
		Downvotes int64 `json:"downvotes"`
	}
	err = s.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(table).Select("id").Where("id = ?", in.TargetID).Take(&struct{ ID int64 }{}).Error; err != nil {
			return err
		}

		var existing models.Vote
		err := tx.Where(&models.Vote{UserID: in.UserID, TargetID: in.TargetID, TargetType: in.TargetType}).
			First(&existing).Error
		before, after := existing.VoteType, in.VoteType
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			err = tx.Create(&models.Vote{
				UserID: in.UserID, TargetID: in.TargetID, TargetType: in.TargetType, VoteType: in.VoteType,
			}).Error
		case err != nil:
		case existing.VoteType == in.VoteType:
			after = ""
			err = tx.Delete(&existing).Error
		default:
			err = tx.Model(&existing).Update("vote_type", in.VoteType).Error
		}
		if err != nil {
			return err
		}
		if err := awardVote(tx, in.TargetType, in.TargetID, before, after); err != nil {
			return err
		}

		if err := recountVotes(tx, in.TargetType, in.TargetID); err != nil {
			return err
		}
		return tx.Table(table).Select("upvotes", "downvotes").Where("id = ?", in.TargetID).Take(&counts).Error
	})
	if err != nil {
		fail(c, err)
		return
	}
	if in.TargetType == models.TargetQuestion {
		s.ranker.Schedule(in.TargetID)
	}
	c.JSON(http.StatusOK, counts)
}

func recountVotes(tx *gorm.DB, t models.TargetType, targetID int64) error {
	table, err := targetTable(t)
	if err != nil {
		return err
	}
	count := func(vt models.VoteType) (int64, error) {
		var n int64
		err := tx.Model(&models.Vote{}).
			Where("target_id = ? AND target_type = ? AND vote_type = ?", targetID, t, vt).
			Count(&n).Error
		return n, err
	}
	up, err := count(models.Upvote)
	if err != nil {
		return err
	}
	down, err := count(models.Downvote)
	if err != nil {
		return err
	}
	return tx.Table(table).Where("id = ?", targetID).
		UpdateColumns(map[string]any{"upvotes": up, "downvotes": down}).Error
}

func (s *Server) findVote(c *gin.Context) {
	var in models.VoteFind
	if !bind(c, &in) {
		return
	}
	var v models.Vote
	err := s.db.WithContext(c.Request.Context()).
		Where("user_id = ? AND target_id = ? AND target_type = ?", in.UserID, in.TargetID, in.TargetType).
		First(&v).Error
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
