package devapi

import (
	"devflow/internal/models"

	"gorm.io/gorm"
)

const (
	reasonAsked      = "asked a question"
	reasonAnswered   = "answered a question"
	reasonVoted      = "vote received"
	reasonVoteUndone = "vote retracted"

	pointsAsk      = 5
	pointsAnswer   = 10
	pointsUpvote   = 2
	pointsDownvote = -1
)

// award logs a reputation change and applies it to the user's balance in tx.
func award(tx *gorm.DB, userID, amount int64, reason string) error {
	if amount == 0 {
		return nil
	}
	if err := tx.Create(&models.ReputationLog{UserID: userID, Amount: amount, Reason: reason}).Error; err != nil {
		return err
	}
	return tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", amount)).Error
}

func votePoints(vt models.VoteType) int64 {
	switch vt {
	case models.Upvote:
		return pointsUpvote
	case models.Downvote:
		return pointsDownvote
	}
	return 0
}

// awardVote credits the author of the voted target with the difference between the
// new and previous vote. An empty VoteType means no vote.
func awardVote(tx *gorm.DB, t models.TargetType, targetID int64, before, after models.VoteType) error {
	column := "author_id"
	if t == models.TargetAnswer {
		column = "user_id"
	}
	table, err := targetTable(t)
	if err != nil {
		return err
	}
	var authorID int64
	if err := tx.Table(table).Select(column).Where("id = ?", targetID).Scan(&authorID).Error; err != nil {
		return err
	}

	reason := reasonVoted
	if after == "" {
		reason = reasonVoteUndone
	}
	return award(tx, authorID, votePoints(after)-votePoints(before), reason)
}
