package models

import (
	"time"
)

// UserCollection marks a question as saved by a user. Presence means saved.
type UserCollection struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_user_question" json:"user_id"`
	QuestionID int64     `gorm:"not null;uniqueIndex:idx_user_question" json:"question_id"`
	Question   *Question `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"question,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
