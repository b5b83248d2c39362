package models

import (
	"time"
)

type Answer struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ContentHTML string    `gorm:"-" json:"content_html,omitempty"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	Author      *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	QuestionID  int64     `gorm:"not null;index" json:"question_id"`
	Upvotes     int64     `gorm:"default:0;not null" json:"upvotes"`
	Downvotes   int64     `gorm:"default:0;not null" json:"downvotes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AnswerCreate struct {
	Content    string `json:"content"`
	UserID     int64  `json:"user_id"`
	QuestionID int64  `json:"question_id"`
}

type AnswerUpdate struct {
	Content *string `json:"content,omitempty"`
}
