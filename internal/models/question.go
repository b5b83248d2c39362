package models

import (
	"time"
)

type Question struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ContentHTML string    `gorm:"-" json:"content_html,omitempty"`
	AuthorID    int64     `gorm:"not null;index" json:"author_id"`
	Author      *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	Views       int64     `gorm:"default:0;not null" json:"views"`
	Upvotes     int64     `gorm:"default:0;not null" json:"upvotes"`
	Downvotes   int64     `gorm:"default:0;not null" json:"downvotes"`
	Score       float64   `gorm:"default:0;not null;index" json:"score"`
	Tags        []Tag     `gorm:"many2many:question_tags;" json:"tags"`
	Answers     []Answer  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"answers,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// QuestionCreate is the body of POST /question/create. Tags are names; the backend
// creates missing tags and links them.
type QuestionCreate struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	AuthorID int64    `json:"author_id"`
	Tags     []string `json:"tags"`
}

// QuestionUpdate carries only the fields being changed.
type QuestionUpdate struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Views   *int64   `json:"views,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// QuestionTag is the join row between questions and tags.
type QuestionTag struct {
	QuestionID int64 `gorm:"primaryKey" json:"question_id"`
	TagID      int64 `gorm:"primaryKey" json:"tag_id"`
}

func (QuestionTag) TableName() string {
	return "question_tags"
}
