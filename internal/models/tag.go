package models

import (
	"strings"
	"time"
)

// Tag names are unique ignoring case; the backend stores them lower-cased.
type Tag struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:30;not null;uniqueIndex" json:"name"`
	NumQuestions int64     `gorm:"default:0;not null" json:"num_questions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type TagCreate struct {
	Name string `json:"name"`
}

type TagUpdate struct {
	Name *string `json:"name,omitempty"`
}

// TagKey is the comparison key used for tag uniqueness.
func TagKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
