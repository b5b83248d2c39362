package models

import (
	"time"
)

type User struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:50;not null" json:"name"`
	Username   string    `gorm:"size:30;not null;uniqueIndex" json:"username"`
	Email      string    `gorm:"not null;uniqueIndex" json:"email"`
	Image      string    `json:"image"`
	Reputation int64     `gorm:"default:0;not null" json:"reputation"`
	Bio        *string   `gorm:"size:200" json:"bio,omitempty"`
	Location   *string   `json:"location,omitempty"`
	Portfolio  *string   `json:"portfolio,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type UserCreate struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Image    string `json:"image"`
}

type UserUpdate struct {
	Name      *string `json:"name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Location  *string `json:"location,omitempty"`
	Portfolio *string `json:"portfolio,omitempty"`
	Image     *string `json:"image,omitempty"`
}
