package models

import (
	"time"
)

// ReputationLog records one change to a user's reputation.
type ReputationLog struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"size:100;not null" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
