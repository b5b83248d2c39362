package models

import (
	"time"
)

type TargetType string

const (
	TargetQuestion TargetType = "question"
	TargetAnswer   TargetType = "answer"
)

func (t TargetType) Valid() bool {
	return t == TargetQuestion || t == TargetAnswer
}

type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

func (v VoteType) Valid() bool {
	return v == Upvote || v == Downvote
}

// Vote is unique per (user, target, target type). Repeating the same vote type
// retracts it; the opposite type replaces it. The backend owns that toggle.
type Vote struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	UserID     int64      `gorm:"not null;uniqueIndex:idx_vote_target" json:"user_id"`
	TargetID   int64      `gorm:"not null;uniqueIndex:idx_vote_target" json:"target_id"`
	TargetType TargetType `gorm:"size:20;not null;uniqueIndex:idx_vote_target" json:"target_vote"`
	VoteType   VoteType   `gorm:"size:20;not null" json:"vote_type"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// VoteIntent is the body of POST /vote/do-vote.
type VoteIntent struct {
	UserID     int64      `json:"user_id"`
	TargetID   int64      `json:"target_id"`
	TargetType TargetType `json:"target_vote"`
	VoteType   VoteType   `json:"vote_type"`
}

// VoteFind is the body of POST /vote/find.
type VoteFind struct {
	UserID     int64      `json:"user_id"`
	TargetID   int64      `json:"target_id"`
	TargetType TargetType `json:"target_vote"`
}

type VoteUpdate struct {
	VoteType *VoteType `json:"vote_type,omitempty"`
}
