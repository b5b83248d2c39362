package models

import (
	"time"
)

type Provider string

const (
	ProviderCredentials Provider = "credentials"
	ProviderGitHub      Provider = "github"
	ProviderGoogle      Provider = "google"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderCredentials, ProviderGitHub, ProviderGoogle:
		return true
	}
	return false
}

// Account links a User to an auth provider. Password is only set for credentials
// accounts and holds a bcrypt hash.
type Account struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	UserID            int64     `gorm:"not null;index" json:"user_id"`
	Name              string    `gorm:"size:50" json:"name"`
	Image             string    `json:"image,omitempty"`
	Provider          Provider  `gorm:"size:20;not null;uniqueIndex:idx_provider_account" json:"provider"`
	ProviderAccountID string    `gorm:"size:255;not null;uniqueIndex:idx_provider_account" json:"provider_account_id"`
	Password          string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type AccountCreate struct {
	UserID            int64    `json:"user_id"`
	Name              string   `json:"name"`
	Image             string   `json:"image,omitempty"`
	Provider          Provider `json:"provider"`
	ProviderAccountID string   `json:"provider_account_id"`
	Password          string   `json:"password,omitempty"`
}

type AccountUpdate struct {
	Password *string `json:"password,omitempty"`
}

type SignUpWithCredentials struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInWithCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInWithOAuth struct {
	Provider          Provider   `json:"provider"`
	ProviderAccountID string     `json:"provider_account_id"`
	User              UserCreate `json:"user"`
}
