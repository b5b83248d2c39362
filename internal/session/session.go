// Package session answers "who is calling": cookie sessions for browsers, bearer
// tokens for API clients.
package session

import (
	"context"

	"devflow/internal/models"
)

// Session is the authenticated identity attached to a request. A nil *Session means
// the caller is anonymous.
type Session struct {
	UserID            int64           `json:"user_id,omitempty"`
	Provider          models.Provider `json:"provider,omitempty"`
	ProviderAccountID string          `json:"provider_account_id,omitempty"`
	Name              string          `json:"name,omitempty"`
	Email             string          `json:"email,omitempty"`
	Image             string          `json:"image,omitempty"`
}

// Provider returns the current session, or nil when nobody is signed in.
type Provider interface {
	Current(ctx context.Context) (*Session, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (*Session, error)

func (f ProviderFunc) Current(ctx context.Context) (*Session, error) {
	return f(ctx)
}

// Static always returns s. Static(nil) is an anonymous caller.
func Static(s *Session) Provider {
	return ProviderFunc(func(context.Context) (*Session, error) { return s, nil })
}

// Chain asks each provider in turn and returns the first session found. An error
// from one provider stops the chain.
func Chain(providers ...Provider) Provider {
	return ProviderFunc(func(ctx context.Context) (*Session, error) {
		for _, p := range providers {
			if p == nil {
				continue
			}
			s, err := p.Current(ctx)
			if err != nil {
				return nil, err
			}
			if s != nil {
				return s, nil
			}
		}
		return nil, nil
	})
}
