package session

import (
	"context"

	"devflow/internal/httperr"
	"devflow/internal/models"
)

// AccountFinder looks up provider accounts on the backend.
type AccountFinder interface {
	LoadByProviderAccountID(ctx context.Context, providerAccountID string) (models.Account, error)
}

// Resolver maps a session to the acting user id. It is the only place that decides
// which user an authorized operation acts for.
type Resolver struct {
	Accounts AccountFinder
}

// UserID returns s.UserID when present, otherwise the owner of s.ProviderAccountID.
func (r Resolver) UserID(ctx context.Context, s *Session) (int64, error) {
	if s == nil {
		return 0, httperr.NewUnauthorizedError()
	}
	if s.UserID != 0 {
		return s.UserID, nil
	}
	if s.ProviderAccountID == "" || r.Accounts == nil {
		return 0, httperr.NewUnauthorizedError()
	}

	account, err := r.Accounts.LoadByProviderAccountID(ctx, s.ProviderAccountID)
	if err != nil {
		return 0, err
	}
	if account.UserID == 0 {
		return 0, httperr.NewUnauthorizedError()
	}
	return account.UserID, nil
}
