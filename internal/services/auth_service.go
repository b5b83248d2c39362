package services

import (
	"context"
	"net/http"

	"devflow/internal/action"
	"devflow/internal/httperr"
	"devflow/internal/models"
	"devflow/internal/session"
)

// SignedIn is returned by every successful sign-in. Token is set only when bearer
// tokens are configured.
type SignedIn struct {
	Session *session.Session `json:"session"`
	Token   string           `json:"token,omitempty"`
}

type AuthService struct {
	deps   Deps
	issuer *session.Issuer
}

func NewAuthService(d Deps, issuer *session.Issuer) *AuthService {
	return &AuthService{deps: d, issuer: issuer}
}

func (s *AuthService) SignUpWithCredentials(ctx context.Context, w session.Writer, p SignUpParams) action.Response[SignedIn] {
	params, err := validate(ctx, p, SignUpSchema)
	if err != nil {
		return action.Fail[SignedIn](err)
	}

	if err := s.ensureFree(ctx, params); err != nil {
		return action.Fail[SignedIn](err)
	}

	account, err := s.deps.API.Accounts.SignUpWithCredentials(ctx, models.SignUpWithCredentials{
		Name:     params.Name,
		Username: params.Username,
		Email:    params.Email,
		Password: params.Password,
	})
	if httperr.StatusOf(err) == http.StatusConflict {
		return action.Fail[SignedIn](httperr.NewConflictError("User already exists"))
	}
	if err != nil {
		return action.Fail[SignedIn](err)
	}

	return s.signIn(w, &session.Session{
		UserID:            account.UserID,
		Provider:          models.ProviderCredentials,
		ProviderAccountID: account.ProviderAccountID,
		Name:              params.Name,
		Email:             params.Email,
	})
}

// ensureFree fails when the email or username is already taken.
func (s *AuthService) ensureFree(ctx context.Context, p SignUpParams) error {
	_, err := s.deps.API.Users.LoadByEmail(ctx, p.Email)
	switch {
	case err == nil:
		return httperr.NewConflictError("User email already exists")
	case !httperr.IsNotFound(err):
		return err
	}

	_, err = s.deps.API.Users.LoadByUsername(ctx, p.Username)
	switch {
	case err == nil:
		return httperr.NewConflictError("Username already exists")
	case !httperr.IsNotFound(err):
		return err
	}
	return nil
}

// SignInWithCredentials never says which of email or password was wrong.
func (s *AuthService) SignInWithCredentials(ctx context.Context, w session.Writer, p SignInParams) action.Response[SignedIn] {
	params, err := validate(ctx, p, SignInSchema)
	if err != nil {
		return action.Fail[SignedIn](err)
	}

	account, err := s.deps.API.Accounts.SignInWithCredentials(ctx, models.SignInWithCredentials{
		Email:    params.Email,
		Password: params.Password,
	})
	if status := httperr.StatusOf(err); status >= 400 && status < 500 {
		return action.Fail[SignedIn](httperr.NewRequestError(http.StatusNotFound, "Incorrect credentials"))
	}
	if err != nil {
		return action.Fail[SignedIn](err)
	}

	return s.signIn(w, &session.Session{
		UserID:            account.UserID,
		Provider:          models.ProviderCredentials,
		ProviderAccountID: account.ProviderAccountID,
		Name:              account.Name,
		Email:             params.Email,
	})
}

// SignInWithOAuth links (or creates) the provider account and signs the user in with
// both the user id and the provider account id.
func (s *AuthService) SignInWithOAuth(ctx context.Context, w session.Writer, p OAuthSignInParams) action.Response[SignedIn] {
	params, err := validate(ctx, p, OAuthSignInSchema)
	if err != nil {
		return action.Fail[SignedIn](err)
	}

	account, err := s.deps.API.Accounts.SignInWithOAuth(ctx, models.SignInWithOAuth{
		Provider:          params.Provider,
		ProviderAccountID: params.ProviderAccountID,
		User: models.UserCreate{
			Name:     params.Name,
			Username: params.Username,
			Email:    params.Email,
			Image:    params.Image,
		},
	})
	if err != nil {
		return action.Fail[SignedIn](err)
	}

	return s.signIn(w, &session.Session{
		UserID:            account.UserID,
		Provider:          params.Provider,
		ProviderAccountID: params.ProviderAccountID,
		Name:              params.Name,
		Email:             params.Email,
		Image:             params.Image,
	})
}

func (s *AuthService) SignOut(w session.Writer) action.Response[struct{}] {
	if err := w.Logout(); err != nil {
		return action.Fail[struct{}](err)
	}
	return action.OK(struct{}{})
}

func (s *AuthService) signIn(w session.Writer, sess *session.Session) action.Response[SignedIn] {
	if err := w.Login(sess); err != nil {
		return action.Fail[SignedIn](err)
	}
	out := SignedIn{Session: sess}
	if s.issuer != nil {
		token, err := s.issuer.Issue(sess)
		if err != nil {
			return action.Fail[SignedIn](err)
		}
		out.Token = token
	}
	return action.OK(out)
}
