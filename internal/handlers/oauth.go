package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"devflow/internal/action"
	"devflow/internal/config"
	"devflow/internal/httperr"
	"devflow/internal/models"
	"devflow/internal/services"
	"devflow/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// oauthProvider is one configured identity provider.
type oauthProvider struct {
	config *oauth2.Config
	// fetch reads the signed-in user's profile with an authorized client.
	fetch func(ctx context.Context, client *http.Client) (services.OAuthSignInParams, error)
}

type OAuthHandler struct {
	auth      *services.AuthService
	states    session.StateStore
	providers map[models.Provider]oauthProvider
	success   string
}

// NewOAuthHandler enables each provider whose client id and secret are set.
func NewOAuthHandler(s *services.Services, cfg config.OAuth, states session.StateStore) *OAuthHandler {
	h := &OAuthHandler{
		auth:      s.Auth,
		states:    states,
		providers: map[models.Provider]oauthProvider{},
		success:   cfg.SuccessRedirect,
	}
	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		h.providers[models.ProviderGitHub] = oauthProvider{
			config: &oauth2.Config{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				RedirectURL:  cfg.RedirectBase + "/api/auth/oauth/github/callback",
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
			fetch: githubUser("https://api.github.com"),
		}
	}
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		h.providers[models.ProviderGoogle] = oauthProvider{
			config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.RedirectBase + "/api/auth/oauth/google/callback",
				Scopes:       []string{"openid", "profile", "email"},
				Endpoint:     google.Endpoint,
			},
			fetch: googleUser("https://www.googleapis.com/oauth2/v2/userinfo"),
		}
	}
	return h
}

func (h *OAuthHandler) provider(c *gin.Context) (oauthProvider, bool) {
	p, ok := h.providers[models.Provider(strings.ToLower(c.Param("provider")))]
	if !ok {
		respond(c, action.FailAPI[any](httperr.NewNotFoundError("OAuth provider")))
	}
	return p, ok
}

// Login GET /api/auth/oauth/:provider/login
func (h *OAuthHandler) Login(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}
	state, err := session.NewState()
	if err == nil {
		err = h.states.Save(c.Request.Context(), state)
	}
	if err != nil {
		respond(c, action.FailAPI[any](err))
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, p.config.AuthCodeURL(state))
}

// Callback GET /api/auth/oauth/:provider/callback
func (h *OAuthHandler) Callback(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if !h.states.Consume(ctx, c.Query("state")) {
		badRequest(c, "Invalid OAuth state")
		return
	}
	code := c.Query("code")
	if code == "" {
		badRequest(c, "Missing authorization code")
		return
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		respond(c, action.FailAPI[any](httperr.NewRequestError(http.StatusBadGateway, "OAuth token exchange failed")))
		return
	}
	user, err := p.fetch(ctx, p.config.Client(ctx, token))
	if err != nil {
		respond(c, action.FailAPI[any](httperr.NewRequestError(http.StatusBadGateway, "Failed to load OAuth profile")))
		return
	}

	res := h.auth.SignInWithOAuth(ctx, session.CookieWriter(c), user)
	if !res.Success {
		respond(c, res)
		return
	}
	c.Redirect(http.StatusFound, h.success)
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func githubUser(base string) func(context.Context, *http.Client) (services.OAuthSignInParams, error) {
	return func(ctx context.Context, client *http.Client) (services.OAuthSignInParams, error) {
		var u struct {
			ID        int64  `json:"id"`
			Login     string `json:"login"`
			Name      string `json:"name"`
			Email     string `json:"email"`
			AvatarURL string `json:"avatar_url"`
		}
		if err := getJSON(ctx, client, base+"/user", &u); err != nil {
			return services.OAuthSignInParams{}, err
		}

		email := u.Email
		if email == "" {
			var emails []struct {
				Email    string `json:"email"`
				Primary  bool   `json:"primary"`
				Verified bool   `json:"verified"`
			}
			if err := getJSON(ctx, client, base+"/user/emails", &emails); err == nil {
				for _, e := range emails {
					if e.Primary && e.Verified {
						email = e.Email
						break
					}
				}
			}
		}

		name := u.Name
		if name == "" {
			name = u.Login
		}
		return services.OAuthSignInParams{
			Provider:          models.ProviderGitHub,
			ProviderAccountID: fmt.Sprint(u.ID),
			Name:              name,
			Username:          u.Login,
			Email:             email,
			Image:             u.AvatarURL,
		}, nil
	}
}

func googleUser(url string) func(context.Context, *http.Client) (services.OAuthSignInParams, error) {
	return func(ctx context.Context, client *http.Client) (services.OAuthSignInParams, error) {
		var u struct {
			ID      string `json:"id"`
			Email   string `json:"email"`
			Name    string `json:"name"`
			Picture string `json:"picture"`
		}
		if err := getJSON(ctx, client, url, &u); err != nil {
			return services.OAuthSignInParams{}, err
		}
		username, _, _ := strings.Cut(u.Email, "@")
		return services.OAuthSignInParams{
			Provider:          models.ProviderGoogle,
			ProviderAccountID: u.ID,
			Name:              u.Name,
			Username:          username,
			Email:             u.Email,
			Image:             u.Picture,
		}, nil
	}
}
