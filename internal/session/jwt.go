package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"devflow/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims defines JWT claims used for bearer sessions.
type Claims struct {
	UserID            int64           `json:"user_id,omitempty"`
	Provider          models.Provider `json:"provider,omitempty"`
	ProviderAccountID string          `json:"provider_account_id,omitempty"`
	Name              string          `json:"name,omitempty"`
	Email             string          `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 bearer tokens.
type Issuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewIssuer returns nil when secret is empty; a nil Issuer never authenticates anyone.
func NewIssuer(secret string, expiry time.Duration) *Issuer {
	if secret == "" {
		return nil
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Issue generates a token for s.
func (i *Issuer) Issue(s *Session) (string, error) {
	if i == nil {
		return "", errors.New("bearer tokens are not configured")
	}
	now := i.now()
	claims := Claims{
		UserID:            s.UserID,
		Provider:          s.Provider,
		ProviderAccountID: s.ProviderAccountID,
		Name:              s.Name,
		Email:             s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse validates a token and returns its session.
func (i *Issuer) Parse(token string) (*Session, error) {
	if i == nil {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &Session{
		UserID:            claims.UserID,
		Provider:          claims.Provider,
		ProviderAccountID: claims.ProviderAccountID,
		Name:              claims.Name,
		Email:             claims.Email,
	}, nil
}

// Bearer reads "Authorization: Bearer <token>". Missing or invalid tokens are anonymous.
func Bearer(c *gin.Context, issuer *Issuer) Provider {
	return ProviderFunc(func(context.Context) (*Session, error) {
		if issuer == nil {
			return nil, nil
		}
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return nil, nil
		}
		s, err := issuer.Parse(strings.TrimSpace(token))
		if err != nil {
			return nil, nil
		}
		return s, nil
	})
}
