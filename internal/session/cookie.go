package session

import (
	"context"

	"devflow/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	keyUserID            = "user_id"
	keyProvider          = "provider"
	keyProviderAccountID = "provider_account_id"
	keyName              = "name"
	keyEmail             = "email"
	keyImage             = "image"
)

// Cookie reads the gin-contrib session of c. The sessions middleware must be installed.
func Cookie(c *gin.Context) Provider {
	return ProviderFunc(func(context.Context) (*Session, error) {
		store := sessions.Default(c)

		userID, _ := store.Get(keyUserID).(int64)
		accountID, _ := store.Get(keyProviderAccountID).(string)
		if userID == 0 && accountID == "" {
			return nil, nil
		}

		s := &Session{UserID: userID, ProviderAccountID: accountID}
		if p, ok := store.Get(keyProvider).(string); ok {
			s.Provider = models.Provider(p)
		}
		s.Name, _ = store.Get(keyName).(string)
		s.Email, _ = store.Get(keyEmail).(string)
		s.Image, _ = store.Get(keyImage).(string)
		return s, nil
	})
}

// Login writes s into the cookie session.
func Login(c *gin.Context, s *Session) error {
	store := sessions.Default(c)
	store.Clear()
	if s.UserID != 0 {
		store.Set(keyUserID, s.UserID)
	}
	if s.ProviderAccountID != "" {
		store.Set(keyProviderAccountID, s.ProviderAccountID)
	}
	store.Set(keyProvider, string(s.Provider))
	store.Set(keyName, s.Name)
	store.Set(keyEmail, s.Email)
	store.Set(keyImage, s.Image)
	return store.Save()
}

func Logout(c *gin.Context) error {
	store := sessions.Default(c)
	store.Clear()
	store.Options(sessions.Options{Path: "/", MaxAge: -1})
	return store.Save()
}

// Writer installs or clears the caller's session.
type Writer interface {
	Login(s *Session) error
	Logout() error
}

type cookieWriter struct{ c *gin.Context }

// CookieWriter writes sessions to the gin-contrib cookie store of c.
func CookieWriter(c *gin.Context) Writer { return cookieWriter{c: c} }

func (w cookieWriter) Login(s *Session) error { return Login(w.c, s) }
func (w cookieWriter) Logout() error          { return Logout(w.c) }
