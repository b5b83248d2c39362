package middleware

import (
	"devflow/internal/session"

	"github.com/gin-gonic/gin"
)

const SessionKey = "session"

// LoadSession attaches the caller's session provider: the cookie session first, then
// a bearer token. Nothing is read until an operation asks.
func LoadSession(issuer *session.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(SessionKey, session.Chain(session.Cookie(c), session.Bearer(c, issuer)))
		c.Next()
	}
}

// Sessions returns the provider installed by LoadSession. Without it every caller is
// anonymous.
func Sessions(c *gin.Context) session.Provider {
	if v, ok := c.Get(SessionKey); ok {
		if p, ok := v.(session.Provider); ok {
			return p
		}
	}
	return session.Static(nil)
}
