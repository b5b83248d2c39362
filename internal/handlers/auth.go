package handlers

import (
	"devflow/internal/action"
	"devflow/internal/middleware"
	"devflow/internal/services"
	"devflow/internal/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(s *services.Services) *AuthHandler {
	return &AuthHandler{auth: s.Auth}
}

// SignUp POST /api/auth/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var p services.SignUpParams
	if !bindJSON(c, &p) {
		return
	}
	respond(c, h.auth.SignUpWithCredentials(c.Request.Context(), session.CookieWriter(c), p))
}

// SignIn POST /api/auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var p services.SignInParams
	if !bindJSON(c, &p) {
		return
	}
	respond(c, h.auth.SignInWithCredentials(c.Request.Context(), session.CookieWriter(c), p))
}

// SignOut POST /api/auth/sign-out
func (h *AuthHandler) SignOut(c *gin.Context) {
	respond(c, h.auth.SignOut(session.CookieWriter(c)))
}

// Session GET /api/auth/session returns the caller's session; data is absent for
// anonymous callers.
func (h *AuthHandler) Session(c *gin.Context) {
	s, err := middleware.Sessions(c).Current(c.Request.Context())
	if err != nil {
		respond(c, action.FailAPI[*session.Session](err))
		return
	}
	respond(c, action.OK(s))
}
