package handlers

import (
	"devflow/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(s *services.Services) *UserHandler {
	return &UserHandler{users: s.Users}
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	var p services.PaginatedParams
	if !bindQuery(c, &p) {
		return
	}
	respond(c, h.users.GetUsers(c.Request.Context(), p))
}

// Profile GET /api/users/:id
func (h *UserHandler) Profile(c *gin.Context) {
	respond(c, h.users.GetUser(c.Request.Context(), services.GetUserParams{ID: paramID(c, "id")}))
}
