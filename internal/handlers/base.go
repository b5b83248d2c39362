package handlers

import (
	"errors"
	"io"
	"net/http"

	"devflow/internal/action"
	"devflow/internal/httperr"
	"devflow/internal/utils"

	"github.com/gin-gonic/gin"
)

// respond writes r using the status carried in the envelope as the HTTP status.
func respond[T any](c *gin.Context, r action.Response[T]) {
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, r)
}

func badRequest(c *gin.Context, message string) {
	respond(c, action.FailAPI[any](httperr.NewRequestError(http.StatusBadRequest, message)))
}

// bindJSON decodes the request body into p. An empty body leaves p zero so the
// operation's schema reports every missing field.
func bindJSON(c *gin.Context, p any) bool {
	if err := c.ShouldBindJSON(p); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request body")
		return false
	}
	return true
}

func bindQuery(c *gin.Context, p any) bool {
	if err := c.ShouldBindQuery(p); err != nil {
		badRequest(c, "Invalid query parameters")
		return false
	}
	return true
}

// paramID reads a numeric path parameter; anything else is 0 and fails validation.
func paramID(c *gin.Context, name string) int64 {
	return utils.ParseID(c.Param(name))
}
