package handlers

import (
	"devflow/internal/middleware"
	"devflow/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(s *services.Services) *VoteHandler {
	return &VoteHandler{votes: s.Votes}
}

// Vote POST /api/votes. Repeating a vote retracts it; the opposite vote replaces it.
func (h *VoteHandler) Vote(c *gin.Context) {
	var p services.CreateVoteParams
	if !bindJSON(c, &p) {
		return
	}
	respond(c, h.votes.CreateVote(c.Request.Context(), middleware.Sessions(c), p))
}

// Status GET /api/votes/status?targetId=&targetType=
func (h *VoteHandler) Status(c *gin.Context) {
	var p services.HasVotedParams
	if !bindQuery(c, &p) {
		return
	}
	respond(c, h.votes.HasVoted(c.Request.Context(), middleware.Sessions(c), p))
}
