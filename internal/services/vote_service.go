package services

import (
	"context"

	"devflow/internal/action"
	"devflow/internal/httperr"
	"devflow/internal/models"
	"devflow/internal/session"
)

type VoteStatus struct {
	HasUpvoted   bool `json:"hasUpvoted"`
	HasDownvoted bool `json:"hasDownvoted"`
}

type VoteService struct {
	deps Deps
}

func NewVoteService(d Deps) *VoteService {
	return &VoteService{deps: d}
}

// CreateVote forwards the vote intent. Repeating a vote retracts it and the opposite
// type replaces it; the backend applies those rules and recounts the target.
func (s *VoteService) CreateVote(ctx context.Context, sessions session.Provider, p CreateVoteParams) action.Response[struct{}] {
	params, userID, _, err := authorize(ctx, s.deps, sessions, p, CreateVoteSchema)
	if err != nil {
		return action.Fail[struct{}](err)
	}

	err = s.deps.API.Votes.DoVote(ctx, models.VoteIntent{
		UserID:     userID,
		TargetID:   params.TargetID,
		TargetType: params.TargetType,
		VoteType:   params.VoteType,
	})
	if err != nil {
		return action.Fail[struct{}](err)
	}

	if qid := s.questionOf(ctx, params.TargetType, params.TargetID); qid != 0 {
		s.deps.revalidator().Path(ctx, questionPath(qid))
	}
	return action.OK(struct{}{})
}

// questionOf finds the question page a vote target lives on, or 0 if unknown.
func (s *VoteService) questionOf(ctx context.Context, t models.TargetType, id int64) int64 {
	if t == models.TargetQuestion {
		return id
	}
	a, err := s.deps.API.Answers.Get(ctx, id)
	if err != nil {
		return 0
	}
	return a.QuestionID
}

// HasVoted reports the caller's vote on a target. No vote is a successful result with
// both flags false.
func (s *VoteService) HasVoted(ctx context.Context, sessions session.Provider, p HasVotedParams) action.Response[VoteStatus] {
	params, userID, _, err := authorize(ctx, s.deps, sessions, p, HasVotedSchema)
	if err != nil {
		return action.Fail[VoteStatus](err)
	}

	vote, err := s.deps.API.Votes.Find(ctx, models.VoteFind{
		UserID:     userID,
		TargetID:   params.TargetID,
		TargetType: params.TargetType,
	})
	if httperr.IsNotFound(err) {
		return action.OK(VoteStatus{})
	}
	if err != nil {
		return action.Fail[VoteStatus](err)
	}
	return action.OK(VoteStatus{
		HasUpvoted:   vote.VoteType == models.Upvote,
		HasDownvoted: vote.VoteType == models.Downvote,
	})
}
