package services

import (
	"context"
	"fmt"

	"devflow/internal/action"
	"devflow/internal/api"
	"devflow/internal/revalidate"
	"devflow/internal/session"
	"devflow/internal/validation"
)

// Deps are the collaborators shared by every domain service.
type Deps struct {
	API        *api.Client
	Revalidate revalidate.Revalidator
	// AtomicViews selects the backend's single-statement view increment.
	AtomicViews bool
}

func (d Deps) resolver() session.Resolver {
	return session.Resolver{Accounts: d.API.Accounts}
}

func (d Deps) revalidator() revalidate.Revalidator {
	if d.Revalidate == nil {
		return revalidate.Noop{}
	}
	return d.Revalidate
}

// Services bundles one instance of each domain service.
type Services struct {
	Questions   *QuestionService
	Answers     *AnswerService
	Votes       *VoteService
	Collections *CollectionService
	Tags        *TagService
	Users       *UserService
	Auth        *AuthService
	AI          *AIService
}

func New(d Deps, issuer *session.Issuer, llm *LLMService) *Services {
	questions := NewQuestionService(d)
	return &Services{
		Questions:   questions,
		Answers:     NewAnswerService(d),
		Votes:       NewVoteService(d),
		Collections: NewCollectionService(d, questions),
		Tags:        NewTagService(d),
		Users:       NewUserService(d),
		Auth:        NewAuthService(d, issuer),
		AI:          NewAIService(llm),
	}
}

// authorize runs the gateway for an operation that needs a signed-in user and returns
// the validated params with the acting user id.
func authorize[T any](ctx context.Context, d Deps, sessions session.Provider, params T, schema *validation.Schema[T]) (T, int64, *session.Session, error) {
	res, err := action.Run(ctx, action.Options[T]{
		Params:    &params,
		Schema:    schema,
		Authorize: true,
		Sessions:  sessions,
	})
	if err != nil {
		return res.Params, 0, nil, err
	}
	userID, err := d.resolver().UserID(ctx, res.Session)
	if err != nil {
		return res.Params, 0, nil, err
	}
	return res.Params, userID, res.Session, nil
}

// validate runs the gateway for an anonymous operation.
func validate[T any](ctx context.Context, params T, schema *validation.Schema[T]) (T, error) {
	res, err := action.Run(ctx, action.Options[T]{Params: &params, Schema: schema})
	return res.Params, err
}

// isNext reports whether another page exists. The backend's total is authoritative
// when present; otherwise a full page implies more.
func isNext(page, pageSize, n int, total *int64) bool {
	if total != nil {
		return *total > int64((page-1)*pageSize+n)
	}
	return n == pageSize
}

func totalOf(total *int64, n int) int64 {
	if total != nil {
		return *total
	}
	return int64(n)
}

func questionPath(id int64) string {
	return fmt.Sprintf("/questions/%d", id)
}
