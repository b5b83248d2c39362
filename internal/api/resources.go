package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"devflow/internal/models"
)

type Questions struct {
	crud[models.Question, models.QuestionCreate, models.QuestionUpdate]
}

func (r Questions) List(ctx context.Context, q models.ListQuery) (models.Page[models.Question], error) {
	return list[models.Question](ctx, r.c, call{
		resource: r.name, operation: "list",
		method: http.MethodGet, path: "/question/questions", query: listQuery(q),
	})
}

// IncrementViews bumps the view counter in a single backend statement.
func (r Questions) IncrementViews(ctx context.Context, id int64) (models.Question, error) {
	var out models.Question
	err := r.c.do(ctx, call{
		resource: r.name, operation: "increment_views",
		method: http.MethodPost, path: idPath(r.name, "views", id),
	}, &out)
	return out, err
}

func (r Questions) Tags(ctx context.Context, id int64) ([]models.Tag, error) {
	var out []models.Tag
	err := r.c.do(ctx, call{
		resource: r.name, operation: "tags",
		method: http.MethodGet, path: fmt.Sprintf("/question/%d/tags", id),
	}, &out)
	return out, err
}

type Answers struct {
	crud[models.Answer, models.AnswerCreate, models.AnswerUpdate]
}

func (r Answers) ListForQuestion(ctx context.Context, questionID int64, q models.ListQuery) (models.Page[models.Answer], error) {
	return list[models.Answer](ctx, r.c, call{
		resource: r.name, operation: "list_for_question",
		method: http.MethodGet, path: idPath(r.name, "answers-for-question", questionID),
		query: listQuery(q),
	})
}

type Tags struct {
	crud[models.Tag, models.TagCreate, models.TagUpdate]
}

func (r Tags) List(ctx context.Context, q models.ListQuery) (models.Page[models.Tag], error) {
	return list[models.Tag](ctx, r.c, call{
		resource: r.name, operation: "list",
		method: http.MethodGet, path: "/tag/tags", query: listQuery(q),
	})
}

func (r Tags) Questions(ctx context.Context, tagID int64, q models.ListQuery) (models.Page[models.Question], error) {
	return list[models.Question](ctx, r.c, call{
		resource: r.name, operation: "questions",
		method: http.MethodGet, path: fmt.Sprintf("/tag/%d/questions", tagID), query: listQuery(q),
	})
}

type Votes struct {
	crud[models.Vote, models.VoteIntent, models.VoteUpdate]
}

// DoVote records, switches or retracts a vote. The toggle rules live in the backend.
func (r Votes) DoVote(ctx context.Context, in models.VoteIntent) error {
	return r.c.do(ctx, call{
		resource: r.name, operation: "do_vote",
		method: http.MethodPost, path: "/vote/do-vote", body: in,
	}, nil)
}

// Find returns the caller's vote on a target. A missing vote is a 404 error.
func (r Votes) Find(ctx context.Context, in models.VoteFind) (models.Vote, error) {
	var out models.Vote
	err := r.c.do(ctx, call{
		resource: r.name, operation: "find",
		method: http.MethodPost, path: "/vote/find", body: in,
	}, &out)
	return out, err
}

type Accounts struct {
	crud[models.Account, models.AccountCreate, models.AccountUpdate]
}

func (r Accounts) LoadByProviderAccountID(ctx context.Context, providerAccountID string) (models.Account, error) {
	var out models.Account
	err := r.c.do(ctx, call{
		resource: r.name, operation: "load_by_provider",
		method: http.MethodPost, path: "/account/provider",
		body: map[string]string{"provider": providerAccountID},
	}, &out)
	return out, err
}

func (r Accounts) SignInWithOAuth(ctx context.Context, in models.SignInWithOAuth) (models.Account, error) {
	var out models.Account
	err := r.c.do(ctx, call{
		resource: r.name, operation: "sign_in_oauth",
		method: http.MethodPost, path: "/account/sign-in-with-oauth", body: in,
	}, &out)
	return out, err
}

func (r Accounts) SignUpWithCredentials(ctx context.Context, in models.SignUpWithCredentials) (models.Account, error) {
	var out models.Account
	err := r.c.do(ctx, call{
		resource: r.name, operation: "sign_up_credentials",
		method: http.MethodPost, path: "/account/sign-up-with-credentials", body: in,
	}, &out)
	return out, err
}

func (r Accounts) SignInWithCredentials(ctx context.Context, in models.SignInWithCredentials) (models.Account, error) {
	var out models.Account
	err := r.c.do(ctx, call{
		resource: r.name, operation: "sign_in_credentials",
		method: http.MethodPost, path: "/account/sign-in-with-credentials/", body: in,
	}, &out)
	return out, err
}

type Users struct {
	crud[models.User, models.UserCreate, models.UserUpdate]
}

func (r Users) LoadByEmail(ctx context.Context, email string) (models.User, error) {
	var out models.User
	err := r.c.do(ctx, call{
		resource: r.name, operation: "load_by_email",
		method: http.MethodPost, path: "/user/email", body: map[string]string{"email": email},
	}, &out)
	return out, err
}

func (r Users) LoadByUsername(ctx context.Context, username string) (models.User, error) {
	var out models.User
	err := r.c.do(ctx, call{
		resource: r.name, operation: "load_by_username",
		method: http.MethodPost, path: "/user/username", body: map[string]string{"username": username},
	}, &out)
	return out, err
}

func (r Users) List(ctx context.Context, q models.ListQuery) (models.Page[models.User], error) {
	return list[models.User](ctx, r.c, call{
		resource: r.name, operation: "list",
		method: http.MethodGet, path: "/user/", query: listQuery(q),
	})
}

// Collections addresses saved questions by (user, question) rather than by row id.
type Collections struct {
	c *Client
}

func (r Collections) Get(ctx context.Context, userID, questionID int64) (models.UserCollection, error) {
	var out models.UserCollection
	err := r.c.do(ctx, call{
		resource: "user_collection", operation: "get",
		method: http.MethodGet, path: fmt.Sprintf("/user_collection/load/%d/%d", userID, questionID),
	}, &out)
	return out, err
}

// Toggle flips the saved state. The returned flag is nil when the reply does not say
// which state the toggle left, e.g. {"message": "ok"}.
func (r Collections) Toggle(ctx context.Context, userID, questionID int64) (*bool, error) {
	var raw json.RawMessage
	err := r.c.do(ctx, call{
		resource: "user_collection", operation: "toggle",
		method: http.MethodPost, path: fmt.Sprintf("/user_collection/toggle/%d/%d", userID, questionID),
	}, &raw)
	if err != nil {
		return nil, err
	}
	var body struct {
		Saved *bool `json:"saved"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return nil, nil
	}
	return body.Saved, nil
}

func (r Collections) ListSaved(ctx context.Context, userID int64, q models.ListQuery) (models.Page[models.Question], error) {
	query := listQuery(q)
	query.Set("user_id", fmt.Sprint(userID))
	return list[models.Question](ctx, r.c, call{
		resource: "user_collection", operation: "list_saved",
		method: http.MethodPost, path: "/user_collection/user-collection", query: query,
	})
}
