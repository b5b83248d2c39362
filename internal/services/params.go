package services

import (
	"strings"

	"devflow/internal/models"
)

// PaginatedParams are the shared list/search inputs.
type PaginatedParams struct {
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"pageSize" form:"pageSize"`
	Query    string `json:"query" form:"query"`
	Filter   string `json:"filter" form:"filter"`
	Sort     string `json:"sort" form:"sort"`
}

func (p PaginatedParams) listQuery() models.ListQuery {
	return models.ListQuery{Page: p.Page, PageSize: p.PageSize, Query: p.Query, Filter: p.Filter}
}

type CreateQuestionParams struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type EditQuestionParams struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type GetQuestionParams struct {
	ID int64 `json:"id" form:"id"`
}

type IncrementViewsParams struct {
	QuestionID int64 `json:"questionId"`
}

type GetTagQuestionsParams struct {
	PaginatedParams
	TagID int64 `json:"tagId" form:"tagId"`
}

type CreateAnswerParams struct {
	Content    string `json:"content"`
	QuestionID int64  `json:"question_id"`
}

type GetAnswersParams struct {
	PaginatedParams
	QuestionID int64 `json:"question_id" form:"question_id"`
}

type CreateVoteParams struct {
	TargetID   int64             `json:"targetId"`
	TargetType models.TargetType `json:"targetType"`
	VoteType   models.VoteType   `json:"voteType"`
}

type HasVotedParams struct {
	TargetID   int64             `json:"targetId" form:"targetId"`
	TargetType models.TargetType `json:"targetType" form:"targetType"`
}

type CollectionParams struct {
	QuestionID int64 `json:"questionId"`
}

type GetUserParams struct {
	ID int64 `json:"id"`
}

type SignUpParams struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OAuthSignInParams is what a provider callback learned about the user.
type OAuthSignInParams struct {
	Provider          models.Provider `json:"provider"`
	ProviderAccountID string          `json:"providerAccountId"`
	Name              string          `json:"name"`
	Username          string          `json:"username"`
	Email             string          `json:"email"`
	Image             string          `json:"image"`
}

type AIAnswerParams struct {
	Question   string `json:"question"`
	Content    string `json:"content"`
	UserAnswer string `json:"userAnswer"`
}

// normalizeTags trims tags and drops case-insensitive duplicates, keeping the first
// spelling seen. A blank tag is kept once as "" so validation can reject it.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := models.TagKey(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
