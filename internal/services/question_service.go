package services

import (
	"context"
	"time"

	"devflow/internal/action"
	"devflow/internal/models"
	"devflow/internal/session"
	"devflow/internal/utils"
)

type QuestionsPage struct {
	Questions      []models.Question `json:"questions"`
	IsNext         bool              `json:"isNext"`
	TotalQuestions int64             `json:"totalQuestions"`
}

type ViewsResult struct {
	Views int64 `json:"views"`
}

type QuestionService struct {
	deps Deps
}

func NewQuestionService(d Deps) *QuestionService {
	return &QuestionService{deps: d}
}

// CreateQuestion posts a question authored by the signed-in user. The author is
// always the acting user, whatever the caller sent.
func (s *QuestionService) CreateQuestion(ctx context.Context, sessions session.Provider, p CreateQuestionParams) action.Response[models.Question] {
	params, userID, _, err := authorize(ctx, s.deps, sessions, p, CreateQuestionSchema)
	if err != nil {
		return action.Fail[models.Question](err)
	}

	q, err := s.deps.API.Questions.Create(ctx, models.QuestionCreate{
		Title:    params.Title,
		Content:  params.Content,
		AuthorID: userID,
		Tags:     params.Tags,
	})
	if err != nil {
		return action.Fail[models.Question](err)
	}
	return action.OK(q)
}

// EditQuestion replaces title, content and tags. Any signed-in user may edit; the
// backend exposes no ownership check.
func (s *QuestionService) EditQuestion(ctx context.Context, sessions session.Provider, p EditQuestionParams) action.Response[models.Question] {
	res, err := action.Run(ctx, action.Options[EditQuestionParams]{
		Params: &p, Schema: EditQuestionSchema, Authorize: true, Sessions: sessions,
	})
	if err != nil {
		return action.Fail[models.Question](err)
	}
	params := res.Params

	q, err := s.deps.API.Questions.Update(ctx, params.ID, models.QuestionUpdate{
		Title:   &params.Title,
		Content: &params.Content,
		Tags:    params.Tags,
	})
	if err != nil {
		return action.Fail[models.Question](err)
	}
	s.deps.revalidator().Path(ctx, questionPath(params.ID))
	return action.OK(q)
}

func (s *QuestionService) GetQuestion(ctx context.Context, p GetQuestionParams) action.Response[models.Question] {
	params, err := validate(ctx, p, GetQuestionSchema)
	if err != nil {
		return action.Fail[models.Question](err)
	}

	q, err := s.deps.API.Questions.Get(ctx, params.ID)
	if err != nil {
		return action.Fail[models.Question](err)
	}
	q.ContentHTML = utils.RenderMarkdown(q.Content)
	return action.OK(q)
}

func (s *QuestionService) GetQuestions(ctx context.Context, p PaginatedParams) action.Response[QuestionsPage] {
	params, err := validate(ctx, p, PaginatedSchema)
	if err != nil {
		return action.Fail[QuestionsPage](err)
	}

	page, err := s.deps.API.Questions.List(ctx, params.listQuery())
	if err != nil {
		return action.Fail[QuestionsPage](err)
	}
	return action.OK(QuestionsPage{
		Questions:      page.Items,
		IsNext:         isNext(params.Page, params.PageSize, len(page.Items), page.Total),
		TotalQuestions: totalOf(page.Total, len(page.Items)),
	})
}

// IncrementViews adds one view. With atomic views disabled it falls back to
// read-then-write, which can lose concurrent increments.
func (s *QuestionService) IncrementViews(ctx context.Context, p IncrementViewsParams) action.Response[ViewsResult] {
	params, err := validate(ctx, p, IncrementViewsSchema)
	if err != nil {
		return action.Fail[ViewsResult](err)
	}

	if s.deps.AtomicViews {
		q, err := s.deps.API.Questions.IncrementViews(ctx, params.QuestionID)
		if err != nil {
			return action.Fail[ViewsResult](err)
		}
		return action.OK(ViewsResult{Views: q.Views})
	}

	q, err := s.deps.API.Questions.Get(ctx, params.QuestionID)
	if err != nil {
		return action.Fail[ViewsResult](err)
	}
	views := q.Views + 1
	updated, err := s.deps.API.Questions.Update(ctx, params.QuestionID, models.QuestionUpdate{Views: &views})
	if err != nil {
		return action.Fail[ViewsResult](err)
	}
	return action.OK(ViewsResult{Views: updated.Views})
}

// IncrementViewsAfter runs IncrementViews detached from ctx's cancellation so it can
// outlive the request that scheduled it.
func (s *QuestionService) IncrementViewsAfter(ctx context.Context, questionID int64, timeout time.Duration) <-chan action.Response[ViewsResult] {
	done := make(chan action.Response[ViewsResult], 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		done <- s.IncrementViews(ctx, IncrementViewsParams{QuestionID: questionID})
	}()
	return done
}
