package services

import (
	"context"

	"devflow/internal/action"
	"devflow/internal/models"
	"devflow/internal/session"
	"devflow/internal/utils"
)

type AnswersPage struct {
	Answers      []models.Answer `json:"answers"`
	IsNext       bool            `json:"isNext"`
	TotalAnswers int64           `json:"totalAnswers"`
}

type AnswerService struct {
	deps Deps
}

func NewAnswerService(d Deps) *AnswerService {
	return &AnswerService{deps: d}
}

func (s *AnswerService) CreateAnswer(ctx context.Context, sessions session.Provider, p CreateAnswerParams) action.Response[models.Answer] {
	params, userID, _, err := authorize(ctx, s.deps, sessions, p, CreateAnswerSchema)
	if err != nil {
		return action.Fail[models.Answer](err)
	}

	a, err := s.deps.API.Answers.Create(ctx, models.AnswerCreate{
		Content:    params.Content,
		QuestionID: params.QuestionID,
		UserID:     userID,
	})
	if err != nil {
		return action.Fail[models.Answer](err)
	}
	s.deps.revalidator().Path(ctx, questionPath(params.QuestionID))
	return action.OK(a)
}

func (s *AnswerService) GetAnswers(ctx context.Context, p GetAnswersParams) action.Response[AnswersPage] {
	params, err := validate(ctx, p, GetAnswersSchema)
	if err != nil {
		return action.Fail[AnswersPage](err)
	}

	page, err := s.deps.API.Answers.ListForQuestion(ctx, params.QuestionID, params.listQuery())
	if err != nil {
		return action.Fail[AnswersPage](err)
	}
	for i := range page.Items {
		page.Items[i].ContentHTML = utils.RenderMarkdown(page.Items[i].Content)
	}
	return action.OK(AnswersPage{
		Answers:      page.Items,
		IsNext:       isNext(params.Page, params.PageSize, len(page.Items), page.Total),
		TotalAnswers: totalOf(page.Total, len(page.Items)),
	})
}
