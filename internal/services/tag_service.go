package services

import (
	"context"

	"devflow/internal/action"
	"devflow/internal/models"
)

type TagsPage struct {
	Tags   []models.Tag `json:"tags"`
	IsNext bool         `json:"isNext"`
}

type TagQuestionsPage struct {
	Tag       models.Tag        `json:"tag"`
	Questions []models.Question `json:"questions"`
	IsNext    bool              `json:"isNext"`
}

type TagService struct {
	deps Deps
}

func NewTagService(d Deps) *TagService {
	return &TagService{deps: d}
}

func (s *TagService) GetTags(ctx context.Context, p PaginatedParams) action.Response[TagsPage] {
	params, err := validate(ctx, p, PaginatedSchema)
	if err != nil {
		return action.Fail[TagsPage](err)
	}

	page, err := s.deps.API.Tags.List(ctx, params.listQuery())
	if err != nil {
		return action.Fail[TagsPage](err)
	}
	return action.OK(TagsPage{
		Tags:   page.Items,
		IsNext: isNext(params.Page, params.PageSize, len(page.Items), page.Total),
	})
}

func (s *TagService) GetTagQuestions(ctx context.Context, p GetTagQuestionsParams) action.Response[TagQuestionsPage] {
	params, err := validate(ctx, p, GetTagQuestionsSchema)
	if err != nil {
		return action.Fail[TagQuestionsPage](err)
	}

	tag, err := s.deps.API.Tags.Get(ctx, params.TagID)
	if err != nil {
		return action.Fail[TagQuestionsPage](err)
	}
	page, err := s.deps.API.Tags.Questions(ctx, params.TagID, params.listQuery())
	if err != nil {
		return action.Fail[TagQuestionsPage](err)
	}
	return action.OK(TagQuestionsPage{
		Tag:       tag,
		Questions: page.Items,
		IsNext:    isNext(params.Page, params.PageSize, len(page.Items), page.Total),
	})
}
