package services

import (
	"context"

	"devflow/internal/action"
	"devflow/internal/models"
)

type UsersPage struct {
	Users      []models.User `json:"users"`
	IsNext     bool          `json:"isNext"`
	TotalUsers int64         `json:"totalUsers"`
}

type UserService struct {
	deps Deps
}

func NewUserService(d Deps) *UserService {
	return &UserService{deps: d}
}

func (s *UserService) GetUsers(ctx context.Context, p PaginatedParams) action.Response[UsersPage] {
	params, err := validate(ctx, p, PaginatedSchema)
	if err != nil {
		return action.Fail[UsersPage](err)
	}

	page, err := s.deps.API.Users.List(ctx, params.listQuery())
	if err != nil {
		return action.Fail[UsersPage](err)
	}
	return action.OK(UsersPage{
		Users:      page.Items,
		IsNext:     isNext(params.Page, params.PageSize, len(page.Items), page.Total),
		TotalUsers: totalOf(page.Total, len(page.Items)),
	})
}

func (s *UserService) GetUser(ctx context.Context, p GetUserParams) action.Response[models.User] {
	params, err := validate(ctx, p, GetUserSchema)
	if err != nil {
		return action.Fail[models.User](err)
	}

	u, err := s.deps.API.Users.Get(ctx, params.ID)
	if err != nil {
		return action.Fail[models.User](err)
	}
	return action.OK(u)
}
