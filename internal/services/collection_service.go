package services

import (
	"context"

	"devflow/internal/action"
	"devflow/internal/httperr"
	"devflow/internal/logger"
	"devflow/internal/session"

	"go.uber.org/zap"
)

type SavedStatus struct {
	Saved bool `json:"saved"`
}

type CollectionService struct {
	deps      Deps
	questions *QuestionService
}

func NewCollectionService(d Deps, questions *QuestionService) *CollectionService {
	return &CollectionService{deps: d, questions: questions}
}

// ToggleSaveQuestion saves the question for the caller, or un-saves it if already saved.
func (s *CollectionService) ToggleSaveQuestion(ctx context.Context, sessions session.Provider, p CollectionParams) action.Response[SavedStatus] {
	params, userID, _, err := authorize(ctx, s.deps, sessions, p, CollectionSchema)
	if err != nil {
		return action.Fail[SavedStatus](err)
	}

	if q := s.questions.GetQuestion(ctx, GetQuestionParams{ID: params.QuestionID}); !q.Success {
		return action.Propagate[SavedStatus](q)
	}

	state, err := s.deps.API.Collections.Toggle(ctx, userID, params.QuestionID)
	if err != nil {
		return action.Fail[SavedStatus](err)
	}
	s.deps.revalidator().Path(ctx, questionPath(params.QuestionID))
	if state != nil {
		return action.OK(SavedStatus{Saved: *state})
	}

	// The toggle has committed; a failed read-back must not turn it into a failure,
	// or a retry would undo it.
	saved, err := s.saved(ctx, userID, params.QuestionID)
	if err != nil {
		logger.L().Warn("saved status unknown after toggle",
			zap.Int64("user_id", userID), zap.Int64("question_id", params.QuestionID), zap.Error(err))
	}
	return action.OK(SavedStatus{Saved: saved})
}

func (s *CollectionService) HasSavedQuestion(ctx context.Context, sessions session.Provider, p CollectionParams) action.Response[SavedStatus] {
	params, userID, _, err := authorize(ctx, s.deps, sessions, p, CollectionSchema)
	if err != nil {
		return action.Fail[SavedStatus](err)
	}

	saved, err := s.saved(ctx, userID, params.QuestionID)
	if err != nil {
		return action.Fail[SavedStatus](err)
	}
	return action.OK(SavedStatus{Saved: saved})
}

// GetSavedQuestions lists the caller's saved questions.
func (s *CollectionService) GetSavedQuestions(ctx context.Context, sessions session.Provider, p PaginatedParams) action.Response[QuestionsPage] {
	params, userID, _, err := authorize(ctx, s.deps, sessions, p, PaginatedSchema)
	if err != nil {
		return action.Fail[QuestionsPage](err)
	}

	page, err := s.deps.API.Collections.ListSaved(ctx, userID, params.listQuery())
	if err != nil {
		return action.Fail[QuestionsPage](err)
	}
	return action.OK(QuestionsPage{
		Questions:      page.Items,
		IsNext:         isNext(params.Page, params.PageSize, len(page.Items), page.Total),
		TotalQuestions: totalOf(page.Total, len(page.Items)),
	})
}

func (s *CollectionService) saved(ctx context.Context, userID, questionID int64) (bool, error) {
	_, err := s.deps.API.Collections.Get(ctx, userID, questionID)
	if httperr.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}
