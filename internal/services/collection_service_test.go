package services

import (
	"context"
	"net/http"
	"testing"

	"devflow/internal/models"
)

func TestToggleSave_UnauthenticatedNoMutation(t *testing.T) {
	backend, deps := newFakeBackend(t)
	svc := NewCollectionService(deps, NewQuestionService(deps))

	res := svc.ToggleSaveQuestion(context.Background(), anonymous(), CollectionParams{QuestionID: 3})
	if res.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", res)
	}
	if backend.callCount() != 0 {
		t.Errorf("backend must not be called, got %v", backend.calls)
	}
}

func TestToggleSave_MissingQuestion(t *testing.T) {
	logs := observeLogs(t)
	backend, deps := newFakeBackend(t)
	svc := NewCollectionService(deps, NewQuestionService(deps))

	res := svc.ToggleSaveQuestion(context.Background(), signedIn(7), CollectionParams{QuestionID: 3})
	if res.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %+v", res)
	}
	if backend.called(http.MethodPost, "/user_collection/toggle/7/3") {
		t.Error("toggle must not run for a missing question")
	}
	if logs.Len() != 1 {
		t.Errorf("failure should be logged once, got %d entries", logs.Len())
	}
}

func TestToggleSave_Saved(t *testing.T) {
	backend, deps := newFakeBackend(t)
	backend.reply(http.MethodGet, "/question/load/3", http.StatusOK, models.Question{ID: 3})
	backend.reply(http.MethodPost, "/user_collection/toggle/7/3", http.StatusAccepted, map[string]string{"message": "ok"})
	backend.reply(http.MethodGet, "/user_collection/load/7/3", http.StatusOK, models.UserCollection{UserID: 7, QuestionID: 3})
	svc := NewCollectionService(deps, NewQuestionService(deps))

	res := svc.ToggleSaveQuestion(context.Background(), signedIn(7), CollectionParams{QuestionID: 3})
	if !res.Success || !res.Data.Saved {
		t.Fatalf("expected saved, got %+v", res)
	}
	if paths := deps.Revalidate.(*recordingRevalidator).paths; len(paths) != 1 || paths[0] != "/questions/3" {
		t.Errorf("expected revalidation, got %v", paths)
	}
}

func TestToggleSave_UsesToggleReply(t *testing.T) {
	backend, deps := newFakeBackend(t)
	backend.reply(http.MethodGet, "/question/load/3", http.StatusOK, models.Question{ID: 3})
	backend.reply(http.MethodPost, "/user_collection/toggle/7/3", http.StatusOK, map[string]bool{"saved": false})
	svc := NewCollectionService(deps, NewQuestionService(deps))

	res := svc.ToggleSaveQuestion(context.Background(), signedIn(7), CollectionParams{QuestionID: 3})
	if !res.Success || res.Data.Saved {
		t.Fatalf("expected unsaved from the toggle reply, got %+v", res)
	}
	if backend.called(http.MethodGet, "/user_collection/load/7/3") {
		t.Error("status should not be re-read when the toggle reports it")
	}
}

func TestToggleSave_ReadBackFailureStillSucceeds(t *testing.T) {
	logs := observeLogs(t)
	backend, deps := newFakeBackend(t)
	backend.reply(http.MethodGet, "/question/load/42", http.StatusOK, models.Question{ID: 42})
	backend.reply(http.MethodPost, "/user_collection/toggle/7/42", http.StatusOK, map[string]string{"message": "ok"})
	backend.reply(http.MethodGet, "/user_collection/load/7/42", http.StatusInternalServerError, map[string]string{"detail": "boom"})
	svc := NewCollectionService(deps, NewQuestionService(deps))

	res := svc.ToggleSaveQuestion(context.Background(), signedIn(7), CollectionParams{QuestionID: 42})
	if !res.Success || res.Status != http.StatusOK {
		t.Fatalf("a committed toggle must succeed, got %+v", res)
	}
	if !backend.called(http.MethodPost, "/user_collection/toggle/7/42") {
		t.Error("toggle was not sent")
	}
	if logs.FilterMessage("saved status unknown after toggle").Len() != 1 {
		t.Errorf("expected one warning, got %v", logs.All())
	}
}

func TestHasSavedQuestion(t *testing.T) {
	backend, deps := newFakeBackend(t)
	svc := NewCollectionService(deps, NewQuestionService(deps))

	res := svc.HasSavedQuestion(context.Background(), signedIn(7), CollectionParams{QuestionID: 3})
	if !res.Success || res.Data.Saved {
		t.Fatalf("missing collection row should be not saved, got %+v", res)
	}

	backend.reply(http.MethodGet, "/user_collection/load/7/3", http.StatusOK, models.UserCollection{ID: 1})
	res = svc.HasSavedQuestion(context.Background(), signedIn(7), CollectionParams{QuestionID: 3})
	if !res.Success || !res.Data.Saved {
		t.Fatalf("expected saved, got %+v", res)
	}
}

func TestGetSavedQuestions(t *testing.T) {
	backend, deps := newFakeBackend(t)
	backend.handle(http.MethodPost, "/user_collection/user-collection", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_id") != "7" {
			t.Errorf("expected user_id=7, got %s", r.URL.RawQuery)
		}
		writeJSON(w, map[string]any{"questions": []models.Question{{ID: 1}, {ID: 2}}, "total": 2})
	})
	svc := NewCollectionService(deps, NewQuestionService(deps))

	res := svc.GetSavedQuestions(context.Background(), signedIn(7), PaginatedParams{})
	if !res.Success || len(res.Data.Questions) != 2 || res.Data.IsNext {
		t.Fatalf("unexpected result %+v", res)
	}
}
