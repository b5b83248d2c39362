package httperr

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError(map[string][]string{"title": {"required"}}), http.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError(), http.StatusUnauthorized},
		{"not found", NewNotFoundError("Question"), http.StatusNotFound},
		{"wrapped conflict", fmt.Errorf("create account: %w", NewConflictError("User already exists")), http.StatusConflict},
		{"timeout", &TimeoutError{URL: "http://backend/x", After: time.Second}, http.StatusGatewayTimeout},
		{"plain", fmt.Errorf("boom"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFoundError("Question")
	if err.Message != "Question not found" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if !IsNotFound(fmt.Errorf("load: %w", err)) {
		t.Error("expected wrapped error to be reported as not found")
	}
}
