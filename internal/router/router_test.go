package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"devflow/internal/api"
	"devflow/internal/config"
	"devflow/internal/services"
	"devflow/internal/session"
)

func newTestRouter(t *testing.T, perMinute int) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Server:    config.Server{GinMode: "test", AllowedOrigins: []string{"http://localhost:3000"}},
		Backend:   config.Backend{Timeout: time.Second},
		Session:   config.Session{Secret: "router-test-secret", CookieName: "devflow_session", JWTExpiry: time.Hour},
		RateLimit: config.RateLimit{AuthPerMinute: perMinute, MaxClients: 16},
	}
	states, err := session.NewMemoryStates(16, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	svc := services.New(services.Deps{API: api.New(cfg.Backend)}, nil, services.NewLLMService(cfg.LLM))
	return Setup(cfg, Deps{Services: svc, States: states})
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, 30)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Header().Get("X-Request-ID") == "" {
		t.Errorf("health: %d, request id %q", w.Code, w.Header().Get("X-Request-ID"))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Errorf("metrics endpoint not served: %d", w.Code)
	}
}

func TestMissingBackendIsServerError(t *testing.T) {
	r := newTestRouter(t, 30)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/questions", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 without API_BASE_URL, got %d", w.Code)
	}
}

func TestAuthIsRateLimited(t *testing.T) {
	r := newTestRouter(t, 2)

	last := 0
	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", last)
	}
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t, 30)
	req := httptest.NewRequest(http.MethodOptions, "/api/questions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("missing CORS header, got %v", w.Header())
	}
}
