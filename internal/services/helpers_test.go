package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"devflow/internal/api"
	"devflow/internal/config"
	"devflow/internal/logger"
	"devflow/internal/session"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// =============================================================================
// Fake backend
// =============================================================================

type fakeBackend struct {
	t      *testing.T
	mu     sync.Mutex
	calls  []string
	bodies map[string][]byte
	routes map[string]http.HandlerFunc
}

func newFakeBackend(t *testing.T) (*fakeBackend, Deps) {
	t.Helper()
	f := &fakeBackend{t: t, bodies: map[string][]byte{}, routes: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	client := api.New(config.Backend{BaseURL: srv.URL, Timeout: time.Second})
	return f, Deps{API: client, Revalidate: &recordingRevalidator{}, AtomicViews: true}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	var body []byte
	if r.Body != nil {
		body, _ = readAll(r)
	}

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.bodies[key] = body
	h, ok := f.routes[key]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found"}`))
		return
	}
	h(w, r)
}

func readAll(r *http.Request) ([]byte, error) {
	var raw json.RawMessage
	err := json.NewDecoder(r.Body).Decode(&raw)
	return raw, err
}

// reply registers a JSON response for "METHOD /api/v1/path".
func (f *fakeBackend) reply(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" /api/v1"+path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func (f *fakeBackend) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" /api/v1"+path] = h
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) called(method, path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == method+" /api/v1"+path {
			return true
		}
	}
	return false
}

// sent decodes the last body sent to "METHOD /api/v1/path" into out.
func (f *fakeBackend) sent(method, path string, out any) {
	f.t.Helper()
	f.mu.Lock()
	raw := f.bodies[method+" /api/v1"+path]
	f.mu.Unlock()
	if err := json.Unmarshal(raw, out); err != nil {
		f.t.Fatalf("decode body of %s %s: %v", method, path, err)
	}
}

// =============================================================================
// Test doubles
// =============================================================================

type recordingRevalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingRevalidator) Path(_ context.Context, path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

type recordingWriter struct {
	logins  []*session.Session
	logouts int
}

func (w *recordingWriter) Login(s *session.Session) error {
	w.logins = append(w.logins, s)
	return nil
}

func (w *recordingWriter) Logout() error {
	w.logouts++
	return nil
}

func signedIn(userID int64) session.Provider {
	return session.Static(&session.Session{UserID: userID})
}

func anonymous() session.Provider {
	return session.Static(nil)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })
	return logs
}

func int64p(v int64) *int64 { return &v }

func staticSession(userID int64, providerAccountID string) session.Provider {
	return session.Static(&session.Session{UserID: userID, ProviderAccountID: providerAccountID})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
