package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"devflow/internal/httperr"
	"devflow/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// =============================================================================
// Chain / Static
// =============================================================================

func TestChainReturnsFirstSession(t *testing.T) {
	first := &Session{UserID: 1}
	second := &Session{UserID: 2}

	got, err := Chain(Static(nil), nil, Static(first), Static(second)).Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != first {
		t.Errorf("expected first non-nil session, got %+v", got)
	}
}

func TestChainAnonymous(t *testing.T) {
	got, err := Chain(Static(nil)).Current(context.Background())
	if err != nil || got != nil {
		t.Errorf("expected anonymous, got %+v, %v", got, err)
	}
}

func TestChainStopsOnError(t *testing.T) {
	boom := errors.New("store down")
	failing := ProviderFunc(func(context.Context) (*Session, error) { return nil, boom })

	_, err := Chain(failing, Static(&Session{UserID: 1})).Current(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected store error, got %v", err)
	}
}

// =============================================================================
// JWT
// =============================================================================

func TestIssuerRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret-with-enough-bytes", time.Hour)

	token, err := issuer.Issue(&Session{UserID: 7, Provider: models.ProviderGitHub, ProviderAccountID: "gh-1"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	s, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.UserID != 7 || s.ProviderAccountID != "gh-1" || s.Provider != models.ProviderGitHub {
		t.Errorf("unexpected session %+v", s)
	}
}

func TestIssuerRejectsExpiredAndForeignTokens(t *testing.T) {
	issuer := NewIssuer("test-secret-with-enough-bytes", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _ := issuer.Issue(&Session{UserID: 1})
	issuer.now = time.Now

	if _, err := issuer.Parse(expired); err == nil {
		t.Error("expected expired token to be rejected")
	}

	other := NewIssuer("another-secret-entirely", time.Hour)
	foreign, _ := other.Issue(&Session{UserID: 1})
	if _, err := issuer.Parse(foreign); err == nil {
		t.Error("expected token signed with another key to be rejected")
	}
}

func TestNilIssuer(t *testing.T) {
	var issuer *Issuer = NewIssuer("", time.Hour)
	if issuer != nil {
		t.Fatal("empty secret should disable the issuer")
	}
	if _, err := issuer.Issue(&Session{UserID: 1}); err == nil {
		t.Error("nil issuer should refuse to issue")
	}
}

func TestBearer(t *testing.T) {
	issuer := NewIssuer("test-secret-with-enough-bytes", time.Hour)
	token, _ := issuer.Issue(&Session{UserID: 3})

	tests := []struct {
		name   string
		header string
		want   int64
	}{
		{"valid", "Bearer " + token, 3},
		{"missing", "", 0},
		{"garbage", "Bearer not-a-token", 0},
		{"wrong scheme", "Basic abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}

			s, err := Bearer(c, issuer).Current(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got int64
			if s != nil {
				got = s.UserID
			}
			if got != tt.want {
				t.Errorf("user id = %d, want %d", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Cookie sessions
// =============================================================================

func TestCookieLoginThenCurrent(t *testing.T) {
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	r.POST("/login", func(c *gin.Context) {
		if err := Login(c, &Session{UserID: 9, Provider: models.ProviderCredentials, Email: "a@b.c"}); err != nil {
			t.Errorf("Login() error = %v", err)
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", func(c *gin.Context) {
		s, _ := Cookie(c).Current(c.Request.Context())
		if s == nil {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusOK, s)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous request: expected 401, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login should set a session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after login, got %d", w.Code)
	}
}

// =============================================================================
// Resolver
// =============================================================================

type mockAccounts struct {
	loadFunc func(ctx context.Context, id string) (models.Account, error)
	calls    int
}

func (m *mockAccounts) LoadByProviderAccountID(ctx context.Context, id string) (models.Account, error) {
	m.calls++
	if m.loadFunc != nil {
		return m.loadFunc(ctx, id)
	}
	return models.Account{}, errors.New("not implemented")
}

func TestResolverPrefersSessionUserID(t *testing.T) {
	accounts := &mockAccounts{}
	id, err := Resolver{Accounts: accounts}.UserID(context.Background(), &Session{UserID: 7, ProviderAccountID: "gh-1"})
	if err != nil || id != 7 {
		t.Fatalf("UserID() = %d, %v", id, err)
	}
	if accounts.calls != 0 {
		t.Error("backend must not be consulted when the session carries a user id")
	}
}

func TestResolverFallsBackToAccount(t *testing.T) {
	accounts := &mockAccounts{loadFunc: func(_ context.Context, id string) (models.Account, error) {
		if id != "gh-1" {
			t.Errorf("unexpected account id %q", id)
		}
		return models.Account{UserID: 42}, nil
	}}
	id, err := Resolver{Accounts: accounts}.UserID(context.Background(), &Session{ProviderAccountID: "gh-1"})
	if err != nil || id != 42 {
		t.Fatalf("UserID() = %d, %v", id, err)
	}
}

func TestResolverAnonymous(t *testing.T) {
	_, err := Resolver{}.UserID(context.Background(), nil)
	if httperr.StatusOf(err) != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

// =============================================================================
// OAuth state
// =============================================================================

func testStateStore(t *testing.T, store StateStore) {
	t.Helper()
	ctx := context.Background()
	state, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !store.Consume(ctx, state) {
		t.Error("saved state should be accepted once")
	}
	if store.Consume(ctx, state) {
		t.Error("state must be single-use")
	}
	if store.Consume(ctx, "never-issued") {
		t.Error("unknown state accepted")
	}
}

func TestMemoryStates(t *testing.T) {
	store, err := NewMemoryStates(16, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	testStateStore(t, store)
}

func TestMemoryStatesConcurrentConsume(t *testing.T) {
	store, err := NewMemoryStates(16, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	state, _ := NewState()
	store.Save(context.Background(), state)

	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Consume(context.Background(), state) {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := accepted.Load(); got != 1 {
		t.Errorf("state accepted %d times, want exactly once", got)
	}
}

func TestRedisStates(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := NewRedisStates(rdb, time.Minute)
	testStateStore(t, store)

	state, _ := NewState()
	store.Save(context.Background(), state)
	mr.FastForward(2 * time.Minute)
	if store.Consume(context.Background(), state) {
		t.Error("expired state accepted")
	}
}
