package devapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devflow/internal/api"
	"devflow/internal/config"
	"devflow/internal/db"
	"devflow/internal/httperr"
	"devflow/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestDB opens a migrated in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatal(err)
	}
	return gdb
}

// newTestClient serves a fresh in-memory database and returns a client for it.
func newTestClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(New(newTestDB(t)).Engine())
	t.Cleanup(srv.Close)
	return api.New(config.Backend{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func signUp(t *testing.T, c *api.Client, username, email string) models.Account {
	t.Helper()
	account, err := c.Accounts.SignUpWithCredentials(context.Background(), models.SignUpWithCredentials{
		Name: "Test User", Username: username, Email: email, Password: "Secret1!",
	})
	if err != nil {
		t.Fatalf("sign up %s: %v", username, err)
	}
	return account
}

func createQuestion(t *testing.T, c *api.Client, authorID int64, tags ...string) models.Question {
	t.Helper()
	q, err := c.Questions.Create(context.Background(), models.QuestionCreate{
		Title: "How do channels work?", Content: "Explain **buffered** channels.", AuthorID: authorID, Tags: tags,
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

// =============================================================================
// Accounts
// =============================================================================

func TestCredentials(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	account := signUp(t, c, "jane", "jane@example.com")
	if account.UserID == 0 || account.Provider != models.ProviderCredentials || account.ProviderAccountID != "jane@example.com" {
		t.Fatalf("unexpected account %+v", account)
	}

	_, err := c.Accounts.SignUpWithCredentials(ctx, models.SignUpWithCredentials{
		Name: "Other", Username: "jane", Email: "other@example.com", Password: "Secret1!",
	})
	if httperr.StatusOf(err) != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %v", err)
	}

	_, err = c.Accounts.SignInWithCredentials(ctx, models.SignInWithCredentials{Email: "jane@example.com", Password: "nope"})
	if httperr.StatusOf(err) != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %v", err)
	}
	_, err = c.Accounts.SignInWithCredentials(ctx, models.SignInWithCredentials{Email: "ghost@example.com", Password: "Secret1!"})
	if !httperr.IsNotFound(err) {
		t.Errorf("expected 404 for unknown email, got %v", err)
	}

	signedIn, err := c.Accounts.SignInWithCredentials(ctx, models.SignInWithCredentials{Email: "jane@example.com", Password: "Secret1!"})
	if err != nil || signedIn.UserID != account.UserID {
		t.Errorf("sign in: %+v %v", signedIn, err)
	}

	if u, err := c.Users.LoadByEmail(ctx, "jane@example.com"); err != nil || u.Username != "jane" {
		t.Errorf("load by email: %+v %v", u, err)
	}
	if _, err := c.Users.LoadByUsername(ctx, "nobody"); !httperr.IsNotFound(err) {
		t.Errorf("expected 404 for unknown username, got %v", err)
	}
}

func TestOAuthUpsert(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	in := models.SignInWithOAuth{
		Provider:          models.ProviderGitHub,
		ProviderAccountID: "gh-42",
		User:              models.UserCreate{Name: "Octo", Username: "octo-cat", Email: "octo@example.com"},
	}

	first, err := c.Accounts.SignInWithOAuth(ctx, in)
	if err != nil {
		t.Fatalf("first oauth sign-in: %v", err)
	}
	second, err := c.Accounts.SignInWithOAuth(ctx, in)
	if err != nil || second.ID != first.ID || second.UserID != first.UserID {
		t.Errorf("second sign-in should reuse the account: %+v vs %+v (%v)", second, first, err)
	}

	byProvider, err := c.Accounts.LoadByProviderAccountID(ctx, "gh-42")
	if err != nil || byProvider.UserID != first.UserID {
		t.Errorf("provider lookup: %+v %v", byProvider, err)
	}
	if u, _ := c.Users.Get(ctx, first.UserID); u.Username != "octo_cat" {
		t.Errorf("expected sanitized username, got %q", u.Username)
	}
}

// =============================================================================
// Questions / tags / answers
// =============================================================================

func TestQuestions(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	author := signUp(t, c, "author", "author@example.com")

	q := createQuestion(t, c, author.UserID, "Go", "go", "sql")
	loaded, err := c.Questions.Get(ctx, q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Tags) != 2 || loaded.Author == nil || loaded.Author.ID != author.UserID {
		t.Errorf("unexpected question %+v", loaded)
	}

	for range 2 {
		if _, err := c.Questions.IncrementViews(ctx, q.ID); err != nil {
			t.Fatal(err)
		}
	}
	if loaded, _ = c.Questions.Get(ctx, q.ID); loaded.Views != 2 {
		t.Errorf("expected 2 views, got %d", loaded.Views)
	}
	if _, err := c.Questions.IncrementViews(ctx, 999); !httperr.IsNotFound(err) {
		t.Errorf("expected 404 for missing question, got %v", err)
	}

	createQuestion(t, c, author.UserID, "go")
	page, err := c.Questions.List(ctx, models.ListQuery{Page: 1, PageSize: 1})
	if err != nil || len(page.Items) != 1 || page.Total == nil || *page.Total != 2 {
		t.Errorf("unexpected page %+v %v", page, err)
	}

	tags, err := c.Tags.List(ctx, models.ListQuery{Query: "go"})
	if err != nil || len(tags.Items) != 1 || tags.Items[0].NumQuestions != 2 {
		t.Errorf("unexpected tags %+v %v", tags, err)
	}
	tagged, err := c.Tags.Questions(ctx, tags.Items[0].ID, models.ListQuery{Page: 1, PageSize: 10})
	if err != nil || len(tagged.Items) != 2 {
		t.Errorf("unexpected tag questions %+v %v", tagged, err)
	}

	title := "Renamed question"
	updated, err := c.Questions.Update(ctx, q.ID, models.QuestionUpdate{Title: &title, Tags: []string{"rust"}})
	if err != nil || updated.Title != title {
		t.Fatalf("update: %+v %v", updated, err)
	}
	qtags, err := c.Questions.Tags(ctx, q.ID)
	if err != nil || len(qtags) != 1 || qtags[0].Name != "rust" {
		t.Errorf("expected tags replaced, got %+v %v", qtags, err)
	}
}

func TestAnswers(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	author := signUp(t, c, "author", "author@example.com")
	q := createQuestion(t, c, author.UserID, "go")

	for range 3 {
		_, err := c.Answers.Create(ctx, models.AnswerCreate{Content: "Use a buffered channel.", UserID: author.UserID, QuestionID: q.ID})
		if err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.Answers.Create(ctx, models.AnswerCreate{Content: "x", UserID: author.UserID, QuestionID: 999}); !httperr.IsNotFound(err) {
		t.Errorf("expected 404 answering a missing question, got %v", err)
	}

	page, err := c.Answers.ListForQuestion(ctx, q.ID, models.ListQuery{Page: 2, PageSize: 2})
	if err != nil || len(page.Items) != 1 || *page.Total != 3 {
		t.Errorf("unexpected answers page %+v %v", page, err)
	}
}

// =============================================================================
// Votes
// =============================================================================

func TestDoVoteToggle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	voter := signUp(t, c, "voter", "voter@example.com")
	q := createQuestion(t, c, voter.UserID)

	vote := func(vt models.VoteType) models.Question {
		t.Helper()
		err := c.Votes.DoVote(ctx, models.VoteIntent{
			UserID: voter.UserID, TargetID: q.ID, TargetType: models.TargetQuestion, VoteType: vt,
		})
		if err != nil {
			t.Fatalf("vote %s: %v", vt, err)
		}
		got, _ := c.Questions.Get(ctx, q.ID)
		return got
	}

	if got := vote(models.Upvote); got.Upvotes != 1 || got.Downvotes != 0 {
		t.Errorf("after upvote: %d/%d", got.Upvotes, got.Downvotes)
	}
	if got := vote(models.Downvote); got.Upvotes != 0 || got.Downvotes != 1 {
		t.Errorf("after switching: %d/%d", got.Upvotes, got.Downvotes)
	}
	if got := vote(models.Downvote); got.Upvotes != 0 || got.Downvotes != 0 {
		t.Errorf("after retracting: %d/%d", got.Upvotes, got.Downvotes)
	}

	_, err := c.Votes.Find(ctx, models.VoteFind{UserID: voter.UserID, TargetID: q.ID, TargetType: models.TargetQuestion})
	if !httperr.IsNotFound(err) {
		t.Errorf("expected no vote after retracting, got %v", err)
	}

	err = c.Votes.DoVote(ctx, models.VoteIntent{UserID: voter.UserID, TargetID: 999, TargetType: models.TargetAnswer, VoteType: models.Upvote})
	if !httperr.IsNotFound(err) {
		t.Errorf("expected 404 voting on a missing answer, got %v", err)
	}
}

// =============================================================================
// Collections
// =============================================================================

func TestCollections(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	user := signUp(t, c, "saver", "saver@example.com")
	q := createQuestion(t, c, user.UserID, "go")

	if _, err := c.Collections.Get(ctx, user.UserID, q.ID); !httperr.IsNotFound(err) {
		t.Fatalf("expected not saved, got %v", err)
	}
	state, err := c.Collections.Toggle(ctx, user.UserID, q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state == nil || !*state {
		t.Errorf("toggle should report saved, got %v", state)
	}
	if _, err := c.Collections.Get(ctx, user.UserID, q.ID); err != nil {
		t.Errorf("expected saved, got %v", err)
	}

	saved, err := c.Collections.ListSaved(ctx, user.UserID, models.ListQuery{Page: 1, PageSize: 10})
	if err != nil || len(saved.Items) != 1 || saved.Items[0].ID != q.ID {
		t.Errorf("unexpected saved questions %+v %v", saved, err)
	}

	state, err = c.Collections.Toggle(ctx, user.UserID, q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state == nil || *state {
		t.Errorf("second toggle should report unsaved, got %v", state)
	}
	if _, err := c.Collections.Get(ctx, user.UserID, q.ID); !httperr.IsNotFound(err) {
		t.Errorf("expected unsaved after second toggle, got %v", err)
	}
	if _, err := c.Collections.Toggle(ctx, user.UserID, 999); !httperr.IsNotFound(err) {
		t.Errorf("expected 404 saving a missing question, got %v", err)
	}
}

// =============================================================================
// Users
// =============================================================================

func TestUsersList(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	signUp(t, c, "alice", "alice@example.com")
	signUp(t, c, "bob", "bob@example.com")

	page, err := c.Users.List(ctx, models.ListQuery{Query: "ali"})
	if err != nil || len(page.Items) != 1 || page.Items[0].Username != "alice" {
		t.Errorf("unexpected users %+v %v", page, err)
	}

	name := "Alice A."
	u, err := c.Users.Update(ctx, page.Items[0].ID, models.UserUpdate{Name: &name})
	if err != nil || u.Name != name {
		t.Errorf("update: %+v %v", u, err)
	}
	if err := c.Users.Delete(ctx, u.ID); err != nil {
		t.Errorf("delete: %v", err)
	}
	if _, err := c.Users.Get(ctx, u.ID); !httperr.IsNotFound(err) {
		t.Errorf("expected deleted user to be gone, got %v", err)
	}
}

// =============================================================================
// Reputation
// =============================================================================

func TestReputation(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	asker := signUp(t, c, "asker", "asker@example.com")
	helper := signUp(t, c, "helper", "helper@example.com")

	reputation := func(userID int64) int64 {
		t.Helper()
		u, err := c.Users.Get(ctx, userID)
		if err != nil {
			t.Fatal(err)
		}
		return u.Reputation
	}

	q := createQuestion(t, c, asker.UserID)
	if got := reputation(asker.UserID); got != pointsAsk {
		t.Errorf("after asking: got %d, want %d", got, pointsAsk)
	}

	a, err := c.Answers.Create(ctx, models.AnswerCreate{Content: "Try this.", UserID: helper.UserID, QuestionID: q.ID})
	if err != nil {
		t.Fatal(err)
	}
	if got := reputation(helper.UserID); got != pointsAnswer {
		t.Errorf("after answering: got %d, want %d", got, pointsAnswer)
	}

	vote := func(vt models.VoteType) {
		t.Helper()
		err := c.Votes.DoVote(ctx, models.VoteIntent{UserID: asker.UserID, TargetID: a.ID, TargetType: models.TargetAnswer, VoteType: vt})
		if err != nil {
			t.Fatal(err)
		}
	}

	vote(models.Upvote)
	if got := reputation(helper.UserID); got != pointsAnswer+pointsUpvote {
		t.Errorf("after upvote: got %d", got)
	}
	vote(models.Downvote)
	if got := reputation(helper.UserID); got != pointsAnswer+pointsDownvote {
		t.Errorf("after switching to downvote: got %d", got)
	}
	vote(models.Downvote)
	if got := reputation(helper.UserID); got != pointsAnswer {
		t.Errorf("after retracting: got %d", got)
	}
}
