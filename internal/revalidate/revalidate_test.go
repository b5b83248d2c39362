package revalidate

import (
	"context"
	"testing"

	"devflow/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestPathDeletesOnlyMatchingKeys(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	mr.Set("page:/questions/12", "a")
	mr.Set("page:/questions/12?tab=votes", "b")
	mr.Set("page:/questions/13", "c")
	mr.Set("session:abc", "d")

	New(rdb, nil).Path(context.Background(), "/questions/12")

	if mr.Exists("page:/questions/12") || mr.Exists("page:/questions/12?tab=votes") {
		t.Error("matching keys should be deleted")
	}
	if !mr.Exists("page:/questions/13") || !mr.Exists("session:abc") {
		t.Error("unrelated keys must be kept")
	}
}

func TestPathKeepsSiblingPrefixes(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	mr.Set("page:/questions/1", "a")
	mr.Set("page:/questions/1?sort=new", "b")
	mr.Set("page:/questions/1/answers", "c")
	mr.Set("page:/questions/12", "d")
	mr.Set("page:/questions/1x", "e")
	mr.Set("page:/questions/100?sort=new", "f")

	New(rdb, nil).Path(context.Background(), "/questions/1")

	for _, key := range []string{"page:/questions/1", "page:/questions/1?sort=new", "page:/questions/1/answers"} {
		if mr.Exists(key) {
			t.Errorf("%s should be deleted", key)
		}
	}
	for _, key := range []string{"page:/questions/12", "page:/questions/1x", "page:/questions/100?sort=new"} {
		if !mr.Exists(key) {
			t.Errorf("%s must be kept", key)
		}
	}
}

func TestPathEscapesGlobCharacters(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	mr.Set("page:/tags/c*", "a")
	mr.Set("page:/tags/cpp", "b")

	New(rdb, nil).Path(context.Background(), "/tags/c*")

	if mr.Exists("page:/tags/c*") {
		t.Error("exact key should be deleted")
	}
	if !mr.Exists("page:/tags/cpp") {
		t.Error("* in the path must not act as a wildcard")
	}
}

func TestPathSwallowsRedisFailure(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	mr.Close()

	// must return without panicking
	New(rdb, nil).Path(context.Background(), "/questions/1")
}

func TestNewWithoutRedisIsNoop(t *testing.T) {
	if _, ok := New(nil, nil).(Noop); !ok {
		t.Error("expected Noop revalidator without a client")
	}
	if NewClient(config.Redis{}) != nil {
		t.Error("expected nil client without an address")
	}
}
