package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"devflow/internal/utils"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "oauth:state:"

// StateStore keeps single-use OAuth state tokens between the redirect to a provider
// and its callback.
type StateStore interface {
	Save(ctx context.Context, state string) error
	// Consume reports whether state was issued and not yet used, and invalidates it.
	Consume(ctx context.Context, state string) bool
}

// NewState returns a random URL-safe state token.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// RedisStates shares state across instances. GETDEL keeps tokens single-use.
type RedisStates struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStates(rdb *redis.Client, ttl time.Duration) *RedisStates {
	return &RedisStates{rdb: rdb, ttl: ttl}
}

func (s *RedisStates) Save(ctx context.Context, state string) error {
	return s.rdb.Set(ctx, stateKeyPrefix+state, "1", s.ttl).Err()
}

func (s *RedisStates) Consume(ctx context.Context, state string) bool {
	if state == "" {
		return false
	}
	v, err := s.rdb.GetDel(ctx, stateKeyPrefix+state).Result()
	return err == nil && v != ""
}

// MemoryStates is for single-instance deployments.
type MemoryStates struct {
	cache *utils.TTLCache[struct{}]
}

func NewMemoryStates(size int, ttl time.Duration) (*MemoryStates, error) {
	cache, err := utils.NewTTLCache[struct{}](size, ttl)
	if err != nil {
		return nil, err
	}
	return &MemoryStates{cache: cache}, nil
}

func (s *MemoryStates) Save(_ context.Context, state string) error {
	s.cache.GetOrCreate(state, func() struct{} { return struct{}{} })
	return nil
}

func (s *MemoryStates) Consume(_ context.Context, state string) bool {
	_, ok := s.cache.Take(state)
	return ok
}
