// Package revalidate drops cached presentation pages after a mutation.
package revalidate

import (
	"context"
	"strings"
	"time"

	"devflow/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix is the namespace of cached pages, e.g. "page:/questions/12".
const KeyPrefix = "page:"

// Revalidator invalidates cached views of a path. It is best-effort: callers never
// see an error.
type Revalidator interface {
	Path(ctx context.Context, path string)
}

// Noop is used when no cache is configured.
type Noop struct{}

func (Noop) Path(context.Context, string) {}

// Redis deletes every key under page:<path> with SCAN + DEL.
type Redis struct {
	rdb     *redis.Client
	log     *zap.Logger
	timeout time.Duration
}

func NewRedis(rdb *redis.Client, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{rdb: rdb, log: log, timeout: 3 * time.Second}
}

// New picks the Redis revalidator when Redis is configured, otherwise Noop.
func New(rdb *redis.Client, log *zap.Logger) Revalidator {
	if rdb == nil {
		return Noop{}
	}
	return NewRedis(rdb, log)
}

// NewClient builds the shared redis client, or nil when cfg has no address.
func NewClient(cfg config.Redis) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Path deletes page:<path> itself plus its query variants (page:<path>?...) and nested
// pages (page:<path>/...). Sibling paths sharing a prefix are kept.
func (r *Redis) Path(ctx context.Context, path string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	deleted, err := r.rdb.Del(ctx, KeyPrefix+path).Result()
	if err != nil {
		r.log.Warn("revalidate delete failed", zap.String("path", path), zap.Error(err))
		return
	}
	base := KeyPrefix + escapeGlob(path)
	for _, pattern := range []string{base + `\?*`, base + "/*"} {
		n, err := r.deleteMatching(ctx, pattern)
		deleted += n
		if err != nil {
			r.log.Warn("revalidate scan failed", zap.String("path", path), zap.Error(err))
			return
		}
	}
	r.log.Debug("revalidated", zap.String("path", path), zap.Int64("keys", deleted))
}

func (r *Redis) deleteMatching(ctx context.Context, pattern string) (int64, error) {
	var (
		cursor  uint64
		deleted int64
	)
	for i := 0; i < 10; i++ { // bounded rounds
		keys, next, err := r.rdb.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := r.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}

// escapeGlob quotes the characters SCAN MATCH treats as wildcards.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
