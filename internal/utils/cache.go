package utils

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a bounded LRU whose entries also expire after a TTL. Only process-local
// bookkeeping (such as rate limiters) lives here, never backend entities.
type TTLCache[V any] struct {
	mu  sync.Mutex
	lru *lru.Cache[string, cacheItem[V]]
	ttl time.Duration
	now func() time.Time
}

func NewTTLCache[V any](size int, ttl time.Duration) (*TTLCache[V], error) {
	l, err := lru.New[string, cacheItem[V]](size)
	if err != nil {
		return nil, err
	}
	return &TTLCache[V]{lru: l, ttl: ttl, now: time.Now}, nil
}

// GetOrCreate returns the live entry for key, creating it with create when missing or
// expired. Each hit extends the entry's TTL.
func (c *TTLCache[V]) GetOrCreate(key string, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if item, ok := c.lru.Get(key); ok && now.Before(item.expiresAt) {
		item.expiresAt = now.Add(c.ttl)
		c.lru.Add(key, item)
		return item.value
	}

	v := create()
	c.lru.Add(key, cacheItem[V]{value: v, expiresAt: now.Add(c.ttl)})
	return v
}

// Get returns the value for key if present and not expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(item.expiresAt) {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return item.value, true
}

// Take returns the live value for key and removes it in the same critical section, so
// concurrent callers see at most one hit.
func (c *TTLCache[V]) Take(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	item, ok := c.lru.Peek(key)
	if !ok {
		return zero, false
	}
	c.lru.Remove(key)
	if c.now().After(item.expiresAt) {
		return zero, false
	}
	return item.value, true
}

func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	c.lru.Remove(key)
	c.mu.Unlock()
}

func (c *TTLCache[V]) Len() int {
	return c.lru.Len()
}
