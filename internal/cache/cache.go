// Package cache provides the short-lived read-through cache that sits in front
// of the store queries.
package cache

import (
	"context"
	"sync"
	"time"
)

// Observer is notified of cache lookups.
type Observer interface {
	CacheHit(name string)
	CacheMiss(name string)
}

// NoopObserver ignores lookups.
type NoopObserver struct{}

// CacheHit performs no action.
func (NoopObserver) CacheHit(string) {}

// CacheMiss performs no action.
func (NoopObserver) CacheMiss(string) {}

// Invalidator drops cached snapshots.
type Invalidator interface {
	Flush()
}

type entry[T any] struct {
	val T
	exp time.Time
}

// Cache maps query signatures to snapshots that expire after a fixed TTL.
// It is safe for concurrent use.
type Cache[T any] struct {
	name string
	ttl  time.Duration
	obs  Observer
	now  func() time.Time

	mu sync.RWMutex
	m  map[string]entry[T]
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	obs Observer
	now func() time.Time
}

// WithObserver reports hits and misses to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.obs = obs }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New builds a cache. A non-positive ttl disables caching.
func New[T any](name string, ttl time.Duration, opts ...Option) *Cache[T] {
	o := options{obs: NoopObserver{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[T]{
		name: name,
		ttl:  ttl,
		obs:  o.obs,
		now:  o.now,
		m:    make(map[string]entry[T]),
	}
}

// Get returns the live snapshot for key.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.exp) {
		c.obs.CacheMiss(c.name)
		return zero, false
	}
	c.obs.CacheHit(c.name)
	return e.val, true
}

// Set stores v under key until the TTL elapses.
func (c *Cache[T]) Set(key string, v T) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.m[key] = entry[T]{val: v, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// GetOrLoad returns the cached snapshot for key, calling load on a miss.
// Load errors are returned as-is and nothing is cached.
func (c *Cache[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Flush drops every entry.
func (c *Cache[T]) Flush() {
	c.mu.Lock()
	c.m = make(map[string]entry[T])
	c.mu.Unlock()
}

// Prune drops expired entries and returns how many were removed.
func (c *Cache[T]) Prune() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.m {
		if !now.Before(e.exp) {
			delete(c.m, k)
			removed++
		}
	}
	return removed
}

// Len reports how many entries are held, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
