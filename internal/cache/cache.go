// Package cache is an in-memory, TTL-based key/value cache.
package cache

import (
	"context"
	"sync"
	"time"
)

type item[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiry
}

func (i item[V]) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// Cache holds values until their TTL lapses. A janitor goroutine evicts
// expired entries every cleanup interval until Close is called.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]item[V]
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache. A cleanup interval <= 0 disables the janitor.
func New[K comparable, V any](cleanup time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		items: make(map[K]item[V]),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if cleanup > 0 {
		go c.janitor(cleanup)
	}
	return c
}

// Get returns the value for key if present and not expired.
func (c *Cache[K, V]) Get(_ context.Context, key K) (V, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || it.expired(c.now()) {
		var zero V
		return zero, false
	}
	return it.value, true
}

// Set stores value under key. ttl <= 0 keeps it for the cache's lifetime.
func (c *Cache[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) {
	it := item[V]{value: value}
	if ttl > 0 {
		it.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.items[key] = it
	c.mu.Unlock()
}

// Delete removes key.
func (c *Cache[K, V]) Delete(_ context.Context, key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len counts entries, expired ones included until the janitor runs.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the janitor. It is safe to call more than once.
func (c *Cache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[K, V]) janitor(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-t.C:
			c.evictExpired()
		}
	}
}

func (c *Cache[K, V]) evictExpired() {
	now := c.now()
	c.mu.Lock()
	for k, it := range c.items {
		if it.expired(now) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}
