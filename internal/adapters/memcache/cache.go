// Package memcache is an in-process ports.CacheService used when valkey is
// unavailable.
package memcache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// maxTTL bounds every entry; per-key TTLs shorter than this are honoured on read.
const maxTTL = time.Hour

type entry struct {
	value   []byte
	expires time.Time
}

// Cache is a size-bounded LRU with per-entry expiry.
type Cache struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, entry]
	now func() time.Time
}

// New creates a cache holding at most size entries.
func New(size int) *Cache {
	if size <= 0 {
		size = 256
	}
	return &Cache{
		lru: expirable.NewLRU[string, entry](size, nil, maxTTL),
		now: time.Now,
	}
}

// Get returns domain.ErrNotFound for missing or expired keys.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if c.now().After(e.expires) {
		c.lru.Remove(key)
		return nil, domain.ErrNotFound
	}
	return e.value, nil
}

// Set stores a copy of value with a TTL in seconds.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 || ttl > maxTTL {
		ttl = maxTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, entry{value: append([]byte(nil), value...), expires: c.now().Add(ttl)})
	return nil
}

// Delete removes a key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
	return nil
}
