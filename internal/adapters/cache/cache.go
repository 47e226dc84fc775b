// Package cache is an explicit key -> (value, expiry) store for API responses.
// It knows nothing about scoring; callers own it and decide what to cache.
package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/devakmmm/LeetInsight/pkg/metrics"
)

const (
	defaultTTL        = 60 * time.Second
	defaultMaxEntries = 10_000
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// TTLCache stores encoded values until they expire.
type TTLCache struct {
	mu         sync.Mutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New creates a TTLCache.
func New(opts ...Option) *TTLCache {
	c := &TTLCache{
		items:      make(map[string]entry),
		ttl:        defaultTTL,
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DashboardKey is the cache key of a user's dashboard.
func DashboardKey(username string) string {
	return "dashboard:" + username
}

// InsightsKey is the cache key of a user's insights over a window.
func InsightsKey(username string, days int) string {
	return fmt.Sprintf("insights:%s:%d", username, days)
}

// InsightsPrefix matches every insights key of a user.
func InsightsPrefix(username string) string {
	return "insights:" + username + ":"
}

// kind is the key prefix, used as a metrics label.
func kind(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "other"
}

// TTL returns the lifetime of new entries.
func (c *TTLCache) TTL() time.Duration { return c.ttl }

// Get returns the value stored under key. An expired entry is removed and
// reported as missing.
func (c *TTLCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		metrics.RecordCacheMiss(kind(key))
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		metrics.RecordCacheMiss(kind(key))
		metrics.RecordCacheEvictions(1)
		metrics.UpdateCacheEntries(len(c.items))
		return nil, false
	}
	metrics.RecordCacheHit(kind(key))
	return e.value, true
}

// Set stores value under key for the configured TTL. A zero TTL disables
// caching.
func (c *TTLCache) Set(key string, value []byte) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxEntries {
		evicted := c.purgeLocked(now)
		if len(c.items) >= c.maxEntries {
			c.evictSoonestLocked()
			evicted++
		}
		metrics.RecordCacheEvictions(evicted)
	}
	c.items[key] = entry{value: value, expiresAt: now.Add(c.ttl)}
	metrics.UpdateCacheEntries(len(c.items))
}

// Delete removes key.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	metrics.UpdateCacheEntries(len(c.items))
}

// DeletePrefix removes every key starting with prefix and returns how many
// were removed.
func (c *TTLCache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
			n++
		}
	}
	metrics.UpdateCacheEntries(len(c.items))
	return n
}

// Purge removes expired entries and returns how many were removed.
func (c *TTLCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.purgeLocked(c.now())
	metrics.RecordCacheEvictions(n)
	metrics.UpdateCacheEntries(len(c.items))
	return n
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLCache) purgeLocked(now time.Time) int {
	n := 0
	for k, e := range c.items {
		if !now.Before(e.expiresAt) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

func (c *TTLCache) evictSoonestLocked() {
	var (
		victim string
		soon   time.Time
	)
	for k, e := range c.items {
		if victim == "" || e.expiresAt.Before(soon) {
			victim, soon = k, e.expiresAt
		}
	}
	delete(c.items, victim)
}

// GetJSON decodes the value under key into v. It returns ErrMiss when the key
// is absent or expired.
func (c *TTLCache) GetJSON(key string, v any) error {
	raw, ok := c.Get(key)
	if !ok {
		return ErrMiss
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.Delete(key)
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func (c *TTLCache) SetJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	c.Set(key, raw)
	return nil
}
