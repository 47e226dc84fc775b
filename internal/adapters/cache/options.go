package cache

import "time"

// Option applies a configuration option to the TTLCache.
type Option func(*TTLCache)

// WithTTL sets the lifetime of new entries.
func WithTTL(ttl time.Duration) Option {
	return func(c *TTLCache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxEntries bounds the cache. When full, the entry closest to expiry is
// evicted.
func WithMaxEntries(n int) Option {
	return func(c *TTLCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) {
		if now != nil {
			c.now = now
		}
	}
}
