// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers a YAML file and LEETINSIGHT_ env vars on top of the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5050".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file. ":memory:" keeps everything in process.
	DBPath string `koanf:"db_path"`

	// UpstreamURL is the LeetCode GraphQL endpoint.
	UpstreamURL string `koanf:"upstream_url"`

	// UpstreamTimeoutMS bounds every upstream call.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// CacheTTLSeconds is the lifetime of cached dashboard and insights responses.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// CacheMaxEntries caps the response cache.
	CacheMaxEntries int `koanf:"cache_max_entries"`

	// SnapshotCron is the schedule for the batch snapshot of tracked users.
	// An empty string disables the scheduler.
	SnapshotCron string `koanf:"snapshot_cron"`

	// WorkerCount sets the number of snapshot workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory snapshot job queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize sets how many scheduled job keys are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RecentAcceptedLimit is how many recent accepted submissions the dashboard shows.
	RecentAcceptedLimit int `koanf:"recent_accepted_limit"`

	// TopTopics is how many topics the recommender returns.
	TopTopics int `koanf:"top_topics"`

	// TagWeights overrides entries of the built-in interview leverage table.
	TagWeights map[string]float64 `koanf:"tag_weights"`

	// DefaultTagWeight applies to any tag missing from the table.
	DefaultTagWeight float64 `koanf:"default_tag_weight"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":5050",
		DBPath:              "leetinsight.db",
		UpstreamURL:         "https://leetcode.com/graphql",
		UpstreamTimeoutMS:   10_000,
		CacheTTLSeconds:     60,
		CacheMaxEntries:     10_000,
		SnapshotCron:        "0 2 * * *",
		WorkerCount:         4,
		QueueSize:           10_000,
		DedupeSize:          50_000,
		MaxLeaderboardLimit: 500,
		RecentAcceptedLimit: 20,
		TopTopics:           7,
		DefaultTagWeight:    0.6,
	}
}

// UpstreamTimeout returns UpstreamTimeoutMS as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Validate checks the values Load cannot type-check on its own.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DBPath) == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.UpstreamURL) == "":
		return fmt.Errorf("%w: upstream_url must not be empty", ErrInvalidConfig)
	case c.UpstreamTimeoutMS <= 0:
		return fmt.Errorf("%w: upstream_timeout_ms must be positive", ErrInvalidConfig)
	case c.CacheTTLSeconds < 0:
		return fmt.Errorf("%w: cache_ttl_seconds must not be negative", ErrInvalidConfig)
	case c.CacheMaxEntries <= 0:
		return fmt.Errorf("%w: cache_max_entries must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.DedupeSize <= 0:
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.RecentAcceptedLimit <= 0:
		return fmt.Errorf("%w: recent_accepted_limit must be positive", ErrInvalidConfig)
	case c.TopTopics <= 0:
		return fmt.Errorf("%w: top_topics must be positive", ErrInvalidConfig)
	case c.DefaultTagWeight <= 0:
		return fmt.Errorf("%w: default_tag_weight must be positive", ErrInvalidConfig)
	}

	for slug, w := range c.TagWeights {
		if w <= 0 {
			return fmt.Errorf("%w: tag_weights.%s must be positive", ErrInvalidConfig, slug)
		}
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}

	if c.SnapshotCron != "" {
		if _, err := cron.ParseStandard(c.SnapshotCron); err != nil {
			return fmt.Errorf("%w: snapshot_cron: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}
