package service

import (
	"time"

	"github.com/devakmmm/LeetInsight/internal/adapters/repository"
	"github.com/devakmmm/LeetInsight/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets the profile source. Defaults to the LeetCode client.
func WithSource(src ProfileSource) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithStore sets the store. A store passed here is not closed by Stop.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithDBPath sets the SQLite file opened by Start when no store is given.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithUpstream sets the GraphQL endpoint and per-request timeout of the
// default source.
func WithUpstream(url string, timeout time.Duration) Option {
	return func(s *Service) {
		if url != "" {
			s.upstreamURL = url
		}
		if timeout > 0 {
			s.upstreamTimeout = timeout
		}
	}
}

// WithCache sets the response cache TTL and bound. A zero TTL disables caching.
func WithCache(ttl time.Duration, maxEntries int) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.cacheTTL = ttl
		}
		if maxEntries > 0 {
			s.cacheMaxEntries = maxEntries
		}
	}
}

// WithSnapshotCron sets the batch snapshot schedule. An empty spec disables it.
func WithSnapshotCron(spec string) Option {
	return func(s *Service) {
		s.snapshotCron = spec
	}
}

// WithWorkerCount sets the number of snapshot workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending snapshot jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the job dedupe tracker.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxLeaderboardLimit caps the leaderboard page size.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLeaderboardLimit = n
		}
	}
}

// WithRecentAcceptedLimit sets how many recent submissions the dashboard shows.
func WithRecentAcceptedLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentAcceptedLimit = n
		}
	}
}

// WithTopTopics sets how many recommendations insights return.
func WithTopTopics(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topTopics = n
		}
	}
}

// WithTagWeights layers weight overrides over the built-in table and sets the
// weight of unlisted topics.
func WithTagWeights(weights map[string]float64, defaultWeight float64) Option {
	return func(s *Service) {
		s.tagWeights = weights
		if defaultWeight > 0 {
			s.defaultTagWeight = defaultWeight
		}
	}
}

// WithClock sets the time source used for snapshot windows and recency.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
