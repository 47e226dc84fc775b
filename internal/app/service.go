// Package service orchestrates the upstream source, the store, the response
// cache, the scoring engine and the snapshot pipeline behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/devakmmm/LeetInsight/internal/adapters/cache"
	"github.com/devakmmm/LeetInsight/internal/adapters/leetcode"
	"github.com/devakmmm/LeetInsight/internal/adapters/mq/queue"
	"github.com/devakmmm/LeetInsight/internal/adapters/mq/worker"
	"github.com/devakmmm/LeetInsight/internal/adapters/repository"
	"github.com/devakmmm/LeetInsight/internal/adapters/scheduler"
	"github.com/devakmmm/LeetInsight/internal/domain/dedupe"
	"github.com/devakmmm/LeetInsight/internal/domain/model"
	"github.com/devakmmm/LeetInsight/internal/domain/scoring"
	"github.com/devakmmm/LeetInsight/internal/domain/types"
	"github.com/devakmmm/LeetInsight/pkg/logger"
	"github.com/devakmmm/LeetInsight/pkg/metrics"
)

const (
	defaultDBPath              = "leetinsight.db"
	defaultCacheTTL            = 60 * time.Second
	defaultCacheMaxEntries     = 10_000
	defaultSnapshotCron        = "0 2 * * *"
	defaultWorkerCount         = 4
	defaultQueueSize           = 10_000
	defaultDedupeSize          = 50_000
	defaultMaxLeaderboardLimit = 500
	defaultRecentAccepted      = 20

	batchJobName       = "daily-snapshots"
	backgroundTimeout  = 10 * time.Second
	cachePurgeInterval = time.Minute
)

// ProfileSource fetches live profile data for a user.
type ProfileSource interface {
	Profile(ctx context.Context, username string) (model.Profile, error)
	TagStats(ctx context.Context, username string) ([]model.TagStat, error)
	RecentAccepted(ctx context.Context, username string, limit int) ([]model.Submission, error)
}

// Service implements the operations behind the HTTP API and the CLI.
type Service struct {
	mu sync.RWMutex

	// Core components
	source    ProfileSource
	store     repository.Store
	ownsStore bool
	rank      *repository.RankIndex
	cache     *cache.TTLCache
	engine    *scoring.Engine
	deduper   dedupe.Deduper
	jobs      *queue.InMemoryQueue
	pool      *worker.Pool
	scheduler *scheduler.Scheduler

	// Configuration
	dbPath              string
	upstreamURL         string
	upstreamTimeout     time.Duration
	cacheTTL            time.Duration
	cacheMaxEntries     int
	snapshotCron        string
	workerCount         int
	queueSize           int
	dedupeSize          int
	maxLeaderboardLimit int
	recentAcceptedLimit int
	topTopics           int
	tagWeights          map[string]float64
	defaultTagWeight    float64
	now                 func() time.Time

	// State
	started   bool
	startedAt time.Time
	runCtx    context.Context
	cancel    context.CancelFunc
	bg        sync.WaitGroup

	// trackMu orders leaderboard writes so the rank index matches the table.
	trackMu sync.Mutex

	logger logger.Logger
}

// New constructs a Service with default configuration. Nothing is opened
// until Start.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:              defaultDBPath,
		upstreamURL:         leetcode.DefaultEndpoint,
		cacheTTL:            defaultCacheTTL,
		cacheMaxEntries:     defaultCacheMaxEntries,
		snapshotCron:        defaultSnapshotCron,
		workerCount:         defaultWorkerCount,
		queueSize:           defaultQueueSize,
		dedupeSize:          defaultDedupeSize,
		maxLeaderboardLimit: defaultMaxLeaderboardLimit,
		recentAcceptedLimit: defaultRecentAccepted,
		topTopics:           scoring.DefaultTopN,
		defaultTagWeight:    scoring.DefaultTagWeight,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store, loads the rank index and starts the snapshot
// pipeline. Calling Start on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting leetinsight service...")

	if s.store == nil {
		st, err := repository.Open(ctx, s.dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store, s.ownsStore = st, true
	}
	if s.source == nil {
		s.source = leetcode.New(
			leetcode.WithEndpoint(s.upstreamURL),
			leetcode.WithTimeout(s.upstreamTimeout),
			leetcode.WithLogger(s.logger.Named("leetcode")),
		)
	}

	s.rank = repository.NewRankIndex()
	if err := s.rank.Load(ctx, s.store); err != nil {
		s.closeOwnedStore(ctx)
		return fmt.Errorf("load rank index: %w", err)
	}

	s.cache = cache.New(
		cache.WithTTL(s.cacheTTL),
		cache.WithMaxEntries(s.cacheMaxEntries),
		cache.WithClock(s.now),
	)
	s.engine = scoring.NewEngine(
		scoring.WithWeights(scoring.NewWeights(s.defaultTagWeight, scoring.DefaultTable(), s.tagWeights)),
		scoring.WithTopN(s.topTopics),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))

	// The pipeline outlives the caller's ctx and is stopped by Stop.
	s.runCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))

	s.pool = worker.NewPool(s.jobs, worker.SnapshotFunc(s.snapshotJob),
		worker.WithWorkerCount(s.workerCount),
		worker.WithPoolLogger(s.logger.Named("worker")),
	)
	s.pool.Start(s.runCtx)

	s.scheduler = scheduler.New(scheduler.WithLogger(s.logger.Named("scheduler")))
	if err := s.scheduler.Add(batchJobName, s.snapshotCron, s.runBatch); err != nil {
		s.cancel()
		_ = s.pool.Shutdown(ctx)
		s.closeOwnedStore(ctx)
		return fmt.Errorf("schedule snapshots: %w", err)
	}
	s.scheduler.Start()

	s.bg.Add(1)
	go s.purgeCache()

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "leetinsight service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("leaderboardUsers", s.rank.Count()),
		logger.String("snapshotCron", s.snapshotCron),
	)
	return nil
}

// Stop shuts down the scheduler, drains the worker pool and closes the store
// if the service opened it.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping leetinsight service...")

	var errs []error
	if err := s.scheduler.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	s.cancel()
	s.bg.Wait()
	if s.ownsStore {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
		s.store, s.ownsStore = nil, false
	}

	s.started = false
	s.logger.Info(ctx, "leetinsight service stopped")
	return errors.Join(errs...)
}

func (s *Service) closeOwnedStore(ctx context.Context) {
	if !s.ownsStore {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(ctx, "close store failed", logger.Error(err))
	}
	s.store, s.ownsStore = nil, false
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// purgeCache drops expired responses until the service stops.
func (s *Service) purgeCache() {
	defer s.bg.Done()

	ticker := time.NewTicker(cachePurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.runCtx.Done():
			return
		case <-ticker.C:
			if n := s.cache.Purge(); n > 0 {
				s.logger.Debug(s.runCtx, "purged cache entries", logger.Int("count", n))
			}
		}
	}
}

// background runs fn detached from the request, bounded by a timeout.
func (s *Service) background(ctx context.Context, name string, fn func(ctx context.Context) error) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()

		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundTimeout)
		defer cancel()
		if err := fn(bctx); err != nil {
			metrics.RecordErrorByComponent("service", name)
			s.logger.Warn(bctx, "background task failed", logger.String("task", name), logger.Error(err))
		}
	}()
}

func (s *Service) meta() types.Meta {
	return types.Meta{GeneratedAt: s.now().UTC(), CacheTTLSeconds: int(s.cacheTTL / time.Second)}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"cacheTtl":    int(s.cacheTTL / time.Second),
	}
	if !s.started {
		return stats
	}

	pool := s.pool.Stats()
	stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt) / time.Second)
	stats["queueLength"] = s.jobs.Len(ctx)
	stats["dedupeEntries"] = s.deduper.Size()
	stats["cacheEntries"] = s.cache.Len()
	stats["leaderboardUsers"] = s.rank.Count()
	stats["jobsProcessed"] = pool.Processed
	stats["jobsFailed"] = pool.Failed
	if next, ok := s.scheduler.Next(batchJobName); ok {
		stats["nextSnapshotAt"] = next.UTC()
	}

	metrics.UpdateLeaderboardUsers(s.rank.Count())
	metrics.UpdateCacheEntries(s.cache.Len())
	return stats
}

// upstreamErr maps source errors onto service sentinels.
func upstreamErr(op string, err error) error {
	switch {
	case errors.Is(err, leetcode.ErrUserNotFound), errors.Is(err, ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
	}
}

func normalize(username string) (string, error) {
	if err := model.ValidateUsername(username); err != nil {
		return "", err
	}
	return model.NormalizeUsername(username), nil
}

// clampDays applies def when days is zero, then bounds it to [lo, hi].
func clampDays(days, def, lo, hi int) int {
	if days == 0 {
		days = def
	}
	return min(max(days, lo), hi)
}
