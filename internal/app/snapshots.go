package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/devakmmm/LeetInsight/internal/adapters/cache"
	"github.com/devakmmm/LeetInsight/internal/adapters/mq/queue"
	"github.com/devakmmm/LeetInsight/internal/adapters/repository"
	"github.com/devakmmm/LeetInsight/internal/domain/dedupe"
	"github.com/devakmmm/LeetInsight/internal/domain/model"
	"github.com/devakmmm/LeetInsight/internal/domain/types"
	"github.com/devakmmm/LeetInsight/pkg/logger"
	"github.com/devakmmm/LeetInsight/pkg/metrics"
)

// History window bounds in days.
const (
	DefaultHistoryDays = 30
	MinHistoryDays     = 1
	MaxHistoryDays     = 365
)

// TakeSnapshot captures the current profile and topic breakdown of username.
func (s *Service) TakeSnapshot(ctx context.Context, username string) (types.SnapshotResult, error) {
	if !s.isStarted() {
		return types.SnapshotResult{}, ErrNotStarted
	}
	return s.takeSnapshot(ctx, username, model.SourceManual)
}

func (s *Service) takeSnapshot(ctx context.Context, username, source string) (types.SnapshotResult, error) {
	const op = "service.take_snapshot"
	user, err := normalize(username)
	if err != nil {
		return types.SnapshotResult{}, err
	}

	var (
		profile model.Profile
		tags    []model.TagStat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = s.source.Profile(gctx, user)
		return err
	})
	g.Go(func() (err error) {
		tags, err = s.source.TagStats(gctx, user)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.RecordSnapshotFailure(source)
		return types.SnapshotResult{}, upstreamErr(op, err)
	}
	if err := profile.Solved.Validate(); err != nil {
		metrics.RecordSnapshotFailure(source)
		return types.SnapshotResult{}, fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
	}

	tags = s.cleanTags(ctx, user, tags)

	u, err := s.store.EnsureUser(ctx, profile.Username)
	if err != nil {
		metrics.RecordSnapshotFailure(source)
		return types.SnapshotResult{}, fmt.Errorf("%s: %w", op, err)
	}
	snap, err := s.store.InsertSnapshot(ctx, u.ID, profile.Solved, tags)
	if err != nil {
		metrics.RecordSnapshotFailure(source)
		return types.SnapshotResult{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordSnapshotTaken(source)

	// new snapshots change velocity and recency
	s.cache.DeletePrefix(cache.InsightsPrefix(u.Username))

	if err := s.trackLeaderboard(ctx, u.Username, profile.Solved); err != nil {
		s.logger.Warn(ctx, "leaderboard upsert failed", logger.String("username", u.Username), logger.Error(err))
	}

	s.logger.Info(ctx, "snapshot stored",
		logger.String("username", u.Username),
		logger.Int64("snapshot_id", snap.ID),
		logger.String("source", source),
		logger.Int("solved", profile.Solved.All),
	)
	return types.SnapshotResult{
		Username:   u.Username,
		SnapshotID: snap.ID,
		CapturedAt: snap.CapturedAt,
		Solved:     profile.Solved,
		TagsCount:  len(tags),
	}, nil
}

// snapshotJob is the worker entry point for queued jobs.
func (s *Service) snapshotJob(ctx context.Context, username string) error {
	_, err := s.takeSnapshot(ctx, username, model.SourceScheduled)
	return err
}

// History returns the snapshots of username over the last days. Days default
// to 30 and are clamped to [1, 365].
func (s *Service) History(ctx context.Context, username string, days int) (types.History, error) {
	const op = "service.history"
	if !s.isStarted() {
		return types.History{}, ErrNotStarted
	}
	user, err := normalize(username)
	if err != nil {
		return types.History{}, err
	}
	days = clampDays(days, DefaultHistoryDays, MinHistoryDays, MaxHistoryDays)

	u, err := s.store.LookupUser(ctx, user)
	if errors.Is(err, repository.ErrNotFound) {
		return types.History{}, fmt.Errorf("%s: %w", op, ErrNoSnapshots)
	}
	if err != nil {
		return types.History{}, fmt.Errorf("%s: %w", op, err)
	}

	snaps, err := s.store.Snapshots(ctx, u.ID, s.now().AddDate(0, 0, -days))
	if err != nil {
		return types.History{}, fmt.Errorf("%s: %w", op, err)
	}
	return types.History{Username: u.Username, Days: days, Snapshots: snaps}, nil
}

// EnqueueSnapshotBatch schedules one snapshot job per tracked user, in
// ascending id order. A run covers one UTC day: users already scheduled
// earlier that day are skipped. It returns ErrBusy when the queue rejected
// every job.
func (s *Service) EnqueueSnapshotBatch(ctx context.Context) (types.BatchResult, error) {
	if !s.isStarted() {
		return types.BatchResult{}, ErrNotStarted
	}
	return s.enqueueBatch(ctx)
}

// RunID names the batch run covering t's UTC day.
func RunID(t time.Time) string {
	return "daily-" + t.UTC().Format(time.DateOnly)
}

func (s *Service) runBatch(ctx context.Context) error {
	_, err := s.enqueueBatch(ctx)
	return err
}

func (s *Service) enqueueBatch(ctx context.Context) (types.BatchResult, error) {
	const op = "service.enqueue_batch"
	users, err := s.store.TrackedUsers(ctx)
	if err != nil {
		return types.BatchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res := types.BatchResult{RunID: RunID(s.now()), Users: len(users)}
	for _, u := range users {
		key := dedupe.Key(res.RunID, u.Username)
		if s.deduper.SeenAndRecord(ctx, key) {
			metrics.RecordJobDuplicate()
			res.Duplicates++
			continue
		}

		job := model.SnapshotJob{
			JobID:      uuid.NewString(),
			RunID:      res.RunID,
			Username:   u.Username,
			Source:     model.SourceScheduled,
			EnqueuedAt: s.now().UTC(),
		}
		if err := s.jobs.Enqueue(ctx, job); err != nil {
			s.deduper.Unrecord(ctx, key)
			res.Rejected++
			if errors.Is(err, queue.ErrQueueClosed) || ctx.Err() != nil {
				break
			}
			continue
		}
		res.Enqueued++
	}

	s.logger.Info(ctx, "snapshot batch scheduled",
		logger.String("run_id", res.RunID),
		logger.Int("users", res.Users),
		logger.Int("enqueued", res.Enqueued),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("rejected", res.Rejected),
	)
	if res.Rejected > 0 && res.Enqueued == 0 {
		return res, fmt.Errorf("%s: %w", op, ErrBusy)
	}
	return res, nil
}
