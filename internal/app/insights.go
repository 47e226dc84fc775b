package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devakmmm/LeetInsight/internal/adapters/cache"
	"github.com/devakmmm/LeetInsight/internal/adapters/repository"
	"github.com/devakmmm/LeetInsight/internal/domain/model"
	"github.com/devakmmm/LeetInsight/internal/domain/types"
	"github.com/devakmmm/LeetInsight/pkg/logger"
	"github.com/devakmmm/LeetInsight/pkg/metrics"
)

// Insights window bounds in days.
const (
	DefaultInsightsDays = 30
	MinInsightsDays     = 7
	MaxInsightsDays     = 365
)

// Dashboard returns the live profile, recent accepted submissions and topic
// breakdown of username. The second result reports a cache hit.
func (s *Service) Dashboard(ctx context.Context, username string) (types.Dashboard, bool, error) {
	const op = "service.dashboard"
	if !s.isStarted() {
		return types.Dashboard{}, false, ErrNotStarted
	}
	user, err := normalize(username)
	if err != nil {
		return types.Dashboard{}, false, err
	}

	key := cache.DashboardKey(user)
	var out types.Dashboard
	if err := s.cache.GetJSON(key, &out); err == nil {
		return out, true, nil
	}

	var (
		profile model.Profile
		recent  []model.Submission
		tags    []model.TagStat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = s.source.Profile(gctx, user)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.source.RecentAccepted(gctx, user, s.recentAcceptedLimit)
		return err
	})
	g.Go(func() (err error) {
		tags, err = s.source.TagStats(gctx, user)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.Dashboard{}, false, upstreamErr(op, err)
	}

	s.background(ctx, "leaderboard_upsert", func(ctx context.Context) error {
		return s.trackLeaderboard(ctx, user, profile.Solved)
	})

	out = types.Dashboard{
		Profile:        profile,
		RecentAccepted: nonNil(recent),
		Tags:           nonNil(tags),
		Meta:           s.meta(),
	}
	if err := s.cache.SetJSON(key, out); err != nil {
		s.logger.Warn(ctx, "cache dashboard failed", logger.String("username", user), logger.Error(err))
	}
	return out, false, nil
}

// Insights scores username over the last days of snapshots. Days default to
// 30 and are clamped to [7, 365]. The second result reports a cache hit.
func (s *Service) Insights(ctx context.Context, username string, days int) (types.Insights, bool, error) {
	const op = "service.insights"
	if !s.isStarted() {
		return types.Insights{}, false, ErrNotStarted
	}
	user, err := normalize(username)
	if err != nil {
		return types.Insights{}, false, err
	}
	days = clampDays(days, DefaultInsightsDays, MinInsightsDays, MaxInsightsDays)

	key := cache.InsightsKey(user, days)
	var out types.Insights
	if err := s.cache.GetJSON(key, &out); err == nil {
		return out, true, nil
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
		return types.Insights{}, false, upstreamErr(op, err)
	}
	if err := profile.Solved.Validate(); err != nil {
		return types.Insights{}, false, fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
	}
	tags = s.cleanTags(ctx, user, tags)

	now := s.now()
	snaps, err := s.recentSnapshots(ctx, profile.Username, days, now)
	if err != nil {
		return types.Insights{}, false, fmt.Errorf("%s: %w", op, err)
	}

	report := s.engine.Report(profile.Solved, tags, snaps, now)
	note := NoteVelocityReady
	if len(snaps) < 2 {
		note = NoteLimitedVelocity
	}

	out = types.Insights{
		Profile: profile,
		History: types.InsightsHistory{
			Days:           days,
			SnapshotCount:  len(snaps),
			Velocity:       report.Velocity,
			LastSnapshotAt: report.LastSnapshotAt,
		},
		Readiness: report.Readiness,
		Diagnostics: types.Diagnostics{
			Breadth:               report.Breadth,
			DifficultyRamp:        report.Ramp,
			LeverageCoverageScore: report.Coverage.Score,
			Note:                  note,
		},
		Recommendations: types.Recommendations{
			NextTopics: report.Recommendations,
			Principle:  Principle,
		},
		Meta: s.meta(),
	}
	metrics.RecordInsightsComputed(report.Readiness.Final, len(report.Recommendations))

	if err := s.cache.SetJSON(key, out); err != nil {
		s.logger.Warn(ctx, "cache insights failed", logger.String("username", user), logger.Error(err))
	}
	return out, false, nil
}

// recentSnapshots returns the user's snapshots of the last days, or none when
// the user was never stored.
func (s *Service) recentSnapshots(ctx context.Context, username string, days int, now time.Time) ([]model.Snapshot, error) {
	u, err := s.store.LookupUser(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return []model.Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.store.Snapshots(ctx, u.ID, now.AddDate(0, 0, -days))
}

// cleanTags drops upstream tag rows the engine cannot score.
func (s *Service) cleanTags(ctx context.Context, username string, tags []model.TagStat) []model.TagStat {
	kept, dropped := model.CleanTags(tags)
	if dropped > 0 {
		metrics.RecordErrorByComponent("service", "invalid_tags")
		s.logger.Warn(ctx, "dropped invalid upstream tags",
			logger.String("username", username),
			logger.Int("dropped", dropped),
		)
	}
	return kept
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
