package service

import (
	"context"
	"fmt"

	"github.com/devakmmm/LeetInsight/internal/domain/model"
	"github.com/devakmmm/LeetInsight/internal/domain/tier"
	"github.com/devakmmm/LeetInsight/internal/domain/types"
)

// DefaultLeaderboardLimit is the page size when none is requested.
const DefaultLeaderboardLimit = 250

// trackLeaderboard persists the user's totals and repositions it in the
// rank index.
func (s *Service) trackLeaderboard(ctx context.Context, username string, solved model.ProblemCounts) error {
	s.trackMu.Lock()
	defer s.trackMu.Unlock()

	row, err := s.store.UpsertLeaderboardUser(ctx, username, solved)
	if err != nil {
		return fmt.Errorf("upsert leaderboard user %s: %w", username, err)
	}
	s.rank.Upsert(row)
	return nil
}

// Leaderboard returns the top users. A zero limit means 250; others are
// clamped to [1, max_leaderboard_limit].
func (s *Service) Leaderboard(_ context.Context, limit int) (types.Leaderboard, error) {
	if !s.isStarted() {
		return types.Leaderboard{}, ErrNotStarted
	}
	if limit == 0 {
		limit = DefaultLeaderboardLimit
	}
	limit = min(max(limit, 1), s.maxLeaderboardLimit)

	entries, err := s.rank.TopN(limit)
	if err != nil {
		return types.Leaderboard{}, fmt.Errorf("service.leaderboard: %w", err)
	}
	total := s.rank.Count()
	return types.Leaderboard{
		TotalUsers:        total,
		MinUsersForTop250: types.MinUsersForTop250,
		Top250Active:      types.Top250Active(total),
		Entries:           entries,
	}, nil
}

// LeaderboardStats returns the population and its tier distribution.
func (s *Service) LeaderboardStats(_ context.Context) (types.LeaderboardStats, error) {
	if !s.isStarted() {
		return types.LeaderboardStats{}, ErrNotStarted
	}
	total := s.rank.Count()
	return types.LeaderboardStats{
		TotalUsers:        total,
		MinUsersForTop250: types.MinUsersForTop250,
		Top250Active:      types.Top250Active(total),
		UsersNeeded:       types.UsersNeeded(total),
		TierDistribution:  s.rank.TierDistribution(),
	}, nil
}

// Rank returns the standing of username, or Found=false when it is not on
// the leaderboard.
func (s *Service) Rank(_ context.Context, username string) (types.RankInfo, error) {
	if !s.isStarted() {
		return types.RankInfo{}, ErrNotStarted
	}
	user, err := normalize(username)
	if err != nil {
		return types.RankInfo{}, err
	}
	return s.rank.Rank(user), nil
}

// Tier classifies a total solved count.
func Tier(total int) (types.TierInfo, error) {
	if total < 0 {
		return types.TierInfo{}, &model.ValidationError{Field: "total", Reason: "must be >= 0"}
	}
	band, next := tier.Lookup(total)
	info := types.TierInfo{TotalSolved: total, Tier: band.Name, Min: band.Min}
	if next != nil {
		upper := band.Max
		info.Max = &upper
		info.NextTier = next.Name
		info.ToNextTier = next.Min - total
	}
	return info, nil
}
