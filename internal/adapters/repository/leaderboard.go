package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/devakmmm/LeetInsight/internal/domain/model"
	"github.com/devakmmm/LeetInsight/internal/domain/tier"
	"github.com/devakmmm/LeetInsight/internal/domain/types"
	"github.com/devakmmm/LeetInsight/pkg/metrics"
)

// UpsertLeaderboardUser inserts or refreshes a leaderboard row. first_seen_at
// is kept from the first insert.
func (s *SQLiteStore) UpsertLeaderboardUser(ctx context.Context, username string, solved model.ProblemCounts) (types.LeaderboardUser, error) {
	defer observe("upsert_leaderboard", time.Now())

	u := model.NormalizeUsername(username)
	now := s.timestamp()

	var (
		row                 types.LeaderboardUser
		firstSeen, lastSeen string
	)
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO leaderboard_users
			(username, total_solved, solved_easy, solved_medium, solved_hard, tier, first_seen_at, last_updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			total_solved    = excluded.total_solved,
			solved_easy     = excluded.solved_easy,
			solved_medium   = excluded.solved_medium,
			solved_hard     = excluded.solved_hard,
			tier            = excluded.tier,
			last_updated_at = excluded.last_updated_at
		RETURNING username, total_solved, solved_easy, solved_medium, solved_hard, tier, first_seen_at, last_updated_at
	`, u, solved.All, solved.Easy, solved.Medium, solved.Hard, tier.Classify(solved.All), now, now).Scan(
		&row.Username, &row.TotalSolved, &row.Easy, &row.Medium, &row.Hard, &row.Tier, &firstSeen, &lastSeen,
	)
	if err != nil {
		return types.LeaderboardUser{}, fmt.Errorf("%w: upsert leaderboard %s: %w", ErrStore, u, err)
	}
	if row.FirstSeenAt, err = parseTime(firstSeen); err != nil {
		return types.LeaderboardUser{}, err
	}
	if row.LastUpdatedAt, err = parseTime(lastSeen); err != nil {
		return types.LeaderboardUser{}, err
	}

	metrics.RecordLeaderboardUpsert()
	return row, nil
}

// LeaderboardUsers returns every row, highest total first.
func (s *SQLiteStore) LeaderboardUsers(ctx context.Context) ([]types.LeaderboardUser, error) {
	defer observe("leaderboard_users", time.Now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT username, total_solved, solved_easy, solved_medium, solved_hard, tier, first_seen_at, last_updated_at
		FROM leaderboard_users
		ORDER BY total_solved DESC, username ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: query leaderboard: %w", ErrStore, err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.LeaderboardUser
	for rows.Next() {
		var (
			row                 types.LeaderboardUser
			firstSeen, lastSeen string
		)
		if err := rows.Scan(&row.Username, &row.TotalSolved, &row.Easy, &row.Medium, &row.Hard, &row.Tier, &firstSeen, &lastSeen); err != nil {
			return nil, fmt.Errorf("%w: scan leaderboard row: %w", ErrStore, err)
		}
		if row.FirstSeenAt, err = parseTime(firstSeen); err != nil {
			return nil, err
		}
		if row.LastUpdatedAt, err = parseTime(lastSeen); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query leaderboard: %w", ErrStore, err)
	}
	return out, nil
}
