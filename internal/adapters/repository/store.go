// Package repository persists users, snapshots and leaderboard rows in
// SQLite and keeps an in-memory rank index of the leaderboard.
package repository

import (
	"context"
	"time"

	"github.com/devakmmm/LeetInsight/internal/domain/model"
	"github.com/devakmmm/LeetInsight/internal/domain/types"
)

// UserStore resolves usernames to stable ids.
type UserStore interface {
	// EnsureUser returns the user for username, creating it if absent.
	EnsureUser(ctx context.Context, username string) (model.User, error)
	// LookupUser returns ErrNotFound when username was never stored.
	LookupUser(ctx context.Context, username string) (model.User, error)
	// TrackedUsers lists every stored user by ascending id.
	TrackedUsers(ctx context.Context) ([]model.User, error)
}

// SnapshotStore is the append-only snapshot log.
type SnapshotStore interface {
	// InsertSnapshot appends a snapshot with its tag breakdown.
	InsertSnapshot(ctx context.Context, userID int64, solved model.ProblemCounts, tags []model.TagStat) (model.Snapshot, error)
	// Snapshots returns the user's snapshots captured at or after since,
	// ascending by capture time.
	Snapshots(ctx context.Context, userID int64, since time.Time) ([]model.Snapshot, error)
	// SnapshotTags returns the tag breakdown stored with a snapshot.
	SnapshotTags(ctx context.Context, snapshotID int64) ([]model.TagStat, error)
}

// LeaderboardStore persists leaderboard rows.
type LeaderboardStore interface {
	// UpsertLeaderboardUser inserts or refreshes a row and returns it as stored.
	UpsertLeaderboardUser(ctx context.Context, username string, solved model.ProblemCounts) (types.LeaderboardUser, error)
	// LeaderboardUsers returns every row.
	LeaderboardUsers(ctx context.Context) ([]types.LeaderboardUser, error)
}

// Store is everything the service persists.
type Store interface {
	UserStore
	SnapshotStore
	LeaderboardStore
	Close() error
}
