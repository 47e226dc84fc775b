package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/devakmmm/LeetInsight/internal/domain/model"
)

// InsertSnapshot appends a snapshot and its tags in one transaction. A tag
// listed twice keeps its last values.
func (s *SQLiteStore) InsertSnapshot(ctx context.Context, userID int64, solved model.ProblemCounts, tags []model.TagStat) (model.Snapshot, error) {
	defer observe("insert_snapshot", time.Now())

	capturedAt := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: begin: %w", ErrStore, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (user_id, captured_at, solved_all, solved_easy, solved_medium, solved_hard)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, formatTime(capturedAt), solved.All, solved.Easy, solved.Medium, solved.Hard)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: insert snapshot: %w", ErrStore, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: snapshot id: %w", ErrStore, err)
	}

	if len(tags) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO snapshot_tags (snapshot_id, tag_slug, tag_name, solved)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (snapshot_id, tag_slug) DO UPDATE
				SET tag_name = excluded.tag_name,
				    solved = excluded.solved
		`)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("%w: prepare tags: %w", ErrStore, err)
		}
		defer func() { _ = stmt.Close() }()

		for _, t := range tags {
			if _, err := stmt.ExecContext(ctx, id, t.TagSlug, t.TagName, t.Solved); err != nil {
				return model.Snapshot{}, fmt.Errorf("%w: insert tag %s: %w", ErrStore, t.TagSlug, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: commit snapshot: %w", ErrStore, err)
	}

	return model.Snapshot{ID: id, CapturedAt: capturedAt, Solved: solved}, nil
}

// Snapshots returns the user's snapshots captured at or after since,
// ascending by capture time.
func (s *SQLiteStore) Snapshots(ctx context.Context, userID int64, since time.Time) ([]model.Snapshot, error) {
	defer observe("snapshots", time.Now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, captured_at, solved_all, solved_easy, solved_medium, solved_hard
		FROM snapshots
		WHERE user_id = ? AND captured_at >= ?
		ORDER BY captured_at ASC, id ASC
	`, userID, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("%w: query snapshots: %w", ErrStore, err)
	}
	defer func() { _ = rows.Close() }()

	snaps := []model.Snapshot{}
	for rows.Next() {
		var (
			sn         model.Snapshot
			capturedAt string
		)
		if err := rows.Scan(&sn.ID, &capturedAt, &sn.Solved.All, &sn.Solved.Easy, &sn.Solved.Medium, &sn.Solved.Hard); err != nil {
			return nil, fmt.Errorf("%w: scan snapshot: %w", ErrStore, err)
		}
		if sn.CapturedAt, err = parseTime(capturedAt); err != nil {
			return nil, err
		}
		snaps = append(snaps, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query snapshots: %w", ErrStore, err)
	}
	return snaps, nil
}

// SnapshotTags returns the tag breakdown stored with a snapshot, most solved first.
func (s *SQLiteStore) SnapshotTags(ctx context.Context, snapshotID int64) ([]model.TagStat, error) {
	defer observe("snapshot_tags", time.Now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT tag_slug, tag_name, solved
		FROM snapshot_tags
		WHERE snapshot_id = ?
		ORDER BY solved DESC, tag_slug ASC
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("%w: query snapshot tags: %w", ErrStore, err)
	}
	defer func() { _ = rows.Close() }()

	tags := []model.TagStat{}
	for rows.Next() {
		var t model.TagStat
		if err := rows.Scan(&t.TagSlug, &t.TagName, &t.Solved); err != nil {
			return nil, fmt.Errorf("%w: scan tag: %w", ErrStore, err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query snapshot tags: %w", ErrStore, err)
	}
	return tags, nil
}
