package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// migrate runs forward migrations to bring the schema up to date.
func (s *SQLiteStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("%w: creating schema_version table: %w", ErrMigrate, err)
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if version < 1 {
		if err := s.migrateV1(ctx); err != nil {
			return fmt.Errorf("%w: v1: %w", ErrMigrate, err)
		}
	}
	return nil
}

// SchemaVersion returns the applied schema version, 0 for a fresh database.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("%w: reading schema_version: %w", ErrMigrate, err)
	}
	return version, nil
}

// migrateV1 creates all initial tables and indexes.
func (s *SQLiteStore) migrateV1(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			username   TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id       INTEGER NOT NULL REFERENCES users(id),
			captured_at   TEXT NOT NULL,
			solved_all    INTEGER NOT NULL,
			solved_easy   INTEGER NOT NULL,
			solved_medium INTEGER NOT NULL,
			solved_hard   INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS snapshot_tags (
			snapshot_id INTEGER NOT NULL REFERENCES snapshots(id),
			tag_slug    TEXT NOT NULL,
			tag_name    TEXT NOT NULL,
			solved      INTEGER NOT NULL,
			PRIMARY KEY (snapshot_id, tag_slug)
		)`,

		`CREATE TABLE IF NOT EXISTS leaderboard_users (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			username        TEXT NOT NULL UNIQUE,
			total_solved    INTEGER NOT NULL DEFAULT 0,
			solved_easy     INTEGER NOT NULL DEFAULT 0,
			solved_medium   INTEGER NOT NULL DEFAULT 0,
			solved_hard     INTEGER NOT NULL DEFAULT 0,
			tier            TEXT NOT NULL DEFAULT 'Bronze',
			first_seen_at   TEXT NOT NULL,
			last_updated_at TEXT NOT NULL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_snapshots_user_time ON snapshots(user_id, captured_at)`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_solved ON leaderboard_users(total_solved DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_tier ON leaderboard_users(tier)`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}
	return tx.Commit()
}
