package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/devakmmm/LeetInsight/internal/domain/model"
)

// EnsureUser returns the user for username, creating it if absent. The
// username is normalized first, so repeated calls return the same id.
func (s *SQLiteStore) EnsureUser(ctx context.Context, username string) (model.User, error) {
	defer observe("ensure_user", time.Now())

	u := model.NormalizeUsername(username)
	var user model.User
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, created_at) VALUES (?, ?)
		ON CONFLICT (username) DO UPDATE SET username = excluded.username
		RETURNING id, username
	`, u, s.timestamp()).Scan(&user.ID, &user.Username)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: ensure user %s: %w", ErrStore, u, err)
	}
	return user, nil
}

// LookupUser returns ErrNotFound when username was never stored.
func (s *SQLiteStore) LookupUser(ctx context.Context, username string) (model.User, error) {
	defer observe("lookup_user", time.Now())

	u := model.NormalizeUsername(username)
	var user model.User
	err := s.db.QueryRowContext(ctx, "SELECT id, username FROM users WHERE username = ?", u).
		Scan(&user.ID, &user.Username)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return model.User{}, fmt.Errorf("user %s: %w", u, ErrNotFound)
	case err != nil:
		return model.User{}, fmt.Errorf("%w: lookup user %s: %w", ErrStore, u, err)
	}
	return user, nil
}

// TrackedUsers lists every stored user by ascending id.
func (s *SQLiteStore) TrackedUsers(ctx context.Context) ([]model.User, error) {
	defer observe("tracked_users", time.Now())

	rows, err := s.db.QueryContext(ctx, "SELECT id, username FROM users ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: tracked users: %w", ErrStore, err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("%w: scan user: %w", ErrStore, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: tracked users: %w", ErrStore, err)
	}
	return users, nil
}
