package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrStore        = errors.New("store failure")
	ErrMigrate      = errors.New("schema migration failed")
)
