package service

import "errors"

// Sentinel errors returned by Service operations.
var (
	// ErrNotFound is returned when the upstream user does not exist or is private.
	ErrNotFound = errors.New("user not found or private")

	// ErrNoSnapshots is returned by History for users never snapshotted.
	ErrNoSnapshots = errors.New("no snapshots yet")

	// ErrUpstream wraps failures of the profile source.
	ErrUpstream = errors.New("upstream unavailable")

	// ErrBusy is returned when the snapshot queue rejects a whole batch.
	ErrBusy = errors.New("snapshot queue full")

	// ErrNotStarted is returned by operations that need Start to have run.
	ErrNotStarted = errors.New("service not started")
)
