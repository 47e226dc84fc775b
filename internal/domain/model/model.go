// Package model contains domain models passed between layers.
package model

import "time"

// ProblemCounts holds accepted problem counts per difficulty.
// All is authoritative when it disagrees with Easy+Medium+Hard.
type ProblemCounts struct {
	All    int `json:"all"`
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// TagStat is the number of problems solved for a single topic tag.
type TagStat struct {
	TagSlug string `json:"tagSlug"`
	TagName string `json:"tagName"`
	Solved  int    `json:"solved"`
}

// Snapshot is an immutable capture of a user's cumulative solved counts.
type Snapshot struct {
	ID         int64         `json:"id"`
	CapturedAt time.Time     `json:"capturedAt"`
	Solved     ProblemCounts `json:"solved"`
}

// Profile is the live view of a user returned by the upstream source.
type Profile struct {
	Username string        `json:"username"`
	Solved   ProblemCounts `json:"solved"`
}

// Submission is a recent accepted submission.
type Submission struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Lang      string `json:"lang"`
	Timestamp int64  `json:"timestamp"`
}

// User maps a normalized username to its stable internal id.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Job sources.
const (
	SourceManual    = "manual"
	SourceScheduled = "scheduled"
)

// SnapshotJob asks a worker to capture a snapshot of one user.
// RunID groups the jobs of one batch and is part of the dedupe key.
type SnapshotJob struct {
	JobID      string    `json:"jobId"`
	RunID      string    `json:"runId"`
	Username   string    `json:"username"`
	Source     string    `json:"source"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}
