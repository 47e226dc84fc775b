package types

import (
	"time"

	"github.com/devakmmm/LeetInsight/internal/domain/model"
	"github.com/devakmmm/LeetInsight/internal/domain/scoring"
)

// Meta describes when a response was built and how long it may be cached.
type Meta struct {
	GeneratedAt     time.Time `json:"generatedAt"`
	CacheTTLSeconds int       `json:"cacheTtlSeconds"`
}

// Dashboard is the live view of a user.
type Dashboard struct {
	Profile        model.Profile      `json:"profile"`
	RecentAccepted []model.Submission `json:"recentAccepted"`
	Tags           []model.TagStat    `json:"tags"`
	Meta           Meta               `json:"meta"`
}

// SnapshotResult describes a stored snapshot.
type SnapshotResult struct {
	Username   string              `json:"username"`
	SnapshotID int64               `json:"snapshotId"`
	CapturedAt time.Time           `json:"capturedAt"`
	Solved     model.ProblemCounts `json:"solved"`
	TagsCount  int                 `json:"tagsCount"`
}

// History is a user's snapshots over a window.
type History struct {
	Username  string           `json:"username"`
	Days      int              `json:"days"`
	Snapshots []model.Snapshot `json:"snapshots"`
}

// Insights is the readiness report of a user.
type Insights struct {
	Profile         model.Profile     `json:"profile"`
	History         InsightsHistory   `json:"history"`
	Readiness       scoring.Readiness `json:"readiness"`
	Diagnostics     Diagnostics       `json:"diagnostics"`
	Recommendations Recommendations   `json:"recommendations"`
	Meta            Meta              `json:"meta"`
}

// InsightsHistory summarizes the snapshots behind the velocity figure.
type InsightsHistory struct {
	Days           int              `json:"days"`
	SnapshotCount  int              `json:"snapshotCount"`
	Velocity       scoring.Velocity `json:"velocity"`
	LastSnapshotAt *time.Time       `json:"lastSnapshotAt"`
}

// Diagnostics exposes the component metrics.
type Diagnostics struct {
	Breadth               scoring.Breadth `json:"breadth"`
	DifficultyRamp        scoring.Ramp    `json:"difficultyRamp"`
	LeverageCoverageScore float64         `json:"leverageCoverageScore"`
	Note                  string          `json:"note"`
}

// Recommendations are the next topics to practise.
type Recommendations struct {
	NextTopics []scoring.Recommendation `json:"nextTopics"`
	Principle  string                   `json:"principle"`
}

// BatchResult reports how a snapshot batch was scheduled.
type BatchResult struct {
	RunID      string `json:"runId"`
	Users      int    `json:"users"`
	Enqueued   int    `json:"enqueued"`
	Duplicates int    `json:"duplicates"`
	Rejected   int    `json:"rejected"`
}
