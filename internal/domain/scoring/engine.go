package scoring

import (
	"time"

	"github.com/devakmmm/LeetInsight/internal/domain/model"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights sets the tag weight table.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithTopN sets how many topics Report recommends.
func WithTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}

// Engine bundles the weight table and recommendation size. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	weights Weights
	topN    int
}

// NewEngine creates an Engine with the built-in weight table.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights: DefaultWeights(),
		topN:    DefaultTopN,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weights returns the engine's weight table.
func (e *Engine) Weights() Weights { return e.weights }

// TopN returns the default recommendation count.
func (e *Engine) TopN() int { return e.topN }

// Velocity computes the solve rate of ascending snapshots.
func (e *Engine) Velocity(snaps []model.Snapshot) Velocity {
	return ComputeVelocity(snaps)
}

// Recommend ranks tags by opportunity cost. A non-positive topN uses the
// engine default.
func (e *Engine) Recommend(tags []model.TagStat, topN int) []Recommendation {
	if topN <= 0 {
		topN = e.topN
	}
	return Recommend(tags, e.weights, topN)
}

// Readiness computes the composite score for a profile, its tags and its
// ascending snapshots as of now.
func (e *Engine) Readiness(solved model.ProblemCounts, tags []model.TagStat, snaps []model.Snapshot, now time.Time) Readiness {
	return e.Report(solved, tags, snaps, now).Readiness
}

// Report is every metric derived from one set of inputs.
type Report struct {
	Velocity        Velocity
	Breadth         Breadth
	Ramp            Ramp
	Coverage        WeightedCoverage
	Recency         float64
	LastSnapshotAt  *time.Time
	Readiness       Readiness
	Recommendations []Recommendation
}

// Report runs the whole pipeline. Velocity, breadth, coverage, ramp and
// recency feed the readiness score; recommendations are derived from the tags
// independently.
func (e *Engine) Report(solved model.ProblemCounts, tags []model.TagStat, snaps []model.Snapshot, now time.Time) Report {
	r := Report{
		Velocity: ComputeVelocity(snaps),
		Breadth:  ComputeBreadth(tags),
		Ramp:     ComputeRamp(solved),
		Coverage: ComputeWeightedCoverage(tags, e.weights),
	}
	if n := len(snaps); n > 0 {
		last := snaps[n-1].CapturedAt
		r.LastSnapshotAt = &last
	}
	r.Recency = Recency(r.LastSnapshotAt, now)

	r.Readiness = ComposeReadiness(ReadinessInput{
		VelocityPerDay:   r.Velocity.PerDay,
		Breadth:          r.Breadth.Score,
		Ramp:             r.Ramp.Score,
		WeightedCoverage: r.Coverage.Score,
		Recency:          r.Recency,
	})
	r.Recommendations = Recommend(tags, e.weights, e.topN)
	return r
}
