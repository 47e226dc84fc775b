package scoring

import (
	"time"

	"github.com/devakmmm/LeetInsight/internal/domain/model"
)

// minElapsedDays keeps perDay finite when two snapshots share a timestamp.
const minElapsedDays = 0.0001

// Velocity is the solve rate between the first and last snapshot. The nil
// fields mean "no velocity": fewer than two snapshots were supplied.
type Velocity struct {
	Delta       *int       `json:"delta"`
	PerDay      *float64   `json:"perDay"`
	ElapsedDays *float64   `json:"elapsedDays"`
	FirstAt     *time.Time `json:"firstAt,omitempty"`
	LastAt      *time.Time `json:"lastAt,omitempty"`
}

// Known reports whether a rate could be computed.
func (v Velocity) Known() bool { return v.PerDay != nil }

// ComputeVelocity derives solves per day from snapshots sorted ascending by
// CapturedAt. The caller picks the window.
func ComputeVelocity(snaps []model.Snapshot) Velocity {
	if len(snaps) < 2 {
		return Velocity{}
	}
	first, last := snaps[0], snaps[len(snaps)-1]

	delta := last.Solved.All - first.Solved.All
	elapsed := max(daysBetween(first.CapturedAt, last.CapturedAt), minElapsedDays)
	perDay := round(float64(delta)/elapsed, 2)
	elapsed = round(elapsed, 2)
	firstAt, lastAt := first.CapturedAt, last.CapturedAt

	return Velocity{
		Delta:       &delta,
		PerDay:      &perDay,
		ElapsedDays: &elapsed,
		FirstAt:     &firstAt,
		LastAt:      &lastAt,
	}
}
