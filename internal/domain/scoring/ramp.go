package scoring

import "github.com/devakmmm/LeetInsight/internal/domain/model"

// targetHardRatio is the share of hard solves at which the ramp saturates.
const targetHardRatio = 0.18

// Ramp measures exposure to hard problems.
type Ramp struct {
	HardRatio float64 `json:"hardRatio"`
	Score     float64 `json:"score"`
}

// ComputeRamp returns hard/all normalized against the 0.18 target. A profile
// with nothing solved scores zero.
func ComputeRamp(p model.ProblemCounts) Ramp {
	if p.All <= 0 {
		return Ramp{}
	}
	ratio := float64(p.Hard) / float64(p.All)
	return Ramp{
		HardRatio: round(ratio, 3),
		Score:     round(clamp(ratio/targetHardRatio, 0, 1), 3),
	}
}
