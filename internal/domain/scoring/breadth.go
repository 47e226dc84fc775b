package scoring

import "github.com/devakmmm/LeetInsight/internal/domain/model"

const (
	// meaningfulSolved is the per-tag depth that earns breadth credit.
	meaningfulSolved = 3
	// breadthTarget is the number of meaningful tags for a full score.
	breadthTarget = 12.0
)

// Breadth counts topics practiced beyond noise level.
type Breadth struct {
	DistinctTags int     `json:"distinctTags"`
	Score        float64 `json:"score"`
}

// ComputeBreadth scores the number of tags with at least three solves
// against a baseline of twelve.
func ComputeBreadth(tags []model.TagStat) Breadth {
	distinct := 0
	for _, t := range tags {
		if t.Solved >= meaningfulSolved {
			distinct++
		}
	}
	return Breadth{
		DistinctTags: distinct,
		Score:        round(clamp(float64(distinct)/breadthTarget, 0, 1), 3),
	}
}
