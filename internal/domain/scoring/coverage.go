package scoring

import "github.com/devakmmm/LeetInsight/internal/domain/model"

// CoverageDetail explains one tag's contribution to weighted coverage.
type CoverageDetail struct {
	TagSlug  string  `json:"tagSlug"`
	TagName  string  `json:"tagName"`
	Solved   int     `json:"solved"`
	Weight   float64 `json:"weight"`
	Coverage float64 `json:"coverage"`
	Weighted float64 `json:"weighted"`
}

// WeightedCoverage is the leverage-weighted mean coverage of observed tags.
type WeightedCoverage struct {
	Score   float64          `json:"score"`
	Details []CoverageDetail `json:"details"`
}

// ComputeWeightedCoverage returns sum(weight*coverage)/sum(weight) over the
// given tags only. Details keep input order.
func ComputeWeightedCoverage(tags []model.TagStat, w Weights) WeightedCoverage {
	if len(tags) == 0 {
		return WeightedCoverage{Details: []CoverageDetail{}}
	}

	details := make([]CoverageDetail, 0, len(tags))
	var sumW, sumWeighted float64
	for _, t := range tags {
		weight := w.Weight(t.TagSlug)
		cov := Coverage(t.Solved)
		sumW += weight
		sumWeighted += weight * cov
		details = append(details, CoverageDetail{
			TagSlug:  t.TagSlug,
			TagName:  t.TagName,
			Solved:   t.Solved,
			Weight:   round(weight, 3),
			Coverage: round(cov, 3),
			Weighted: round(weight*cov, 3),
		})
	}
	if sumW == 0 {
		sumW = 1
	}

	return WeightedCoverage{
		Score:   round(clamp(sumWeighted/sumW, 0, 1), 3),
		Details: details,
	}
}
