package scoring

import (
	"cmp"
	"slices"

	"github.com/devakmmm/LeetInsight/internal/domain/model"
)

const (
	// DefaultTopN is the number of topics recommended when none is requested.
	DefaultTopN = 7

	// minOpportunity drops topics not worth recommending.
	minOpportunity = 0.25

	highLeverageWeight = 1.2
	lowCoverage        = 0.4

	whyHighLeverage = "High interview-leverage topic"
	whyCommon       = "Common interview topic"
	whyLowCoverage  = "Low coverage based on your solved count"
	whyModerateGap  = "Moderate gap remaining"
	whyFaster       = "Improves breadth and readiness faster than grinding random problems"

	// NextAction is attached to every recommendation.
	NextAction = "Solve 5 problems across Easy→Medium, then reassess"
)

// Recommendation is a topic ranked by opportunity cost.
type Recommendation struct {
	TagSlug     string   `json:"tagSlug"`
	TagName     string   `json:"tagName"`
	Solved      int      `json:"solved"`
	Weight      float64  `json:"weight"`
	Coverage    float64  `json:"coverage"`
	Opportunity float64  `json:"opportunity"`
	Why         []string `json:"why"`
	NextAction  string   `json:"nextAction"`
}

// Recommend ranks tags by weight*(1-coverage), keeps those with an
// opportunity of at least 0.25 and returns the first topN. Ties are broken by
// tag slug. A non-positive topN means DefaultTopN.
func Recommend(tags []model.TagStat, w Weights, topN int) []Recommendation {
	if topN <= 0 {
		topN = DefaultTopN
	}

	ranked := make([]Recommendation, 0, len(tags))
	for _, t := range tags {
		weight := w.Weight(t.TagSlug)
		cov := Coverage(t.Solved)
		ranked = append(ranked, Recommendation{
			TagSlug:     t.TagSlug,
			TagName:     t.TagName,
			Solved:      t.Solved,
			Weight:      round(weight, 2),
			Coverage:    round(cov, 3),
			Opportunity: round(weight*(1-cov), 3),
		})
	}

	slices.SortStableFunc(ranked, func(a, b Recommendation) int {
		if c := cmp.Compare(b.Opportunity, a.Opportunity); c != 0 {
			return c
		}
		return cmp.Compare(a.TagSlug, b.TagSlug)
	})

	out := make([]Recommendation, 0, topN)
	for _, r := range ranked {
		if len(out) == topN {
			break
		}
		if r.Opportunity < minOpportunity {
			// sorted descending: nothing after this qualifies
			break
		}
		r.Why = rationale(r)
		r.NextAction = NextAction
		out = append(out, r)
	}
	return out
}

func rationale(r Recommendation) []string {
	why := make([]string, 0, 3)
	if r.Weight >= highLeverageWeight {
		why = append(why, whyHighLeverage)
	} else {
		why = append(why, whyCommon)
	}
	if r.Coverage < lowCoverage {
		why = append(why, whyLowCoverage)
	} else {
		why = append(why, whyModerateGap)
	}
	return append(why, whyFaster)
}
