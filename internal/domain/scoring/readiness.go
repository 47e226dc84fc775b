package scoring

// Component weights of the base score. They sum to 1.
const (
	velocityWeight = 0.30
	breadthWeight  = 0.25
	coverageWeight = 0.30
	rampWeight     = 0.15

	// saturatingPerDay is the solve rate that earns full velocity credit.
	saturatingPerDay = 2.0

	recencyFloor   = 0.15
	recencyCeiling = 1.0
)

// ReadinessInput carries the component metrics, each already in [0, 1]
// except VelocityPerDay (solves per day, nil when unknown) and Recency (raw
// decay factor).
type ReadinessInput struct {
	VelocityPerDay   *float64
	Breadth          float64
	Ramp             float64
	WeightedCoverage float64
	Recency          float64
}

// Components are the inputs rescaled to 0-100 for display.
type Components struct {
	Velocity         float64 `json:"velocity"`
	Breadth          float64 `json:"breadth"`
	LeverageCoverage float64 `json:"leverageCoverage"`
	DifficultyRamp   float64 `json:"difficultyRamp"`
	RecencyFactor    float64 `json:"recencyFactor"`
}

// Readiness is the composite score before (Base) and after (Final) the
// recency penalty.
type Readiness struct {
	Base       float64    `json:"base"`
	Final      float64    `json:"final"`
	Components Components `json:"components"`
}

// ComposeReadiness blends the components into a 0-100 score and applies the
// recency factor clamped to [0.15, 1] as a multiplier.
func ComposeReadiness(in ReadinessInput) Readiness {
	var perDay float64
	if in.VelocityPerDay != nil {
		perDay = *in.VelocityPerDay
	}
	v := clamp(perDay/saturatingPerDay, 0, 1)

	base := 100 * (velocityWeight*v +
		breadthWeight*in.Breadth +
		coverageWeight*in.WeightedCoverage +
		rampWeight*in.Ramp)
	final := base * clamp(in.Recency, recencyFloor, recencyCeiling)

	return Readiness{
		Base:  round(base, 1),
		Final: round(final, 1),
		Components: Components{
			Velocity:         round(100*v, 1),
			Breadth:          round(100*in.Breadth, 1),
			LeverageCoverage: round(100*in.WeightedCoverage, 1),
			DifficultyRamp:   round(100*in.Ramp, 1),
			RecencyFactor:    round(in.Recency, 3),
		},
	}
}
