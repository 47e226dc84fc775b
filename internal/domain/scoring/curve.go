// Package scoring is the interview readiness engine. Every function is a pure
// computation over solved counts, tag stats, snapshots and an explicit "now".
package scoring

import (
	"math"
	"math/big"
	"time"
)

const (
	// coverageSlope is the solved count at which a topic reaches ~63% coverage.
	coverageSlope = 12.0

	// recencyDecayDays is the e-folding time of the inactivity penalty.
	recencyDecayDays = 14.0

	// recencyFallback is the factor used when no snapshot exists.
	recencyFallback = 0.5

	day = 24 * time.Hour
)

// Coverage maps a solved count to a saturating coverage value in [0, 1).
// Negative counts are treated as zero.
func Coverage(solved int) float64 {
	return 1 - math.Exp(-float64(max(0, solved))/coverageSlope)
}

// Recency returns exp(-daysSince/14) for the last snapshot time, or 0.5 when
// there is none. A last snapshot in the future yields a factor above 1; the
// readiness composer clamps it.
func Recency(lastSnapshotAt *time.Time, now time.Time) float64 {
	if lastSnapshotAt == nil {
		return recencyFallback
	}
	return math.Exp(-daysBetween(*lastSnapshotAt, now) / recencyDecayDays)
}

// daysBetween returns b-a in fractional days.
func daysBetween(a, b time.Time) float64 {
	return float64(b.Sub(a)) / float64(day)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// roundPrec holds x*10^places exactly for any float64 and small places.
const roundPrec = 256

// round rounds the exact binary value of x half away from zero to the given
// number of decimal places. 0.0375 is stored as 0.03749999... and rounds to
// 0.037 at three places.
func round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || places < 0 {
		return x
	}
	scale := new(big.Float).SetPrec(roundPrec).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil))

	y := new(big.Float).SetPrec(roundPrec).SetFloat64(math.Abs(x))
	y.Mul(y, scale)
	y.Add(y, big.NewFloat(0.5))
	n, _ := y.Int(nil)

	out, _ := new(big.Float).SetPrec(roundPrec).Quo(new(big.Float).SetPrec(roundPrec).SetInt(n), scale).Float64()
	if x < 0 {
		return -out
	}
	return out
}
