// Package tier maps a total solved count to a named leaderboard band.
package tier

import "math"

// Tier names, lowest first.
const (
	Bronze     = "Bronze"
	Silver     = "Silver"
	Gold       = "Gold"
	Platinum   = "Platinum"
	Diamond    = "Diamond"
	Iridescent = "Iridescent"
)

// Band is an inclusive range of total solved counts.
type Band struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

// bands are ordered, contiguous and cover every count >= 0.
var bands = [...]Band{ //nolint:gochecknoglobals // immutable lookup table
	{Name: Bronze, Min: 0, Max: 99},
	{Name: Silver, Min: 100, Max: 299},
	{Name: Gold, Min: 300, Max: 599},
	{Name: Platinum, Min: 600, Max: 999},
	{Name: Diamond, Min: 1000, Max: 1499},
	{Name: Iridescent, Min: 1500, Max: math.MaxInt},
}

// Bands returns the table lowest first.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands[:])
	return out
}

// Names returns the tier names highest first, the leaderboard display order.
func Names() []string {
	out := make([]string, 0, len(bands))
	for i := len(bands) - 1; i >= 0; i-- {
		out = append(out, bands[i].Name)
	}
	return out
}

// Classify returns the tier for total. Negative totals are Bronze.
func Classify(total int) string {
	for _, b := range bands {
		if total >= b.Min && total <= b.Max {
			return b.Name
		}
	}
	return Bronze
}

// ClassifyPtr classifies an optional total, treating nil as zero.
func ClassifyPtr(total *int) string {
	if total == nil {
		return Bronze
	}
	return Classify(*total)
}

// Lookup returns the band containing total and the band above it, if any.
// Negative totals fall in the lowest band.
func Lookup(total int) (Band, *Band) {
	for i, b := range bands {
		if total <= b.Max {
			if i+1 < len(bands) {
				next := bands[i+1]
				return b, &next
			}
			return b, nil
		}
	}
	return bands[len(bands)-1], nil
}
