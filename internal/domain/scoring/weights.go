package scoring

import "maps"

// DefaultTagWeight applies to any tag missing from the weight table.
const DefaultTagWeight = 0.6

// defaultTable holds the interview leverage of common topics. Higher means
// more interview relevant.
var defaultTable = map[string]float64{ //nolint:gochecknoglobals // read-only table, copied by DefaultTable
	"arrays":               1.0,
	"string":               0.9,
	"hash-table":           1.1,
	"two-pointers":         1.0,
	"sliding-window":       1.1,
	"binary-search":        1.2,
	"sorting":              0.9,
	"stack":                1.0,
	"queue":                0.8,
	"linked-list":          0.8,
	"tree":                 1.2,
	"binary-tree":          1.2,
	"binary-search-tree":   1.1,
	"heap-priority-queue":  1.1,
	"graph":                1.3,
	"breadth-first-search": 1.2,
	"depth-first-search":   1.2,
	"dynamic-programming":  1.35,
	"greedy":               1.1,
	"backtracking":         1.0,
	"bit-manipulation":     0.9,
	"math":                 0.7,
	"union-find":           1.0,
	"trie":                 0.9,
	"intervals":            1.0,
}

// DefaultTable returns a copy of the built-in weight table.
func DefaultTable() map[string]float64 {
	return maps.Clone(defaultTable)
}

// Weights is an immutable tag weight table. The zero value weighs every tag
// with DefaultTagWeight.
type Weights struct {
	table map[string]float64
	def   float64
}

// NewWeights builds a table from layers applied in order, later layers
// overriding earlier ones. Non-positive weights are ignored, and a
// non-positive def falls back to DefaultTagWeight.
func NewWeights(def float64, layers ...map[string]float64) Weights {
	if def <= 0 {
		def = DefaultTagWeight
	}
	table := make(map[string]float64)
	for _, layer := range layers {
		for slug, w := range layer {
			if w > 0 {
				table[slug] = w
			}
		}
	}
	return Weights{table: table, def: def}
}

// DefaultWeights returns the built-in table with the 0.6 default.
func DefaultWeights() Weights {
	return NewWeights(DefaultTagWeight, defaultTable)
}

// Weight returns the leverage of slug, or the default when it is not listed.
func (w Weights) Weight(slug string) float64 {
	if v, ok := w.table[slug]; ok {
		return v
	}
	return w.Default()
}

// Default returns the weight used for unlisted tags.
func (w Weights) Default() float64 {
	if w.def <= 0 {
		return DefaultTagWeight
	}
	return w.def
}

// Len returns the number of listed tags.
func (w Weights) Len() int { return len(w.table) }

// Table returns a copy of the listed weights.
func (w Weights) Table() map[string]float64 { return maps.Clone(w.table) }
