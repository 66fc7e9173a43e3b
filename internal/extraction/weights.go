package extraction

// defaultWeights maps heuristic IDs to their consensus weights. Values stay
// inside [0.70, 1.0]; explicit author assertions rank highest and the weak
// positional guesses lowest.
var defaultWeights = map[string]float64{
	"description":   1.0,
	"separator":     1.0,
	"featured":      0.9,
	"by_split":      0.9,
	"entity":        0.9,
	"artist_list":   0.85,
	"multi_dash":    0.85,
	"length_swap":   0.8,
	"ascii_split":   0.8,
	"parenthetical": 0.8,
	"brackets":      0.78,
	"comma_swap":    0.75,
	"compact_title": 0.72,
	"capital_split": 0.72,
	"last_word":     0.7,
}

// DefaultWeights returns a copy of the built-in weight table.
func DefaultWeights() map[string]float64 {
	out := make(map[string]float64, len(defaultWeights))
	for id, w := range defaultWeights {
		out[id] = w
	}
	return out
}

func mergeWeights(overrides map[string]float64) map[string]float64 {
	merged := DefaultWeights()
	for id, w := range overrides {
		if w > 0 {
			merged[id] = w
		}
	}
	return merged
}
