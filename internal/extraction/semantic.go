package extraction

import (
	"hash/fnv"
	"strings"
)

// termEmbedderDims is the dimensionality of the hashed term-frequency space.
const termEmbedderDims = 64

// TermEmbedder is the built-in Embedder: a hashed term-frequency vectorizer.
// It carries none of the nuance of a learned model but gives the semantic
// component a deterministic, dependency-free default.
type TermEmbedder struct{}

// Embed maps text to a fixed-size term-frequency vector.
func (TermEmbedder) Embed(text string) []float64 {
	vec := make([]float64, termEmbedderDims)
	empty := true
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,:;!?\"'()[]")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vec[h.Sum32()%termEmbedderDims]++
		empty = false
	}
	if empty {
		return nil
	}
	return vec
}
