package extraction

import (
	"context"
)

// Metadata carries the uploader-supplied context for one media item. All
// fields are optional; the zero value disables every context signal.
type Metadata struct {
	Title           string
	Description     string
	Uploader        string
	Tags            []string
	Categories      []string
	Duration        float64 // seconds
	ViewCount       int64
	ChannelVerified bool

	// Artist and Track, when both present, come from a structured provider
	// and bypass the heuristic pipeline entirely.
	Artist string
	Track  string
}

// Candidate is one heuristic's proposed pair with its self-declared
// confidence. Candidates are created fresh per extraction call and discarded
// after scoring.
type Candidate struct {
	Artist     string
	Title      string
	Confidence float64
	Heuristic  string
}

// Result is the outcome of one extraction. Method names the winning
// heuristic or a terminal outcome tag (metadata, fallback, too_short,
// non_music, error). Err is empty unless the extraction failed outright.
type Result struct {
	Artist     string  `json:"artist"`
	Title      string  `json:"title"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
	Err        string  `json:"error,omitempty"`
}

// Terminal method tags.
const (
	MethodMetadata = "metadata"
	MethodFallback = "fallback"
	MethodTooShort = "too_short"
	MethodNonMusic = "non_music"
	MethodError    = "error"
)

// Corroborator checks a candidate pair against an external knowledge source.
// Implementations must be safe for arbitrary free text and must resolve
// failures to 0 rather than returning errors.
type Corroborator interface {
	Corroborate(ctx context.Context, artist, title string) float64
}

// Embedder maps text to a vector for the semantic similarity component.
type Embedder interface {
	Embed(text string) []float64
}

// EntityRecognizer detects person names in free text for the optional
// named-entity heuristic.
type EntityRecognizer interface {
	People(text string) []string
}

// Observer receives pipeline notifications at defined points so callers can
// attach metrics without the core depending on a metrics backend.
type Observer interface {
	ExtractionStarted(rawTitle string)
	HeuristicFailed(heuristic string)
	MethodChosen(method string, confidence float64)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) ExtractionStarted(string) {}

func (NopObserver) HeuristicFailed(string) {}

func (NopObserver) MethodChosen(string, float64) {}
