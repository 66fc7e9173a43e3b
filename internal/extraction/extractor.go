package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"tunetag/internal/logging"
)

// Options configures an Extractor. Everything is resolved once at
// construction; the resulting Extractor is read-only and safe for concurrent
// use.
type Options struct {
	// Weights overrides entries of the default weight table.
	Weights map[string]float64
	// Corroborator, when non-nil, contributes the external corroboration
	// component during consensus scoring.
	Corroborator Corroborator
	// Embedder, when non-nil, enables the semantic similarity component.
	Embedder Embedder
	// Entities, when non-nil, enables the named-entity heuristic.
	Entities EntityRecognizer
	// Observer receives pipeline notifications; nil means none.
	Observer Observer
	Logger   *slog.Logger
}

// Extractor runs the extraction pipeline. Construct with New.
type Extractor struct {
	heuristics []heuristic
	weights    map[string]float64
	corrob     Corroborator
	embedder   Embedder
	observer   Observer
	logger     *slog.Logger
}

// New builds an Extractor from opts.
func New(opts Options) *Extractor {
	observer := opts.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	return &Extractor{
		heuristics: defaultHeuristics(opts.Entities),
		weights:    mergeWeights(opts.Weights),
		corrob:     opts.Corroborator,
		embedder:   opts.Embedder,
		observer:   observer,
		logger:     logging.NewComponentLogger(opts.Logger, "extraction"),
	}
}

// HeuristicIDs returns the active heuristic identifiers in declaration order.
func (e *Extractor) HeuristicIDs() []string {
	ids := make([]string, 0, len(e.heuristics))
	for _, h := range e.heuristics {
		ids = append(ids, h.id)
	}
	return ids
}

// Extract infers the most probable (artist, title) pair for rawTitle. It is
// pure apart from cache side effects inside the corroborator and never
// returns an error past this boundary: failures surface only through
// Result.Err.
func (e *Extractor) Extract(ctx context.Context, rawTitle string, meta *Metadata) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extraction pipeline fault",
				logging.String(logging.FieldEventType, "extraction_panic"),
				logging.Any("panic", r))
			result = Result{
				Artist:     "Error",
				Title:      orUnknown(rawTitle),
				Confidence: 0,
				Method:     MethodError,
				Err:        fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	e.observer.ExtractionStarted(rawTitle)
	if meta == nil {
		meta = &Metadata{}
	}

	// A structured provider's explicit fields beat every inference.
	if artist, track := strings.TrimSpace(meta.Artist), strings.TrimSpace(meta.Track); artist != "" && track != "" {
		return e.finish(Result{Artist: artist, Title: track, Confidence: 0.98, Method: MethodMetadata})
	}

	normalized := Normalize(rawTitle)
	if len(normalized) < MinTitleLength {
		return e.finish(Result{
			Artist:     "Error",
			Title:      orUnknown(normalized),
			Confidence: 0.1,
			Method:     MethodTooShort,
			Err:        "title too short for extraction",
		})
	}
	if IsNonMusic(normalized) {
		return e.finish(Result{
			Artist:     "Error",
			Title:      normalized,
			Confidence: 0.15,
			Method:     MethodNonMusic,
			Err:        "non-music content detected",
		})
	}

	candidates := e.evaluate(normalized, meta)
	valid := candidates[:0]
	for _, cand := range candidates {
		if ValidPair(cand.Artist, cand.Title) {
			valid = append(valid, cand)
		}
	}

	if len(valid) == 0 {
		return e.finish(Result{
			Artist:     "Unknown",
			Title:      orUnknown(normalized),
			Confidence: 0.1,
			Method:     MethodFallback,
		})
	}

	winner := e.scoreCandidates(ctx, valid, meta)
	confidence := estimateConfidence(len(valid), winner, rawTitle, meta)

	e.logger.Debug("consensus winner",
		logging.String("artist", winner.artist),
		logging.String("title", winner.title),
		logging.String("method", winner.method()),
		logging.Int("votes", len(winner.candidates)),
		logging.Int("valid_candidates", len(valid)),
		logging.Float64("confidence", confidence))

	return e.finish(Result{
		Artist:     winner.artist,
		Title:      winner.title,
		Confidence: confidence,
		Method:     winner.method(),
	})
}

func (e *Extractor) finish(result Result) Result {
	e.observer.MethodChosen(result.Method, result.Confidence)
	return result
}

// evaluate runs every heuristic concurrently and collects non-empty
// candidates in declaration order. A panicking heuristic contributes nothing
// and never aborts the extraction.
func (e *Extractor) evaluate(title string, meta *Metadata) []Candidate {
	slots := make([]Candidate, len(e.heuristics))
	var wg sync.WaitGroup
	for i, h := range e.heuristics {
		wg.Add(1)
		go func(i int, h heuristic) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					e.observer.HeuristicFailed(h.id)
					e.logger.Warn("heuristic fault contained",
						logging.String(logging.FieldEventType, "heuristic_panic"),
						logging.String("heuristic", h.id),
						logging.Any("panic", r))
				}
			}()
			artist, song := h.fn(title, meta)
			artist = strings.TrimSpace(artist)
			song = strings.TrimSpace(song)
			if artist == "" || song == "" {
				return
			}
			slots[i] = Candidate{Artist: artist, Title: song, Confidence: h.confidence, Heuristic: h.id}
		}(i, h)
	}
	wg.Wait()

	out := make([]Candidate, 0, len(slots))
	for _, cand := range slots {
		if cand.Heuristic != "" {
			out = append(out, cand)
		}
	}
	return out
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
