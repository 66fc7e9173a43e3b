package extraction

import (
	"context"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"tunetag/internal/logging"
)

// Component weights of the consensus score.
const (
	heuristicWeight     = 0.5
	contextWeight       = 0.25
	semanticWeight      = 0.1
	corroborationWeight = 0.15
)

// corroborationCap bounds external lookups to the top-ranked groups so one
// extraction never issues more than a handful of calls.
const corroborationCap = 3

// aggregateScore accumulates the per-component scores of one unique
// (artist, title) group.
type aggregateScore struct {
	artist string
	title  string
	// order is the first-seen position in heuristic declaration order; it is
	// the deterministic tie-break between equally-scored groups.
	order      int
	candidates []Candidate

	heuristicScore     float64
	contextScore       float64
	semanticScore      float64
	corroborationScore float64
}

func (g *aggregateScore) method() string {
	return g.candidates[0].Heuristic
}

func (g *aggregateScore) total() float64 {
	return g.heuristicScore + g.contextScore + g.semanticScore + g.corroborationScore
}

// scoreCandidates groups valid candidates by exact pair identity, computes
// the weighted component scores, and returns the winning group. valid must
// be non-empty and in heuristic declaration order.
func (e *Extractor) scoreCandidates(ctx context.Context, valid []Candidate, meta *Metadata) *aggregateScore {
	groups := groupCandidates(valid)

	for _, group := range groups {
		group.heuristicScore = heuristicWeight * e.heuristicComponent(group)
		group.contextScore = contextWeight * contextComponent(group.artist, group.title, meta)
		group.semanticScore = semanticWeight * e.semanticComponent(group.artist, group.title)
	}

	e.corroborate(ctx, groups)

	winner := groups[0]
	for _, group := range groups[1:] {
		if group.total() > winner.total() {
			winner = group
		}
	}
	return winner
}

func groupCandidates(valid []Candidate) []*aggregateScore {
	index := make(map[string]*aggregateScore, len(valid))
	groups := make([]*aggregateScore, 0, len(valid))
	for _, cand := range valid {
		artist := strings.TrimSpace(cand.Artist)
		title := strings.TrimSpace(cand.Title)
		key := artist + "\x00" + title
		group, ok := index[key]
		if !ok {
			group = &aggregateScore{artist: artist, title: title, order: len(groups)}
			index[key] = group
			groups = append(groups, group)
		}
		group.candidates = append(group.candidates, cand)
	}
	return groups
}

// heuristicComponent rewards both individual heuristic confidence and
// agreement: every vote in the group carries an occurrence-count bonus, so
// two agreeing mid-weight heuristics outscore one strong loner.
func (e *Extractor) heuristicComponent(group *aggregateScore) float64 {
	count := float64(len(group.candidates))
	sum := 0.0
	for _, cand := range group.candidates {
		weight, ok := e.weights[cand.Heuristic]
		if !ok {
			weight = 0.7
		}
		sum += cand.Confidence * weight * (1 + 0.1*count)
	}
	return sum
}

func contextComponent(artist, title string, meta *Metadata) float64 {
	if meta == nil {
		return 0
	}
	score := 0.0

	uploader := strings.ToLower(strings.TrimSpace(meta.Uploader))
	artistLower := strings.ToLower(artist)
	if uploader != "" && (strings.Contains(uploader, artistLower) ||
		strings.HasPrefix(uploader, artistLower) ||
		strings.HasSuffix(uploader, artistLower)) {
		score += 0.3
	}

	titleLower := strings.ToLower(title)
	for _, tag := range meta.Tags {
		tagLower := strings.ToLower(strings.TrimSpace(tag))
		if tagLower == artistLower || tagLower == titleLower {
			score += 0.2
			break
		}
	}

	for _, category := range meta.Categories {
		if strings.EqualFold(strings.TrimSpace(category), "Music") {
			score += 0.1
			break
		}
	}
	return score
}

// semanticComponent measures embedding similarity between the artist and
// title framed as distinct prompts. Scores 0 when no embedder is configured,
// the embedding degenerates, or the embedder fails outright: a broken
// semantic backend lowers scoring richness, never the whole extraction.
func (e *Extractor) semanticComponent(artist, title string) (score float64) {
	if e.embedder == nil {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			score = 0
			e.logger.Warn("semantic scorer fault contained",
				logging.String(logging.FieldEventType, "semantic_panic"),
				logging.Any("panic", r))
		}
	}()
	a := e.embedder.Embed("Artist: " + stripNoise(artist))
	b := e.embedder.Embed("Title: " + stripNoise(title))
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	similarity := cosine(a, b)
	return (similarity + 1) / 2
}

func stripNoise(s string) string {
	cleaned := noiseTokens.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(cleaned, " "))
}

// corroborate adds the external corroboration component for the top groups
// by prior score. Lookups run on a small bounded pool; failures and
// timeouts inside the corroborator resolve to 0.
func (e *Extractor) corroborate(ctx context.Context, groups []*aggregateScore) {
	if e.corrob == nil || len(groups) == 0 {
		return
	}

	ranked := make([]*aggregateScore, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].total() > ranked[j].total()
	})
	if len(ranked) > corroborationCap {
		ranked = ranked[:corroborationCap]
	}

	var eg errgroup.Group
	eg.SetLimit(corroborationCap)
	for _, group := range ranked {
		eg.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					group.corroborationScore = 0
					e.logger.Warn("corroborator fault contained",
						logging.String(logging.FieldEventType, "corroboration_panic"),
						logging.Any("panic", r))
				}
			}()
			group.corroborationScore = corroborationWeight * e.corrob.Corroborate(ctx, group.artist, group.title)
			return nil
		})
	}
	_ = eg.Wait()
}

func cosine(a, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
