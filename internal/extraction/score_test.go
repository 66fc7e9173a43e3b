package extraction

import (
	"context"
	"sync"
	"testing"
)

type countingCorroborator struct {
	mu    sync.Mutex
	calls []string
	score func(artist, title string) float64
}

func (c *countingCorroborator) Corroborate(_ context.Context, artist, title string) float64 {
	c.mu.Lock()
	c.calls = append(c.calls, artist+" / "+title)
	c.mu.Unlock()
	if c.score == nil {
		return 0
	}
	return c.score(artist, title)
}

func TestScoreCandidatesAgreementBeatsLoner(t *testing.T) {
	e := New(Options{})
	valid := []Candidate{
		{Artist: "Wrong Band", Title: "Other Song", Confidence: 0.9, Heuristic: "separator"},
		{Artist: "Right Band", Title: "Right Song", Confidence: 0.8, Heuristic: "featured"},
		{Artist: "Right Band", Title: "Right Song", Confidence: 0.8, Heuristic: "by_split"},
	}
	winner := e.scoreCandidates(context.Background(), valid, &Metadata{})
	if winner.artist != "Right Band" || winner.title != "Right Song" {
		t.Fatalf("expected the two-vote group to win, got (%q, %q)", winner.artist, winner.title)
	}
	if winner.method() != "featured" {
		t.Fatalf("method should be the group's first vote, got %q", winner.method())
	}
}

func TestScoreCandidatesTieBreakFirstSeen(t *testing.T) {
	// featured and by_split share confidence and weight, so the two
	// single-vote groups score identically and declaration order decides.
	e := New(Options{})
	valid := []Candidate{
		{Artist: "Alpha Band", Title: "First Song", Confidence: 0.8, Heuristic: "featured"},
		{Artist: "Beta Band", Title: "Second Song", Confidence: 0.8, Heuristic: "by_split"},
	}
	for range 20 {
		winner := e.scoreCandidates(context.Background(), valid, &Metadata{})
		if winner.artist != "Alpha Band" {
			t.Fatalf("tie should resolve to the first-seen group, got %q", winner.artist)
		}
	}
}

func TestCorroborationLimitedToTopGroups(t *testing.T) {
	corrob := &countingCorroborator{}
	e := New(Options{Corroborator: corrob})
	valid := []Candidate{
		{Artist: "Group One", Title: "Song One", Confidence: 0.9, Heuristic: "separator"},
		{Artist: "Group Two", Title: "Song Two", Confidence: 0.8, Heuristic: "featured"},
		{Artist: "Group Three", Title: "Song Three", Confidence: 0.8, Heuristic: "by_split"},
		{Artist: "Group Four", Title: "Song Four", Confidence: 0.75, Heuristic: "artist_list"},
		{Artist: "Group Five", Title: "Song Five", Confidence: 0.7, Heuristic: "length_swap"},
	}
	e.scoreCandidates(context.Background(), valid, &Metadata{})
	if len(corrob.calls) != corroborationCap {
		t.Fatalf("expected %d corroboration calls, got %d (%v)", corroborationCap, len(corrob.calls), corrob.calls)
	}
}

func TestCorroborationCanFlipWinner(t *testing.T) {
	corrob := &countingCorroborator{score: func(artist, _ string) float64 {
		if artist == "Backed Band" {
			return 1.0
		}
		return 0
	}}
	e := New(Options{Corroborator: corrob})
	valid := []Candidate{
		{Artist: "Loud Band", Title: "Loud Song", Confidence: 0.9, Heuristic: "separator"},
		{Artist: "Backed Band", Title: "Backed Song", Confidence: 0.8, Heuristic: "featured"},
	}
	winner := e.scoreCandidates(context.Background(), valid, &Metadata{})
	// separator: 0.9*1.0*1.1*0.5 = 0.495; featured: 0.8*0.9*1.1*0.5 = 0.396
	// plus corroboration 0.15 = 0.546.
	if winner.artist != "Backed Band" {
		t.Fatalf("corroborated group should win, got %q", winner.artist)
	}
}

func TestContextComponent(t *testing.T) {
	meta := &Metadata{
		Uploader:   "Daft Punk Official",
		Tags:       []string{"electronic", "One More Time"},
		Categories: []string{"Music"},
	}
	if got := contextComponent("Daft Punk", "One More Time", meta); got != 0.6 {
		t.Fatalf("expected 0.6, got %v", got)
	}
	if got := contextComponent("Daft Punk", "One More Time", nil); got != 0 {
		t.Fatalf("nil metadata should score 0, got %v", got)
	}
	if got := contextComponent("Unrelated", "Nothing Here", &Metadata{Uploader: "someone"}); got != 0 {
		t.Fatalf("no signals should score 0, got %v", got)
	}
}

func TestSemanticComponent(t *testing.T) {
	bare := New(Options{})
	if got := bare.semanticComponent("Artist", "Title"); got != 0 {
		t.Fatalf("no embedder should score 0, got %v", got)
	}

	e := New(Options{Embedder: TermEmbedder{}})
	got := e.semanticComponent("Daft Punk", "One More Time")
	if got < 0 || got > 1 {
		t.Fatalf("semantic component out of range: %v", got)
	}
}

func TestCosine(t *testing.T) {
	if got := cosine([]float64{1, 0}, []float64{1, 0}); got != 1 {
		t.Fatalf("identical vectors: got %v", got)
	}
	if got := cosine([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Fatalf("orthogonal vectors: got %v", got)
	}
	if got := cosine(nil, []float64{1}); got != 0 {
		t.Fatalf("degenerate input: got %v", got)
	}
}

func TestGroupCandidatesPreservesFirstSeenOrder(t *testing.T) {
	valid := []Candidate{
		{Artist: "One", Title: "Song A", Heuristic: "separator"},
		{Artist: "Two", Title: "Song B", Heuristic: "featured"},
		{Artist: "One", Title: "Song A", Heuristic: "by_split"},
	}
	groups := groupCandidates(valid)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].artist != "One" || groups[0].order != 0 || len(groups[0].candidates) != 2 {
		t.Fatalf("first group malformed: %+v", groups[0])
	}
	if groups[1].artist != "Two" || groups[1].order != 1 {
		t.Fatalf("second group malformed: %+v", groups[1])
	}
}

func TestMergeWeights(t *testing.T) {
	merged := mergeWeights(map[string]float64{"separator": 0.5, "bogus": -1})
	if merged["separator"] != 0.5 {
		t.Fatalf("override not applied: %v", merged["separator"])
	}
	if merged["featured"] != defaultWeights["featured"] {
		t.Fatalf("untouched weight changed: %v", merged["featured"])
	}
	if _, ok := merged["bogus"]; ok {
		t.Fatal("non-positive override should be ignored")
	}
}
