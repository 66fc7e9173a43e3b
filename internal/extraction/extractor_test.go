package extraction

import (
	"context"
	"reflect"
	"sync"
	"testing"
)

func TestExtractSeparatorConsensus(t *testing.T) {
	e := New(Options{})
	meta := &Metadata{Duration: 240, ViewCount: 5000}
	result := e.Extract(context.Background(), "Artist Name - Song Title (Official Video)", meta)

	if result.Artist != "Artist Name" || result.Title != "Song Title" {
		t.Fatalf("got (%q, %q)", result.Artist, result.Title)
	}
	if result.Method != "separator" {
		t.Fatalf("expected separator method, got %q", result.Method)
	}
	if result.Confidence <= 0.8 {
		t.Fatalf("expected high confidence, got %v", result.Confidence)
	}
	if result.Err != "" {
		t.Fatalf("unexpected error %q", result.Err)
	}
}

func TestExtractParenthetical(t *testing.T) {
	e := New(Options{})
	result := e.Extract(context.Background(), "Something Good (Alt J)", nil)
	if result.Artist != "Alt J" || result.Title != "Something Good" {
		t.Fatalf("got (%q, %q) via %q", result.Artist, result.Title, result.Method)
	}
	if result.Method != "parenthetical" {
		t.Fatalf("expected parenthetical method, got %q", result.Method)
	}
}

func TestExtractMetadataBypass(t *testing.T) {
	e := New(Options{})
	meta := &Metadata{Artist: "Daft Punk", Track: "One More Time"}
	result := e.Extract(context.Background(), "Full Album Mix 2021", meta)
	if result.Method != MethodMetadata {
		t.Fatalf("expected metadata bypass, got %q", result.Method)
	}
	if result.Artist != "Daft Punk" || result.Title != "One More Time" {
		t.Fatalf("got (%q, %q)", result.Artist, result.Title)
	}
	if result.Confidence != 0.98 {
		t.Fatalf("expected 0.98, got %v", result.Confidence)
	}
}

func TestExtractNonMusic(t *testing.T) {
	e := New(Options{})
	result := e.Extract(context.Background(), "Full Album Mix 2021", nil)
	if result.Method != MethodNonMusic {
		t.Fatalf("expected non_music, got %q", result.Method)
	}
	if result.Artist != "Error" || result.Confidence != 0.15 {
		t.Fatalf("got artist %q confidence %v", result.Artist, result.Confidence)
	}
	if result.Err == "" {
		t.Fatal("expected an error message")
	}
}

func TestExtractTooShort(t *testing.T) {
	e := New(Options{})
	result := e.Extract(context.Background(), "Hi", nil)
	if result.Method != MethodTooShort {
		t.Fatalf("expected too_short, got %q", result.Method)
	}
	if result.Artist != "Error" || result.Confidence != 0.1 {
		t.Fatalf("got artist %q confidence %v", result.Artist, result.Confidence)
	}
}

func TestExtractFallback(t *testing.T) {
	e := New(Options{})
	result := e.Extract(context.Background(), "hello world sunshine", nil)
	if result.Method != MethodFallback {
		t.Fatalf("expected fallback, got %q", result.Method)
	}
	if result.Artist != "Unknown" {
		t.Fatalf("expected Unknown artist, got %q", result.Artist)
	}
	if result.Title != "hello world sunshine" {
		t.Fatalf("fallback should keep the normalized title, got %q", result.Title)
	}
	if result.Confidence != 0.1 {
		t.Fatalf("got confidence %v", result.Confidence)
	}
	if result.Err != "" {
		t.Fatalf("fallback is not an error, got %q", result.Err)
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := New(Options{Embedder: TermEmbedder{}, Entities: NameRecognizer{}})
	meta := &Metadata{Uploader: "Some Channel", Tags: []string{"music"}}
	first := e.Extract(context.Background(), "Taylor Swift - Shake It Off ft. Nobody", meta)
	for range 10 {
		again := e.Extract(context.Background(), "Taylor Swift - Shake It Off ft. Nobody", meta)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("extraction not deterministic: %+v vs %+v", first, again)
		}
	}
}

type panickingEmbedder struct{}

func (panickingEmbedder) Embed(string) []float64 { panic("embedder blew up") }

func TestExtractContainsEmbedderPanic(t *testing.T) {
	e := New(Options{Embedder: panickingEmbedder{}})
	result := e.Extract(context.Background(), "Artist Name - Song Title", nil)
	if result.Artist != "Artist Name" || result.Title != "Song Title" {
		t.Fatalf("got (%q, %q)", result.Artist, result.Title)
	}
	if result.Method != "separator" {
		t.Fatalf("expected separator method, got %q", result.Method)
	}
	if result.Err != "" {
		t.Fatalf("embedder fault must not surface, got %q", result.Err)
	}

	healthy := New(Options{})
	baseline := healthy.Extract(context.Background(), "Artist Name - Song Title", nil)
	if result.Confidence != baseline.Confidence {
		t.Fatalf("broken embedder changed confidence: %v vs %v", result.Confidence, baseline.Confidence)
	}
}

type panickingCorroborator struct{}

func (panickingCorroborator) Corroborate(context.Context, string, string) float64 {
	panic("lookup backend gone")
}

func TestExtractContainsCorroboratorPanic(t *testing.T) {
	e := New(Options{Corroborator: panickingCorroborator{}})
	result := e.Extract(context.Background(), "Artist Name - Song Title", nil)
	if result.Artist != "Artist Name" || result.Title != "Song Title" {
		t.Fatalf("got (%q, %q)", result.Artist, result.Title)
	}
	if result.Err != "" {
		t.Fatalf("corroborator fault must not surface, got %q", result.Err)
	}
}

type panickingObserver struct{ NopObserver }

func (panickingObserver) ExtractionStarted(string) { panic("observer blew up") }

func TestExtractRecoversFromPipelinePanic(t *testing.T) {
	e := New(Options{Observer: panickingObserver{}})
	result := e.Extract(context.Background(), "Artist Name - Song Title", nil)
	if result.Method != MethodError {
		t.Fatalf("expected error method, got %q", result.Method)
	}
	if result.Artist != "Error" || result.Err == "" {
		t.Fatalf("got artist %q err %q", result.Artist, result.Err)
	}
	if result.Confidence != 0 {
		t.Fatalf("got confidence %v", result.Confidence)
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	started  []string
	chosen   []string
	failures []string
}

func (o *recordingObserver) ExtractionStarted(rawTitle string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, rawTitle)
}

func (o *recordingObserver) HeuristicFailed(heuristic string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, heuristic)
}

func (o *recordingObserver) MethodChosen(method string, _ float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.chosen = append(o.chosen, method)
}

func TestExtractNotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	e := New(Options{Observer: obs})
	e.Extract(context.Background(), "Artist Name - Song Title", nil)
	if len(obs.started) != 1 || obs.started[0] != "Artist Name - Song Title" {
		t.Fatalf("started notifications: %v", obs.started)
	}
	if len(obs.chosen) != 1 || obs.chosen[0] != "separator" {
		t.Fatalf("chosen notifications: %v", obs.chosen)
	}
}

func TestHeuristicIDs(t *testing.T) {
	plain := New(Options{})
	ids := plain.HeuristicIDs()
	if len(ids) == 0 || ids[0] != "description" || ids[1] != "separator" {
		t.Fatalf("unexpected order: %v", ids)
	}
	for _, id := range ids {
		if id == "entity" {
			t.Fatal("entity heuristic should be absent without a recognizer")
		}
	}

	withEntities := New(Options{Entities: NameRecognizer{}})
	ids = withEntities.HeuristicIDs()
	if ids[len(ids)-1] != "entity" {
		t.Fatalf("entity heuristic should be appended, got %v", ids)
	}
}

func TestExtractConcurrentUse(t *testing.T) {
	e := New(Options{Embedder: TermEmbedder{}})
	titles := []string{
		"Artist Name - Song Title",
		"Something Good (Alt J)",
		"Full Album Mix 2021",
		"hello world sunshine",
	}
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, title := range titles {
				e.Extract(context.Background(), title, &Metadata{Duration: 200})
			}
		}()
	}
	wg.Wait()
}
