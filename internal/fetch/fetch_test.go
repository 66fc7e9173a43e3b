package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tunetag/internal/fetch"
)

type stubDumper struct {
	calls   atomic.Int64
	payload string
	err     error
	delay   time.Duration
}

func (s *stubDumper) DumpJSON(ctx context.Context, _ string) (string, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.payload, s.err
}

func oembedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" {
			t.Fatalf("expected format=json, got %q", r.URL.RawQuery)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchPrefersStructuredProbe(t *testing.T) {
	dumper := &stubDumper{payload: `{"title":"Artist - Song","uploader":"Channel","duration":240,"view_count":1234,"tags":["music"]}`}
	server := oembedServer(t, http.StatusOK, `{"title":"oembed title","author_name":"other"}`)

	f := fetch.New(5*time.Second, time.Minute, nil,
		fetch.WithDumper(dumper), fetch.WithOEmbedBaseURL(server.URL))

	meta, err := f.Fetch(context.Background(), "https://example.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if meta.Title != "Artist - Song" || meta.Uploader != "Channel" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.Duration != 240 || meta.ViewCount != 1234 {
		t.Fatalf("numeric fields lost: %+v", meta)
	}
}

func TestFetchFallsBackToOEmbed(t *testing.T) {
	dumper := &stubDumper{err: errors.New("yt-dlp missing")}
	server := oembedServer(t, http.StatusOK, `{"title":"Fallback Title","author_name":"Fallback Channel"}`)

	f := fetch.New(5*time.Second, time.Minute, nil,
		fetch.WithDumper(dumper), fetch.WithOEmbedBaseURL(server.URL))

	meta, err := f.Fetch(context.Background(), "https://example.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if meta.Title != "Fallback Title" || meta.Uploader != "Fallback Channel" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestFetchMetadataUnavailable(t *testing.T) {
	dumper := &stubDumper{payload: `{"title":""}`}
	server := oembedServer(t, http.StatusNotFound, "")

	f := fetch.New(5*time.Second, time.Minute, nil,
		fetch.WithDumper(dumper), fetch.WithOEmbedBaseURL(server.URL))

	_, err := f.Fetch(context.Background(), "https://example.com/watch?v=abc")
	if !errors.Is(err, fetch.ErrMetadataUnavailable) {
		t.Fatalf("expected ErrMetadataUnavailable, got %v", err)
	}
}

func TestFetchCachesByURL(t *testing.T) {
	dumper := &stubDumper{payload: `{"title":"Cached Title"}`}
	server := oembedServer(t, http.StatusOK, `{"title":"unused"}`)

	f := fetch.New(5*time.Second, time.Minute, nil,
		fetch.WithDumper(dumper), fetch.WithOEmbedBaseURL(server.URL))

	for range 3 {
		if _, err := f.Fetch(context.Background(), "https://example.com/watch?v=abc"); err != nil {
			t.Fatalf("Fetch returned error: %v", err)
		}
	}
	if got := dumper.calls.Load(); got != 1 {
		t.Fatalf("expected one probe, got %d", got)
	}
}

func TestFetchEmptyURL(t *testing.T) {
	f := fetch.New(time.Second, time.Minute, nil, fetch.WithDumper(&stubDumper{}))
	if _, err := f.Fetch(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestFetchTimeoutCoversBothPaths(t *testing.T) {
	dumper := &stubDumper{payload: `{"title":"Late"}`, delay: time.Second}
	server := oembedServer(t, http.StatusNotFound, "")

	f := fetch.New(20*time.Millisecond, time.Minute, nil,
		fetch.WithDumper(dumper), fetch.WithOEmbedBaseURL(server.URL))

	if _, err := f.Fetch(context.Background(), "https://example.com/watch?v=abc"); err == nil {
		t.Fatal("expected timeout-driven failure")
	}
}

func TestTitleFromURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://example.com/tracks/some_great-song.mp3", "Some Great Song"},
		{"https://example.com/", "Unknown Media"},
		{"", "Unknown Media"},
		{"https://example.com/artist+name", "Artist Name"},
	}
	for _, tc := range cases {
		if got := fetch.TitleFromURL(tc.in); got != tc.want {
			t.Fatalf("TitleFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
