package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tunetag/internal/fetch"
	"tunetag/internal/logging"
)

type failingDumper struct{}

func (failingDumper) DumpJSON(context.Context, string) (string, error) {
	return "", errors.New("probe unreachable")
}

func TestResolveMetadataDerivesTitleFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := fetch.New(2*time.Second, time.Minute, logging.NewNop(),
		fetch.WithDumper(failingDumper{}),
		fetch.WithOEmbedBaseURL(server.URL))

	meta, err := resolveMetadata(context.Background(), fetcher, logging.NewNop(),
		"https://cdn.example.com/media/my_cool_song.mp3")
	if err != nil {
		t.Fatalf("resolveMetadata: %v", err)
	}
	if meta.Title != "My Cool Song" {
		t.Fatalf("expected url-derived title, got %q", meta.Title)
	}
}

func TestResolveMetadataPropagatesOtherErrors(t *testing.T) {
	fetcher := fetch.New(2*time.Second, time.Minute, logging.NewNop(),
		fetch.WithDumper(failingDumper{}))

	if _, err := resolveMetadata(context.Background(), fetcher, logging.NewNop(), ""); err == nil {
		t.Fatal("expected error for empty url")
	}
}
