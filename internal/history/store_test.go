package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tunetag/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, err := store.Add(ctx, history.Record{
		URL:        "https://example.com/watch?v=1",
		Artist:     "Daft Punk",
		Title:      "One More Time",
		Confidence: 0.92,
		Method:     "separator",
		Action:     history.ActionIdentify,
	})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("record not stamped: %+v", first)
	}

	time.Sleep(2 * time.Millisecond) // distinct created_at ordering
	if _, err := store.Add(ctx, history.Record{
		URL:    "https://example.com/watch?v=2",
		Artist: "Alt J",
		Title:  "Something Good",
		Method: "parenthetical",
		Action: history.ActionDownload,
	}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Artist != "Alt J" {
		t.Fatalf("expected newest first, got %+v", records[0])
	}
	if records[1].Confidence != 0.92 || records[1].Method != "separator" {
		t.Fatalf("record fields lost: %+v", records[1])
	}
}

func TestListLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	for range 5 {
		if _, err := store.Add(ctx, history.Record{
			URL: "https://example.com", Artist: "A", Title: "T",
			Method: "separator", Action: history.ActionIdentify,
		}); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}
	records, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

func TestAddRejectsUnknownAction(t *testing.T) {
	store := openStore(t)
	if _, err := store.Add(context.Background(), history.Record{Action: "purge"}); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestClear(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	for range 3 {
		if _, err := store.Add(ctx, history.Record{
			URL: "https://example.com", Artist: "A", Title: "T",
			Method: "separator", Action: history.ActionIdentify,
		}); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}

	deleted, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deleted, got %d", deleted)
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d", len(records))
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, err := store.Add(context.Background(), history.Record{
		URL: "https://example.com", Artist: "A", Title: "T",
		Method: "separator", Action: history.ActionIdentify,
	}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	records, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected persisted record, got %d", len(records))
	}
}
