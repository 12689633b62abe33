package history

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/colebaker/ytfetch/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := Record{
		SessionID: "sess-1",
		JobID:     "job-1",
		URL:       "https://youtu.be/abc",
		Format:    "mp4",
		Quality:   "720p",
		State:     domain.StateCompleted,
		Filename:  "job-1-video.mp4",
	}
	if err := store.Record(ctx, rec); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	records, err := store.BySession(ctx, "sess-1", 10)
	if err != nil {
		t.Fatalf("BySession failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	got := records[0]
	if got.JobID != "job-1" {
		t.Errorf("JobID = %q, want %q", got.JobID, "job-1")
	}
	if got.State != domain.StateCompleted {
		t.Errorf("State = %q, want %q", got.State, domain.StateCompleted)
	}
	if got.Filename != "job-1-video.mp4" {
		t.Errorf("Filename = %q, want %q", got.Filename, "job-1-video.mp4")
	}
	if got.FinishedAt.IsZero() {
		t.Error("FinishedAt should be set")
	}
}

func TestStore_Record_RejectsNonTerminal(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, state := range []domain.JobState{domain.StateReady, domain.StateDownloading, domain.StateProcessing} {
		err := store.Record(ctx, Record{
			SessionID: "sess-1",
			JobID:     "job-1",
			State:     state,
		})
		if err == nil {
			t.Errorf("Record(%q) should fail", state)
		}
	}
}

func TestStore_BySession_Isolation(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	store.Record(ctx, Record{SessionID: "sess-a", JobID: "job-1", State: domain.StateCompleted})
	store.Record(ctx, Record{SessionID: "sess-b", JobID: "job-2", State: domain.StateError})

	records, err := store.BySession(ctx, "sess-a", 10)
	if err != nil {
		t.Fatalf("BySession failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	if records[0].JobID != "job-1" {
		t.Errorf("JobID = %q, want %q", records[0].JobID, "job-1")
	}
}

func TestStore_BySession_OrderAndLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		store.Record(ctx, Record{
			SessionID:  "sess-1",
			JobID:      domain.JobID(string(rune('a' + i))),
			State:      domain.StateCompleted,
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	records, err := store.BySession(ctx, "sess-1", 3)
	if err != nil {
		t.Fatalf("BySession failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	// Newest first.
	if records[0].JobID != "e" || records[2].JobID != "c" {
		t.Errorf("unexpected order: %q, %q, %q", records[0].JobID, records[1].JobID, records[2].JobID)
	}
}

func TestStore_BySession_Empty(t *testing.T) {
	store := testStore(t)

	records, err := store.BySession(context.Background(), "no-such-session", 10)
	if err != nil {
		t.Fatalf("BySession failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len = %d, want 0", len(records))
	}
}
