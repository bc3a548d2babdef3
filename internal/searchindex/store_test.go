package searchindex

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecords() []Record {
	return []Record{
		{ID: "a1", Title: "Aretha Jones", URL: "https://example.com/artists/aretha-jones", Category: CategoryArtists},
		{ID: "s1", Title: "Winter Gala", URL: "https://example.com/shows/winter-gala", Category: CategoryShows, Image: "https://cdn.example.com/gala.jpg"},
		{ID: CrawledPageID, Title: "Home", URL: "https://example.com/", Category: CategoryHome, Description: "Live entertainment"},
	}
}

func TestSnapshotUnavailableBeforeFirstBuild(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Snapshot(context.Background())
	if !errors.Is(err, ErrIndexUnavailable) {
		t.Fatalf("Snapshot() error = %v, want ErrIndexUnavailable", err)
	}
}

func TestReplaceAndSnapshotRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	records := sampleRecords()
	if err := store.Replace(ctx, records); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(snapshot.Records) != len(records) {
		t.Fatalf("snapshot has %d records, want %d", len(snapshot.Records), len(records))
	}
	for i, record := range snapshot.Records {
		if record != records[i] {
			t.Errorf("record[%d] = %+v, want %+v", i, record, records[i])
		}
	}
	if snapshot.RebuiltAt.IsZero() {
		t.Error("RebuiltAt should be set after Replace")
	}
	if since := time.Since(snapshot.RebuiltAt); since < 0 || since > time.Minute {
		t.Errorf("RebuiltAt %v not close to now", snapshot.RebuiltAt)
	}
}

func TestReplaceOverwritesPreviousBuild(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Replace(ctx, sampleRecords()); err != nil {
		t.Fatalf("first Replace() error = %v", err)
	}
	replacement := []Record{
		{ID: "b1", Title: "Blog Post", URL: "https://example.com/blog/post", Category: CategoryBlog},
	}
	if err := store.Replace(ctx, replacement); err != nil {
		t.Fatalf("second Replace() error = %v", err)
	}

	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(snapshot.Records) != 1 {
		t.Fatalf("snapshot has %d records after overwrite, want 1", len(snapshot.Records))
	}
	if snapshot.Records[0].URL != "https://example.com/blog/post" {
		t.Errorf("unexpected surviving record %+v", snapshot.Records[0])
	}
}

func TestReplaceEmptySetStillStampsRebuild(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Replace(ctx, nil); err != nil {
		t.Fatalf("Replace(nil) error = %v", err)
	}
	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(snapshot.Records) != 0 {
		t.Fatalf("snapshot has %d records, want 0", len(snapshot.Records))
	}
	if snapshot.RebuiltAt.IsZero() {
		t.Error("RebuiltAt should be set even for an empty build")
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Replace(ctx, sampleRecords()); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	snapshot, err := reopened.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() after reopen error = %v", err)
	}
	if len(snapshot.Records) != 3 {
		t.Errorf("snapshot has %d records after reopen, want 3", len(snapshot.Records))
	}
}

func TestCountsByCategory(t *testing.T) {
	snapshot := &Snapshot{Records: append(sampleRecords(),
		Record{ID: "a2", Title: "Duo", URL: "https://example.com/artists/duo", Category: CategoryArtists},
	)}
	counts := snapshot.CountsByCategory()
	if counts[CategoryArtists] != 2 {
		t.Errorf("artists count = %d, want 2", counts[CategoryArtists])
	}
	if counts[CategoryHome] != 1 {
		t.Errorf("home count = %d, want 1", counts[CategoryHome])
	}
}

func TestExportJSON(t *testing.T) {
	snapshot := &Snapshot{Records: sampleRecords(), RebuiltAt: time.Now()}
	path := filepath.Join(t.TempDir(), "export", "search_index.json")

	if err := snapshot.ExportJSON(path); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var decoded []Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("export has %d records, want 3", len(decoded))
	}
	if decoded[2].ID != CrawledPageID {
		t.Errorf("crawled page id = %q, want %q", decoded[2].ID, CrawledPageID)
	}
}

func TestIsServiceCandidate(t *testing.T) {
	cases := []struct {
		category string
		want     bool
	}{
		{CategoryHome, true},
		{CategoryBlog, true},
		{"Blog", true},
		{CategoryArtists, false},
		{CategoryShows, false},
		{CategoryPress, false},
		{"", false},
	}
	for _, tc := range cases {
		record := Record{Category: tc.category}
		if got := record.IsServiceCandidate(); got != tc.want {
			t.Errorf("IsServiceCandidate(%q) = %v, want %v", tc.category, got, tc.want)
		}
	}
}
