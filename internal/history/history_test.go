package history

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)

	if err := s.Record(Entry{Query: "first", Mode: "local", Results: 3, CacheHit: true}, 100); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Record(Entry{Query: "second", Mode: "hybrid", Alpha: 0.3, Results: 10}, 100); err != nil {
		t.Fatalf("record: %v", err)
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// Newest first
	if entries[0].Query != "second" || entries[1].Query != "first" {
		t.Errorf("wrong order: %q, %q", entries[0].Query, entries[1].Query)
	}
	if entries[0].Mode != "hybrid" || entries[0].Alpha != 0.3 {
		t.Errorf("hybrid entry mangled: %+v", entries[0])
	}
	if !entries[1].CacheHit {
		t.Error("cache hit flag lost")
	}
}

func TestRecordPrunes(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 10; i++ {
		if err := s.Record(Entry{Query: "q", Mode: "local"}, 5); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	entries, err := s.Recent(100)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("got %d entries after prune, want 5", len(entries))
	}
}

func TestRecentEmpty(t *testing.T) {
	s := openTestStore(t)
	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}
