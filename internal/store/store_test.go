package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"events", "fired_actions"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist after migrations: %v", table, err)
		}
	}
}

func TestEventRepository_RecordAndList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	base := time.Now().Add(-time.Minute)
	records := []*EventRecord{
		{GestureID: "fist", Kind: "detected", Confidence: 0.95, OccurredAt: base},
		{GestureID: "fist", Kind: "updated", Confidence: 0.93, OccurredAt: base.Add(time.Second)},
		{GestureID: "palm", Kind: "detected", Confidence: 0.88, HandIndex: 1, OccurredAt: base.Add(2 * time.Second)},
		{GestureID: "fist", Kind: "ended", OccurredAt: base.Add(3 * time.Second)},
	}
	for _, e := range records {
		if err := repo.Record(e); err != nil {
			t.Fatalf("failed to record event: %v", err)
		}
		if e.ID == 0 {
			t.Fatal("Record did not assign an id")
		}
	}

	recent, err := repo.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent error = %v", err)
	}
	if len(recent) != 4 {
		t.Fatalf("ListRecent returned %d events, want 4", len(recent))
	}
	// Newest first
	if recent[0].Kind != "ended" || recent[0].GestureID != "fist" {
		t.Errorf("newest event = %s/%s, want fist/ended", recent[0].GestureID, recent[0].Kind)
	}

	fist, err := repo.ListByGesture("fist", 10)
	if err != nil {
		t.Fatalf("ListByGesture error = %v", err)
	}
	if len(fist) != 3 {
		t.Fatalf("ListByGesture(fist) returned %d events, want 3", len(fist))
	}
	for _, e := range fist {
		if e.GestureID != "fist" {
			t.Errorf("ListByGesture(fist) returned event for %q", e.GestureID)
		}
	}

	limited, err := repo.ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent error = %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("ListRecent(2) returned %d events", len(limited))
	}
}

func TestEventRepository_RejectsUnknownKind(t *testing.T) {
	s := newTestStore(t)

	err := s.Events().Record(&EventRecord{GestureID: "fist", Kind: "wiggled"})
	if err == nil {
		t.Fatal("recording an unknown event kind succeeded")
	}
}

func TestEventRepository_Prune(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now()

	for i := 0; i < 3; i++ {
		if err := repo.Record(&EventRecord{GestureID: "fist", Kind: "detected", OccurredAt: old}); err != nil {
			t.Fatalf("failed to record event: %v", err)
		}
	}
	if err := repo.Record(&EventRecord{GestureID: "fist", Kind: "detected", OccurredAt: recent}); err != nil {
		t.Fatalf("failed to record event: %v", err)
	}

	pruned, err := repo.Prune(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("Prune error = %v", err)
	}
	if pruned != 3 {
		t.Errorf("Prune removed %d events, want 3", pruned)
	}

	left, err := repo.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent error = %v", err)
	}
	if len(left) != 1 {
		t.Errorf("%d events left after prune, want 1", len(left))
	}
}

func TestFiredActionRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.FiredActions()

	a := &FiredAction{SessionID: "session-1", GestureID: "shutdown", Action: "system-shutdown"}
	if err := repo.Record(a); err != nil {
		t.Fatalf("failed to record fired action: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("Record did not assign an id")
	}
	if a.FiredAt.IsZero() {
		t.Fatal("Record did not stamp FiredAt")
	}

	// One row per session: a duplicate session id is rejected
	dup := &FiredAction{SessionID: "session-1", GestureID: "shutdown", Action: "system-shutdown"}
	if err := repo.Record(dup); err == nil {
		t.Fatal("recording the same session twice succeeded")
	}

	if err := repo.Record(&FiredAction{SessionID: "session-2", GestureID: "lock", Action: "lock-screen"}); err != nil {
		t.Fatalf("failed to record fired action: %v", err)
	}

	actions, err := repo.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent error = %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("ListRecent returned %d actions, want 2", len(actions))
	}
	if actions[0].SessionID != "session-2" {
		t.Errorf("newest action session = %q, want session-2", actions[0].SessionID)
	}
}
