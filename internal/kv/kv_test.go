package kv

import (
	"context"
	"path/filepath"
	"testing"
)

// backends that should all behave identically for get/set round-trips.
func testBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFile(filepath.Join(dir, "filedata"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	sqlite, err := NewSQLite(filepath.Join(dir, "kv.db"))
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": sqlite,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get(ctx, "expenses"); err != nil || ok {
				t.Fatalf("fresh store: expected absent, got ok=%v err=%v", ok, err)
			}

			if err := s.Set(ctx, "expenses", `[{"id":"1"}]`); err != nil {
				t.Fatalf("set: %v", err)
			}
			v, ok, err := s.Get(ctx, "expenses")
			if err != nil || !ok {
				t.Fatalf("get: ok=%v err=%v", ok, err)
			}
			if v != `[{"id":"1"}]` {
				t.Fatalf("unexpected value %q", v)
			}

			// Overwrite is last-writer-wins.
			if err := s.Set(ctx, "expenses", `[]`); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			v, _, _ = s.Get(ctx, "expenses")
			if v != `[]` {
				t.Fatalf("expected overwritten value, got %q", v)
			}
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "kv.db")

	first, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := first.Set(ctx, "expenses", `[{"id":"a"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening re-runs migrations against an up-to-date schema.
	second, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	v, ok, err := second.Get(ctx, "expenses")
	if err != nil || !ok || v != `[{"id":"a"}]` {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := first.Set(ctx, "income", `[{"id":"a"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	second, err := NewFile(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok, err := second.Get(ctx, "income")
	if err != nil || !ok || v != `[{"id":"a"}]` {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", v, ok, err)
	}
}
