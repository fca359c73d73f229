package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if _, ok := s.Get("missing"); ok {
		t.Error("Get on missing key reported ok")
	}

	if err := s.Set(KeyNotificationMode, "2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok := s.Get(KeyNotificationMode)
	if !ok || got != "2" {
		t.Errorf("Get = (%q, %v), want (\"2\", true)", got, ok)
	}

	if err := s.Delete(KeyNotificationMode); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := s.Get(KeyNotificationMode); ok {
		t.Error("key still present after Delete")
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Set(KeyCacheDate, "2026-03-10"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, ok := s2.Get(KeyCacheDate)
	if !ok || got != "2026-03-10" {
		t.Errorf("value did not survive reopen: (%q, %v)", got, ok)
	}
	if !s2.Persistent() {
		t.Error("Persistent() = false for a bbolt-backed store")
	}
}

func TestStore_MemoryFallback(t *testing.T) {
	s := OpenMemory()
	defer s.Close()

	if s.Persistent() {
		t.Error("Persistent() = true for in-memory store")
	}

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, ok := s.Get("k"); !ok || got != "v" {
		t.Errorf("Get = (%q, %v), want (\"v\", true)", got, ok)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := s.Get("k"); ok {
		t.Error("key still present after Delete")
	}
	// Deleting again must not error.
	if err := s.Delete("k"); err != nil {
		t.Errorf("Delete on absent key: %v", err)
	}
}

func TestStore_OpenContended(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	// A second open while the first holds the file lock must error out
	// within the lock timeout, not block, so callers can fall back to
	// OpenMemory.
	started := time.Now()
	s2, err := Open(path)
	if err == nil {
		s2.Close()
		t.Fatal("second Open succeeded while the lock was held, want error")
	}
	if elapsed := time.Since(started); elapsed > 5*time.Second {
		t.Errorf("contended Open took %v, want it bounded by the lock timeout", elapsed)
	}
}

func TestStore_OpenBadPath(t *testing.T) {
	// A path whose parent is a regular file cannot be created.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if s, err := Open(filepath.Join(blocker, "sub", "state.db")); err == nil {
		s.Close()
		t.Error("Open succeeded under a file path, want error")
	}
}
