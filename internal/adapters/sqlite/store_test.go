package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"curator/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "registry.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := &domain.RegistryEntry{
		Fingerprint:       "fp1",
		OriginalPath:      "/in/report.pdf",
		CurrentPath:       "/docs/report.pdf",
		ProcessedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UserAction:        domain.ActionAccepted,
		FinalName:         "report.pdf",
		IgnoredUntil:      time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC),
		ProcessingCount:   2,
		LastEventType:     domain.EventRenamed,
		ContentTags:       []string{"filetype:pdf", "is-final"},
		ExtractedKeywords: []string{"quarterly", "revenue"},
		SuggestedFolder:   "/docs/Reports",
		FileCategory:      "report",
		ContentSummary:    "Q1 revenue report",
	}
	if err := s.Upsert(in); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	out, err := s.Get("fp1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if out == nil {
		t.Fatal("entry not found after upsert")
	}

	if out.OriginalPath != in.OriginalPath || out.CurrentPath != in.CurrentPath {
		t.Errorf("paths mismatched: %+v", out)
	}
	if !out.ProcessedAt.Equal(in.ProcessedAt) {
		t.Errorf("processed_at = %v, want %v", out.ProcessedAt, in.ProcessedAt)
	}
	if !out.IgnoredUntil.Equal(in.IgnoredUntil) {
		t.Errorf("ignored_until = %v, want %v", out.IgnoredUntil, in.IgnoredUntil)
	}
	if out.UserAction != domain.ActionAccepted || out.LastEventType != domain.EventRenamed {
		t.Errorf("action/event mismatched: %+v", out)
	}
	if len(out.ContentTags) != 2 || out.ContentTags[1] != "is-final" {
		t.Errorf("tags mismatched: %v", out.ContentTags)
	}
	if len(out.ExtractedKeywords) != 2 || out.ExtractedKeywords[0] != "quarterly" {
		t.Errorf("keywords mismatched: %v", out.ExtractedKeywords)
	}
	if out.FileCategory != "report" || out.SuggestedFolder != "/docs/Reports" {
		t.Errorf("enrichment mismatched: %+v", out)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)

	entry, err := s.Get("absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Errorf("expected nil for an unknown fingerprint, got %+v", entry)
	}
}

func TestStore_UpsertMergeInvariants(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Upsert(&domain.RegistryEntry{
		Fingerprint:     "fp1",
		OriginalPath:    "/first/seen.pdf",
		CurrentPath:     "/first/seen.pdf",
		ProcessedAt:     at,
		UserAction:      domain.ActionPending,
		ProcessingCount: 3,
	})
	s.Upsert(&domain.RegistryEntry{
		Fingerprint:     "fp1",
		OriginalPath:    "/should/be/ignored.pdf",
		CurrentPath:     "/moved/here.pdf",
		ProcessedAt:     at.Add(time.Hour),
		UserAction:      domain.ActionAccepted,
		ProcessingCount: 1,
	})

	entry, _ := s.Get("fp1")
	if entry.OriginalPath != "/first/seen.pdf" {
		t.Errorf("original path overwritten: %s", entry.OriginalPath)
	}
	if entry.CurrentPath != "/moved/here.pdf" {
		t.Errorf("current path not updated: %s", entry.CurrentPath)
	}
	if entry.ProcessingCount != 3 {
		t.Errorf("processing count decreased: %d", entry.ProcessingCount)
	}
	if entry.UserAction != domain.ActionAccepted {
		t.Errorf("user action not updated: %s", entry.UserAction)
	}
}

func TestStore_ZeroIgnoredUntilStaysZero(t *testing.T) {
	s := openTestStore(t)

	s.Upsert(&domain.RegistryEntry{
		Fingerprint: "fp1",
		ProcessedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UserAction:  domain.ActionPending,
	})

	entry, _ := s.Get("fp1")
	if !entry.IgnoredUntil.IsZero() {
		t.Errorf("expected zero ignored_until, got %v", entry.IgnoredUntil)
	}
}

func TestStore_PathIndex(t *testing.T) {
	s := openTestStore(t)

	s.IndexPath("/a/one.pdf", "fp1")
	s.IndexPath("/b/two.pdf", "fp1")
	s.IndexPath("/c/other.pdf", "fp2")

	fp, ok, err := s.LookupByPath("/a/one.pdf")
	if err != nil || !ok || fp != "fp1" {
		t.Errorf("LookupByPath = %s, %t, %v", fp, ok, err)
	}
	if _, ok, _ := s.LookupByPath("/never/indexed.pdf"); ok {
		t.Error("unknown path resolved")
	}

	paths, err := s.PathsFor("fp1")
	if err != nil {
		t.Fatalf("PathsFor failed: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/a/one.pdf" || paths[1] != "/b/two.pdf" {
		t.Errorf("expected both fp1 paths sorted, got %v", paths)
	}

	s.DropPath("/a/one.pdf")
	if _, ok, _ := s.LookupByPath("/a/one.pdf"); ok {
		t.Error("dropped path still resolves")
	}
}

func TestStore_IndexPathRebind(t *testing.T) {
	s := openTestStore(t)

	s.IndexPath("/a/one.pdf", "fp1")
	s.IndexPath("/a/one.pdf", "fp2")

	fp, ok, _ := s.LookupByPath("/a/one.pdf")
	if !ok || fp != "fp2" {
		t.Errorf("path should rebind to the latest fingerprint, got %s", fp)
	}
}

func TestStore_EvictOlderThan(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Upsert(&domain.RegistryEntry{
		Fingerprint: "old",
		ProcessedAt: now.Add(-31 * 24 * time.Hour),
		UserAction:  domain.ActionPending,
	})
	s.Upsert(&domain.RegistryEntry{
		Fingerprint: "fresh",
		ProcessedAt: now.Add(-29 * 24 * time.Hour),
		UserAction:  domain.ActionPending,
	})
	s.IndexPath("/old/file.pdf", "old")
	s.IndexPath("/fresh/file.pdf", "fresh")

	evicted, err := s.EvictOlderThan(30*24*time.Hour, now)
	if err != nil {
		t.Fatalf("eviction failed: %v", err)
	}
	if evicted != 1 {
		t.Errorf("expected 1 eviction, got %d", evicted)
	}

	if entry, _ := s.Get("old"); entry != nil {
		t.Error("old entry survived eviction")
	}
	if entry, _ := s.Get("fresh"); entry == nil {
		t.Error("fresh entry evicted")
	}
	if _, ok, _ := s.LookupByPath("/old/file.pdf"); ok {
		t.Error("path index still references the evicted entry")
	}
	if _, ok, _ := s.LookupByPath("/fresh/file.pdf"); !ok {
		t.Error("fresh path index lost")
	}
}

func TestStore_All(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, fp := range []string{"fp1", "fp2", "fp3"} {
		s.Upsert(&domain.RegistryEntry{Fingerprint: fp, ProcessedAt: at, UserAction: domain.ActionPending})
	}

	entries, err := s.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestStore_ReopenPersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	s.Upsert(&domain.RegistryEntry{
		Fingerprint: "fp1",
		CurrentPath: "/a/one.pdf",
		ProcessedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UserAction:  domain.ActionAccepted,
	})
	s.IndexPath("/a/one.pdf", "fp1")
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	s2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s2.Close()

	entry, err := s2.Get("fp1")
	if err != nil || entry == nil {
		t.Fatalf("entry lost across reopen: %v, %v", entry, err)
	}
	if fp, ok, _ := s2.LookupByPath("/a/one.pdf"); !ok || fp != "fp1" {
		t.Errorf("path index lost across reopen: %s, %t", fp, ok)
	}
}
