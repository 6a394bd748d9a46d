// Package memory provides the in-memory RegistryStore, the engine's
// default backing store.
package memory

import (
	"sort"
	"sync"
	"time"

	"curator/internal/domain"
	"curator/internal/ports"
)

// Store keeps registry entries in two maps: fingerprint -> entry
// (authoritative) and path -> fingerprint (best-effort reverse index).
type Store struct {
	mu      sync.RWMutex
	entries map[string]*domain.RegistryEntry
	byPath  map[string]string
}

var _ ports.RegistryStore = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*domain.RegistryEntry),
		byPath:  make(map[string]string),
	}
}

// Get returns a copy of the entry for a fingerprint, or nil when absent.
func (s *Store) Get(fingerprint string) (*domain.RegistryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[fingerprint].Clone(), nil
}

// Upsert inserts or merges an entry under its fingerprint. OriginalPath
// is preserved once set and ProcessingCount never decreases.
func (s *Store) Upsert(entry *domain.RegistryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := entry.Clone()
	if existing, ok := s.entries[entry.Fingerprint]; ok {
		if existing.OriginalPath != "" {
			merged.OriginalPath = existing.OriginalPath
		}
		if existing.ProcessingCount > merged.ProcessingCount {
			merged.ProcessingCount = existing.ProcessingCount
		}
	}
	s.entries[entry.Fingerprint] = merged
	return nil
}

// IndexPath records path -> fingerprint.
func (s *Store) IndexPath(path, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPath[path] = fingerprint
	return nil
}

// DropPath removes one path-index record.
func (s *Store) DropPath(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byPath, path)
	return nil
}

// LookupByPath resolves a path to its cached fingerprint.
func (s *Store) LookupByPath(path string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fp, ok := s.byPath[path]
	return fp, ok, nil
}

// PathsFor returns every indexed path mapping to a fingerprint, sorted.
func (s *Store) PathsFor(fingerprint string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string
	for path, fp := range s.byPath {
		if fp == fingerprint {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// All returns a snapshot of every entry.
func (s *Store) All() ([]*domain.RegistryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*domain.RegistryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e.Clone())
	}
	return entries, nil
}

// EvictOlderThan removes entries older than maxAge along with every
// path-index record pointing at them.
func (s *Store) EvictOlderThan(maxAge time.Duration, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for fp, e := range s.entries {
		if now.Sub(e.ProcessedAt) <= maxAge {
			continue
		}
		delete(s.entries, fp)
		for path, pathFP := range s.byPath {
			if pathFP == fp {
				delete(s.byPath, path)
			}
		}
		evicted++
	}
	return evicted, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
