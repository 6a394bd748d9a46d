package ports

import (
	"time"

	"curator/internal/domain"
)

// RegistryStore persists per-fingerprint state records plus a path index.
// The entry table is authoritative; the path index is a best-effort cache
// that may point at paths whose content has since changed.
type RegistryStore interface {
	// Get returns the entry for a fingerprint, or nil when absent.
	Get(fingerprint string) (*domain.RegistryEntry, error)

	// Upsert inserts or merges an entry. It never creates a second entry
	// for an existing fingerprint; OriginalPath is preserved once set and
	// ProcessingCount never decreases.
	Upsert(entry *domain.RegistryEntry) error

	// IndexPath records path -> fingerprint for O(1) reverse lookup.
	IndexPath(path, fingerprint string) error

	// DropPath removes one path-index record.
	DropPath(path string) error

	// LookupByPath resolves a path to its cached fingerprint.
	LookupByPath(path string) (string, bool, error)

	// PathsFor returns every indexed path mapping to a fingerprint,
	// sorted. Duplicate resolution uses this to recover all locations a
	// content has been observed at, since the entry itself only keeps
	// the first and most recent path.
	PathsFor(fingerprint string) ([]string, error)

	// All returns a snapshot of every entry.
	All() ([]*domain.RegistryEntry, error)

	// EvictOlderThan removes entries whose ProcessedAt is older than
	// now minus maxAge, along with every path-index record referencing
	// them. Returns how many entries were removed.
	EvictOlderThan(maxAge time.Duration, now time.Time) (int, error)

	Close() error
}
