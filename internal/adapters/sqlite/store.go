// Package sqlite provides a durable RegistryStore: entries keyed by
// fingerprint plus a path index table, kept consistent on eviction.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"curator/internal/domain"
	"curator/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Store implements ports.RegistryStore on SQLite.
type Store struct {
	db     *sql.DB
	dbPath string
}

var _ ports.RegistryStore = (*Store)(nil)

// Open creates or opens the registry database at dbPath. A leading ~ is
// expanded to the user's home directory.
func Open(dbPath string) (*Store, error) {
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}

	// WAL mode for better concurrency between queries and the sweep.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS entries (
			fingerprint TEXT PRIMARY KEY,
			original_path TEXT NOT NULL,
			current_path TEXT NOT NULL,
			processed_at INTEGER NOT NULL,
			user_action TEXT NOT NULL,
			final_name TEXT NOT NULL DEFAULT '',
			ignored_until INTEGER NOT NULL DEFAULT 0,
			processing_count INTEGER NOT NULL DEFAULT 0,
			last_event_type TEXT NOT NULL DEFAULT '',
			content_tags TEXT NOT NULL DEFAULT '[]',
			extracted_keywords TEXT NOT NULL DEFAULT '[]',
			suggested_folder TEXT NOT NULL DEFAULT '',
			file_category TEXT NOT NULL DEFAULT '',
			content_summary TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS path_index (
			path TEXT PRIMARY KEY,
			fingerprint TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_path_index_fingerprint ON path_index(fingerprint);
		CREATE INDEX IF NOT EXISTS idx_entries_processed_at ON entries(processed_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get retrieves an entry by fingerprint, or nil when absent.
func (s *Store) Get(fingerprint string) (*domain.RegistryEntry, error) {
	row := s.db.QueryRow(`
		SELECT fingerprint, original_path, current_path, processed_at, user_action,
		       final_name, ignored_until, processing_count, last_event_type,
		       content_tags, extracted_keywords, suggested_folder, file_category, content_summary
		FROM entries WHERE fingerprint = ?
	`, fingerprint)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.RegistryEntry, error) {
	var e domain.RegistryEntry
	var action, event string
	var processedAt, ignoredUntil int64
	var tags, keywords string

	err := row.Scan(&e.Fingerprint, &e.OriginalPath, &e.CurrentPath, &processedAt, &action,
		&e.FinalName, &ignoredUntil, &e.ProcessingCount, &event,
		&tags, &keywords, &e.SuggestedFolder, &e.FileCategory, &e.ContentSummary)
	if err != nil {
		return nil, err
	}

	e.UserAction = domain.ParseUserAction(action)
	e.LastEventType = domain.EventKind(event)
	e.ProcessedAt = time.UnixMilli(processedAt)
	if ignoredUntil > 0 {
		e.IgnoredUntil = time.UnixMilli(ignoredUntil)
	}
	if err := json.Unmarshal([]byte(tags), &e.ContentTags); err != nil {
		e.ContentTags = nil
	}
	if err := json.Unmarshal([]byte(keywords), &e.ExtractedKeywords); err != nil {
		e.ExtractedKeywords = nil
	}

	return &e, nil
}

// Upsert inserts or merges an entry. original_path is never overwritten
// and processing_count never decreases, matching the registry invariants.
func (s *Store) Upsert(entry *domain.RegistryEntry) error {
	tags, err := json.Marshal(entry.ContentTags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	keywords, err := json.Marshal(entry.ExtractedKeywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}

	var ignoredUntil int64
	if !entry.IgnoredUntil.IsZero() {
		ignoredUntil = entry.IgnoredUntil.UnixMilli()
	}

	_, err = s.db.Exec(`
		INSERT INTO entries (
			fingerprint, original_path, current_path, processed_at, user_action,
			final_name, ignored_until, processing_count, last_event_type,
			content_tags, extracted_keywords, suggested_folder, file_category, content_summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			current_path = excluded.current_path,
			processed_at = excluded.processed_at,
			user_action = excluded.user_action,
			final_name = excluded.final_name,
			ignored_until = excluded.ignored_until,
			processing_count = MAX(entries.processing_count, excluded.processing_count),
			last_event_type = excluded.last_event_type,
			content_tags = excluded.content_tags,
			extracted_keywords = excluded.extracted_keywords,
			suggested_folder = excluded.suggested_folder,
			file_category = excluded.file_category,
			content_summary = excluded.content_summary
	`, entry.Fingerprint, entry.OriginalPath, entry.CurrentPath, entry.ProcessedAt.UnixMilli(),
		string(entry.UserAction), entry.FinalName, ignoredUntil, entry.ProcessingCount,
		string(entry.LastEventType), string(tags), string(keywords),
		entry.SuggestedFolder, entry.FileCategory, entry.ContentSummary)
	return err
}

// IndexPath records path -> fingerprint.
func (s *Store) IndexPath(path, fingerprint string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO path_index (path, fingerprint) VALUES (?, ?)
	`, path, fingerprint)
	return err
}

// DropPath removes one path-index record.
func (s *Store) DropPath(path string) error {
	_, err := s.db.Exec(`DELETE FROM path_index WHERE path = ?`, path)
	return err
}

// LookupByPath resolves a path to its cached fingerprint.
func (s *Store) LookupByPath(path string) (string, bool, error) {
	var fp string
	err := s.db.QueryRow(`SELECT fingerprint FROM path_index WHERE path = ?`, path).Scan(&fp)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return fp, true, nil
}

// PathsFor returns every indexed path mapping to a fingerprint, sorted.
func (s *Store) PathsFor(fingerprint string) ([]string, error) {
	rows, err := s.db.Query(`SELECT path FROM path_index WHERE fingerprint = ? ORDER BY path`, fingerprint)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// All returns every entry.
func (s *Store) All() ([]*domain.RegistryEntry, error) {
	rows, err := s.db.Query(`
		SELECT fingerprint, original_path, current_path, processed_at, user_action,
		       final_name, ignored_until, processing_count, last_event_type,
		       content_tags, extracted_keywords, suggested_folder, file_category, content_summary
		FROM entries
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.RegistryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// EvictOlderThan removes stale entries and their path-index records in
// one transaction so the index never outlives the entry table.
func (s *Store) EvictOlderThan(maxAge time.Duration, now time.Time) (int, error) {
	cutoff := now.Add(-maxAge).UnixMilli()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM path_index WHERE fingerprint IN (
			SELECT fingerprint FROM entries WHERE processed_at < ?
		)
	`, cutoff); err != nil {
		return 0, err
	}

	res, err := tx.Exec(`DELETE FROM entries WHERE processed_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	evicted, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(evicted), nil
}
