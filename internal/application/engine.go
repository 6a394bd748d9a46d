// Package application hosts the file identity engine: content
// fingerprinting, processing-loop prevention, duplicate resolution, tag
// generation, and folder suggestions over a shared registry store.
package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"curator/internal/domain"
	"curator/internal/ports"
)

// Engine owns the registry and implements every engine operation. Public
// query methods are total functions: internal helpers return errors, the
// public wrappers unwrap them into documented neutral results.
type Engine struct {
	store  ports.RegistryStore
	hasher ports.Fingerprinter
	opts   Options
	locks  *keyedMutex
	now    func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithClock overrides the engine clock (tests).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine over the given store and fingerprinter.
func NewEngine(store ports.RegistryStore, hasher ports.Fingerprinter, opts Options, eopts ...EngineOption) *Engine {
	e := &Engine{
		store:  store,
		hasher: hasher,
		opts:   opts,
		locks:  newKeyedMutex(),
		now:    time.Now,
	}
	for _, opt := range eopts {
		opt(e)
	}
	return e
}

// FullAnalysis bundles every read-only query for one path.
type FullAnalysis struct {
	Duplicates domain.DuplicateAnalysis
	Tags       []domain.SmartTag
	Folder     domain.FolderSuggestion
	Entry      *domain.RegistryEntry
}

// ShouldProcess decides whether a filesystem event on path is new content
// worth processing or a re-observation to suppress. The first matching
// rule wins. Updating CurrentPath and LastEventType on a known entry is a
// side effect regardless of the outcome.
func (e *Engine) ShouldProcess(path string, kind domain.EventKind) domain.Decision {
	fp, _ := e.hasher.Fingerprint(path)

	unlock := e.locks.Lock(fp)
	defer unlock()

	entry, err := e.store.Get(fp)
	if err != nil {
		return domain.Decision{Allow: true, Reason: "state unavailable, allowing processing"}
	}
	if entry == nil {
		return domain.Decision{Allow: true, Reason: "new content"}
	}

	now := e.now()

	entry.CurrentPath = path
	entry.LastEventType = kind
	if err := e.store.Upsert(entry); err == nil {
		e.store.IndexPath(path, fp)
	}

	if entry.InCooldown(now) {
		remaining := entry.IgnoredUntil.Sub(now).Round(time.Second)
		return domain.Decision{
			Reason: fmt.Sprintf("cooldown active (%s remaining)", remaining),
			Entry:  entry,
		}
	}

	if entry.UserAction != domain.ActionPending && now.Sub(entry.ProcessedAt) < e.opts.CooldownWindow {
		return domain.Decision{
			Reason: fmt.Sprintf("user recently %s this content", entry.UserAction),
			Entry:  entry,
		}
	}

	if kind == domain.EventRenamed && entry.UserAction == domain.ActionAccepted {
		return domain.Decision{
			Reason: "rename is the applied suggestion, not new content",
			Entry:  entry,
		}
	}

	if entry.ProcessingCount >= e.opts.MaxAttempts {
		return domain.Decision{
			Reason: fmt.Sprintf("processing attempt limit reached (%d)", entry.ProcessingCount),
			Entry:  entry,
		}
	}

	if now.Sub(entry.ProcessedAt) > e.opts.StaleAfter {
		return domain.Decision{
			Allow:  true,
			Reason: "stale entry, eligible for reprocessing",
			Entry:  entry,
		}
	}

	return domain.Decision{
		Reason: "recently processed, no new reason to reprocess",
		Entry:  entry,
	}
}

// RegisterForProcessing creates or refreshes the entry for path's content
// and returns the fingerprint. A new entry starts pending with count 1;
// an existing one keeps its original path and increments its count.
func (e *Engine) RegisterForProcessing(path string) (string, error) {
	fp, _ := e.hasher.Fingerprint(path)

	unlock := e.locks.Lock(fp)
	defer unlock()

	entry, err := e.store.Get(fp)
	if err != nil {
		return "", fmt.Errorf("failed to read registry: %w", err)
	}

	now := e.now()
	if entry == nil {
		entry = &domain.RegistryEntry{
			Fingerprint:     fp,
			OriginalPath:    path,
			ProcessingCount: 1,
		}
	} else {
		entry.ProcessingCount++
	}
	entry.CurrentPath = path
	entry.ProcessedAt = now
	entry.UserAction = domain.ActionPending
	entry.FinalName = filepath.Base(path)
	entry.LastEventType = domain.EventAdded

	if err := e.store.Upsert(entry); err != nil {
		return "", fmt.Errorf("failed to write registry: %w", err)
	}
	if err := e.store.IndexPath(path, fp); err != nil {
		return "", fmt.Errorf("failed to index path: %w", err)
	}
	return fp, nil
}

// RecordUserAction stores the user's decision for path's content,
// refreshes ProcessedAt, and starts the cooldown window. When the content
// was relocated, newPath updates the current path and final name. This is
// the only operation that advances IgnoredUntil; nothing decays it early.
// Returns false when the path maps to no registry entry.
func (e *Engine) RecordUserAction(path string, action domain.UserAction, newPath string) (bool, error) {
	fp := e.resolveFingerprint(path)

	unlock := e.locks.Lock(fp)
	defer unlock()

	entry, err := e.store.Get(fp)
	if err != nil {
		return false, fmt.Errorf("failed to read registry: %w", err)
	}
	if entry == nil {
		return false, nil
	}

	now := e.now()
	entry.UserAction = action
	entry.ProcessedAt = now
	entry.IgnoredUntil = now.Add(e.opts.CooldownWindow)

	if newPath != "" && newPath != path {
		entry.CurrentPath = newPath
		entry.FinalName = filepath.Base(newPath)
		e.store.DropPath(path)
		if err := e.store.IndexPath(newPath, fp); err != nil {
			return false, fmt.Errorf("failed to index path: %w", err)
		}
	}

	if err := e.store.Upsert(entry); err != nil {
		return false, fmt.Errorf("failed to write registry: %w", err)
	}
	return true, nil
}

// ResetCooldown clears the cooldown for path's content. Returns false
// when the path maps to no registry entry.
func (e *Engine) ResetCooldown(path string) (bool, error) {
	fp := e.resolveFingerprint(path)

	unlock := e.locks.Lock(fp)
	defer unlock()

	entry, err := e.store.Get(fp)
	if err != nil {
		return false, fmt.Errorf("failed to read registry: %w", err)
	}
	if entry == nil {
		return false, nil
	}

	entry.IgnoredUntil = time.Time{}
	if err := e.store.Upsert(entry); err != nil {
		return false, fmt.Errorf("failed to write registry: %w", err)
	}
	return true, nil
}

// UpdateWithAnalysis persists the external collaborator's output onto the
// entry and derives tags and a folder suggestion from it. Returns false
// when the path maps to no registry entry.
func (e *Engine) UpdateWithAnalysis(path string, analysis *domain.ContentAnalysis) (bool, error) {
	fp := e.resolveFingerprint(path)

	unlock := e.locks.Lock(fp)
	defer unlock()

	entry, err := e.store.Get(fp)
	if err != nil {
		return false, fmt.Errorf("failed to read registry: %w", err)
	}
	if entry == nil {
		return false, nil
	}

	tags := domain.GenerateTags(e.fileMeta(path), analysis)
	suggestion := e.suggestFolder(path, analysis)

	entry.FileCategory = ""
	entry.ExtractedKeywords = nil
	entry.ContentSummary = ""
	if analysis != nil {
		entry.FileCategory = analysis.Category
		entry.ExtractedKeywords = append([]string(nil), analysis.Keywords...)
		entry.ContentSummary = analysis.ContentSummary
	}
	entry.ContentTags = make([]string, 0, len(tags))
	for _, t := range tags {
		entry.ContentTags = append(entry.ContentTags, t.Tag)
	}
	entry.SuggestedFolder = suggestion.SuggestedPath

	if err := e.store.Upsert(entry); err != nil {
		return false, fmt.Errorf("failed to write registry: %w", err)
	}
	return true, nil
}

// AnalyzeDuplicates checks path against the registry for exact and near
// duplicates. Failures yield the neutral "no duplicates" result.
func (e *Engine) AnalyzeDuplicates(path string) domain.DuplicateAnalysis {
	res, err := e.analyzeDuplicates(path)
	if err != nil {
		return domain.NeutralDuplicateAnalysis("duplicate analysis unavailable")
	}
	return res
}

func (e *Engine) analyzeDuplicates(path string) (domain.DuplicateAnalysis, error) {
	fp, trusted := e.hasher.Fingerprint(path)

	// A fallback fingerprint carries no duplicate-detection guarantee,
	// so exact matching is skipped for it.
	if trusted {
		duplicates, err := e.duplicatePaths(path, fp)
		if err != nil {
			return domain.DuplicateAnalysis{}, err
		}
		if len(duplicates) > 0 {
			better := e.pickBetterVersion(path, duplicates)
			action := domain.KeepBoth
			if better != nil {
				action = domain.ReplaceWithBetter
			}
			return domain.DuplicateAnalysis{
				IsDuplicate:    true,
				DuplicateFiles: duplicates,
				SimilarFiles:   []string{},
				Confidence:     1.0,
				Action:         action,
				Reason:         domain.DuplicateReason(duplicates),
				BetterVersion:  better,
			}, nil
		}
	}

	entries, err := e.store.All()
	if err != nil {
		return domain.DuplicateAnalysis{}, err
	}
	similar := domain.SimilarNames(path, fp, entries, e.opts.SimilarityThreshold)
	if len(similar) > 0 {
		sort.Strings(similar)
		return domain.DuplicateAnalysis{
			DuplicateFiles: []string{},
			SimilarFiles:   similar,
			Confidence:     0.7,
			Action:         domain.KeepBoth,
			Reason:         fmt.Sprintf("found %d similar files", len(similar)),
		}, nil
	}

	return domain.NeutralDuplicateAnalysis("no duplicates found"), nil
}

// duplicatePaths collects every other location the same content has been
// observed at: the entry's first and latest paths plus the path index.
func (e *Engine) duplicatePaths(path, fp string) ([]string, error) {
	entry, err := e.store.Get(fp)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	indexed, err := e.store.PathsFor(fp)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var duplicates []string
	for _, p := range append(indexed, entry.OriginalPath, entry.CurrentPath) {
		if p == "" || p == path || seen[p] {
			continue
		}
		seen[p] = true
		duplicates = append(duplicates, p)
	}
	sort.Strings(duplicates)
	return duplicates, nil
}

func (e *Engine) pickBetterVersion(path string, duplicates []string) *domain.BetterVersion {
	candidate := domain.FileFacts{Path: path}
	if info, err := os.Stat(path); err == nil {
		candidate.Size = info.Size()
		candidate.ModTime = info.ModTime()
	}

	var rivals []domain.FileFacts
	for _, p := range duplicates {
		info, err := os.Stat(p)
		if err != nil {
			continue // unreadable copies cannot win
		}
		rivals = append(rivals, domain.FileFacts{Path: p, Size: info.Size(), ModTime: info.ModTime()})
	}

	return domain.PickBetterVersion(candidate, rivals, e.now(), e.opts.Scoring)
}

// GenerateTags derives the tag set for path, reusing any analysis already
// stored for its content. Safe to call for unregistered paths.
func (e *Engine) GenerateTags(path string) []domain.SmartTag {
	return domain.GenerateTags(e.fileMeta(path), e.storedAnalysis(path))
}

// GenerateTagsWith derives the tag set for path from the given analysis.
func (e *Engine) GenerateTagsWith(path string, analysis *domain.ContentAnalysis) []domain.SmartTag {
	return domain.GenerateTags(e.fileMeta(path), analysis)
}

// SuggestFolder recommends a destination folder for path, reusing any
// analysis already stored for its content. Failures yield the baseline
// suggestion with zero confidence.
func (e *Engine) SuggestFolder(path string) domain.FolderSuggestion {
	return e.suggestFolder(path, e.storedAnalysis(path))
}

// SuggestFolderWith recommends a destination using the given analysis.
func (e *Engine) SuggestFolderWith(path string, analysis *domain.ContentAnalysis) domain.FolderSuggestion {
	return e.suggestFolder(path, analysis)
}

func (e *Engine) suggestFolder(path string, analysis *domain.ContentAnalysis) domain.FolderSuggestion {
	entries, err := e.store.All()
	if err != nil {
		return domain.NeutralFolderSuggestion(path, "folder analysis unavailable")
	}

	meta := e.fileMeta(path)
	modYear := 0
	if meta.HasModTime {
		modYear = meta.ModTime.Year()
	}
	return domain.SuggestFolder(path, modYear, analysis, entries, e.opts.Folders)
}

// FullAnalysisFor runs every read-only query for one path.
func (e *Engine) FullAnalysisFor(path string) FullAnalysis {
	entry := e.History(path)

	analysis := e.storedAnalysis(path)
	return FullAnalysis{
		Duplicates: e.AnalyzeDuplicates(path),
		Tags:       domain.GenerateTags(e.fileMeta(path), analysis),
		Folder:     e.suggestFolder(path, analysis),
		Entry:      entry,
	}
}

// History returns the entry last known for path via the path index, or
// nil when the path was never registered (or the index entry is stale).
func (e *Engine) History(path string) *domain.RegistryEntry {
	fp, ok, err := e.store.LookupByPath(path)
	if err != nil || !ok {
		return nil
	}
	entry, err := e.store.Get(fp)
	if err != nil {
		return nil
	}
	return entry
}

// Pending returns entries awaiting a user decision, most recent first.
func (e *Engine) Pending() ([]*domain.RegistryEntry, error) {
	entries, err := e.store.All()
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var pending []*domain.RegistryEntry
	for _, entry := range entries {
		if entry.UserAction == domain.ActionPending {
			pending = append(pending, entry)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].ProcessedAt.Equal(pending[j].ProcessedAt) {
			return pending[i].ProcessedAt.After(pending[j].ProcessedAt)
		}
		return pending[i].Fingerprint < pending[j].Fingerprint
	})
	return pending, nil
}

// Stats aggregates registry counters.
func (e *Engine) Stats() (domain.RegistryStats, error) {
	entries, err := e.store.All()
	if err != nil {
		return domain.RegistryStats{}, fmt.Errorf("failed to read registry: %w", err)
	}

	now := e.now()
	stats := domain.RegistryStats{Total: len(entries)}
	for _, entry := range entries {
		switch entry.UserAction {
		case domain.ActionPending:
			stats.Pending++
		case domain.ActionAccepted:
			stats.Accepted++
		case domain.ActionRejected:
			stats.Rejected++
		case domain.ActionModified:
			stats.Modified++
		}
		if entry.InCooldown(now) {
			stats.InCooldown++
		}
	}
	return stats, nil
}

// Sweep evicts entries older than the retention period, clearing their
// path-index records with them. Returns how many entries were removed.
func (e *Engine) Sweep() (int, error) {
	return e.store.EvictOlderThan(e.opts.RetentionPeriod, e.now())
}

// RunCleanup sweeps on a fixed interval until ctx is cancelled. It runs
// on the calling goroutine, so the sweep never overlaps itself.
func (e *Engine) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(e.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Sweep()
		}
	}
}

// resolveFingerprint prefers the path index over re-hashing; a stale or
// missing index record falls back to hashing the content.
func (e *Engine) resolveFingerprint(path string) string {
	if fp, ok, err := e.store.LookupByPath(path); err == nil && ok {
		return fp
	}
	fp, _ := e.hasher.Fingerprint(path)
	return fp
}

// storedAnalysis rebuilds a ContentAnalysis from an entry's enrichment
// fields, or nil when the path is unknown or unenriched.
func (e *Engine) storedAnalysis(path string) *domain.ContentAnalysis {
	entry := e.History(path)
	if entry == nil {
		return nil
	}
	if entry.FileCategory == "" && len(entry.ExtractedKeywords) == 0 && entry.ContentSummary == "" {
		return nil
	}
	return &domain.ContentAnalysis{
		Category:       entry.FileCategory,
		Keywords:       append([]string(nil), entry.ExtractedKeywords...),
		ContentSummary: entry.ContentSummary,
	}
}

func (e *Engine) fileMeta(path string) domain.FileMeta {
	meta := domain.FileMeta{Path: path}
	if info, err := os.Stat(path); err == nil {
		meta.ModTime = info.ModTime()
		meta.HasModTime = true
	}
	return meta
}
