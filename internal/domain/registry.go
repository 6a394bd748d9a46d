package domain

import "time"

// UserAction records what the user decided about a processed file.
type UserAction string

const (
	ActionPending  UserAction = "pending"
	ActionAccepted UserAction = "accepted"
	ActionRejected UserAction = "rejected"
	ActionModified UserAction = "modified"
)

// ParseUserAction converts a string to a UserAction, defaulting to pending.
func ParseUserAction(s string) UserAction {
	switch UserAction(s) {
	case ActionAccepted, ActionRejected, ActionModified:
		return UserAction(s)
	default:
		return ActionPending
	}
}

// EventKind is the kind of filesystem event that surfaced a path.
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventRenamed EventKind = "renamed"
	EventMoved   EventKind = "moved"
	EventChanged EventKind = "changed"
)

// ParseEventKind converts a string to an EventKind, defaulting to added.
func ParseEventKind(s string) EventKind {
	switch EventKind(s) {
	case EventRenamed, EventMoved, EventChanged:
		return EventKind(s)
	default:
		return EventAdded
	}
}

// RegistryEntry is the per-fingerprint state record. Exactly one entry
// exists per content fingerprint; two paths with identical content share
// one entry.
type RegistryEntry struct {
	Fingerprint  string // content hash, primary key
	OriginalPath string // first path observed, set once
	CurrentPath  string // most recently observed path
	ProcessedAt  time.Time
	UserAction   UserAction
	FinalName    string    // basename from the last accepted/modified transition
	IgnoredUntil time.Time // zero when no cooldown is active
	// ProcessingCount is monotonically non-decreasing; only full eviction
	// resets it.
	ProcessingCount int
	LastEventType   EventKind

	// Enrichment from external content analysis.
	ContentTags       []string
	ExtractedKeywords []string
	SuggestedFolder   string
	FileCategory      string
	ContentSummary    string
}

// InCooldown reports whether the entry's cooldown suppresses processing at t.
func (e *RegistryEntry) InCooldown(t time.Time) bool {
	return !e.IgnoredUntil.IsZero() && t.Before(e.IgnoredUntil)
}

// Clone returns a deep copy so stores can hand out entries without
// sharing slices with callers.
func (e *RegistryEntry) Clone() *RegistryEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.ContentTags = append([]string(nil), e.ContentTags...)
	c.ExtractedKeywords = append([]string(nil), e.ExtractedKeywords...)
	return &c
}

// Decision is the outcome of a shouldProcess check.
type Decision struct {
	Allow  bool
	Reason string
	Entry  *RegistryEntry // present when the fingerprint was already known
}

// RegistryStats aggregates entry counts for observability.
type RegistryStats struct {
	Total      int
	Pending    int
	Accepted   int
	Rejected   int
	Modified   int
	InCooldown int
}

// ContentAnalysis is the output of the external content-classification
// collaborator. The engine only consumes it.
type ContentAnalysis struct {
	Category          string
	Keywords          []string
	ContentSummary    string
	ExtractedEntities map[string]string
}
