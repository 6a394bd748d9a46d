package application

import (
	"time"

	"curator/internal/domain"
)

// Options collects the engine's policy knobs. Every threshold here is
// tunable; the defaults match long-observed desktop behavior.
type Options struct {
	// CooldownWindow suppresses reprocessing after a user decision.
	CooldownWindow time.Duration
	// MaxAttempts caps how often the same content is registered before
	// processing is denied.
	MaxAttempts int
	// StaleAfter is how long until a processed entry becomes eligible
	// for reprocessing again.
	StaleAfter time.Duration
	// RetentionPeriod is how long entries survive before the cleanup
	// sweep evicts them.
	RetentionPeriod time.Duration
	// CleanupInterval is how often the sweep runs.
	CleanupInterval time.Duration
	// SimilarityThreshold is the minimum normalized name similarity for
	// a near-duplicate.
	SimilarityThreshold float64

	Scoring domain.ScoreConfig
	Folders domain.FolderConfig
}

// DefaultOptions returns the stock policy.
func DefaultOptions() Options {
	return Options{
		CooldownWindow:      5 * time.Minute,
		MaxAttempts:         3,
		StaleAfter:          7 * 24 * time.Hour,
		RetentionPeriod:     30 * 24 * time.Hour,
		CleanupInterval:     time.Minute,
		SimilarityThreshold: 0.6,
		Scoring:             domain.DefaultScoreConfig(),
		Folders:             domain.DefaultFolderConfig(),
	}
}
