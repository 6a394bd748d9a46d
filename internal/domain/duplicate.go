package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DuplicateAction is the recommended handling for a duplicate set.
type DuplicateAction string

const (
	KeepBoth          DuplicateAction = "keep_both"
	ReplaceWithBetter DuplicateAction = "replace_with_better"
	Merge             DuplicateAction = "merge"
	Rename            DuplicateAction = "rename"
)

// BetterVersion names the preferred copy among exact duplicates.
type BetterVersion struct {
	FilePath string
	Reason   string
}

// DuplicateAnalysis is the result of checking a path against the registry.
type DuplicateAnalysis struct {
	IsDuplicate    bool
	DuplicateFiles []string // exact content matches
	SimilarFiles   []string // same type, similar name, different content
	Confidence     float64
	Action         DuplicateAction
	Reason         string
	BetterVersion  *BetterVersion
}

// NeutralDuplicateAnalysis is the total-function fallback: no matches,
// zero confidence, keep both.
func NeutralDuplicateAnalysis(reason string) DuplicateAnalysis {
	return DuplicateAnalysis{
		DuplicateFiles: []string{},
		SimilarFiles:   []string{},
		Action:         KeepBoth,
		Reason:         reason,
	}
}

// FileFacts is the filesystem evidence used to score a duplicate copy.
type FileFacts struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// ScoreConfig holds the better-version scoring weights. These are policy
// knobs, not derived constants.
type ScoreConfig struct {
	DescriptiveName  float64 // stem is not "copy", "copy N", "untitled" or a bare number
	NonCopyName      float64 // name does not contain "copy"
	OrganizedFolder  float64 // not in a staging folder
	RecentlyModified float64 // modified within RecentWindow
	SizeCapKB        float64 // up to this many points, one per KB
	RecentWindow     time.Duration
	Margin           float64 // how much a rival must exceed the candidate by
	StagingFolders   []string
}

// DefaultScoreConfig returns the stock weights.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		DescriptiveName:  20,
		NonCopyName:      15,
		OrganizedFolder:  10,
		RecentlyModified: 5,
		SizeCapKB:        5,
		RecentWindow:     7 * 24 * time.Hour,
		Margin:           20,
		StagingFolders:   []string{"Downloads", "Desktop"},
	}
}

var poorNamePattern = regexp.MustCompile(`(?i)^(copy|copy \d+|untitled|\d+)$`)

// ScoreVersion rates one copy of a duplicate set. Higher is better.
func ScoreVersion(f FileFacts, now time.Time, cfg ScoreConfig) (float64, []string) {
	var score float64
	var reasons []string

	name := filepath.Base(f.Path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	if !poorNamePattern.MatchString(stem) {
		score += cfg.DescriptiveName
		reasons = append(reasons, "descriptive filename")
	}
	if !strings.Contains(strings.ToLower(name), "copy") {
		score += cfg.NonCopyName
		reasons = append(reasons, "not a copy")
	}
	if !inStagingFolder(filepath.Dir(f.Path), cfg.StagingFolders) {
		score += cfg.OrganizedFolder
		reasons = append(reasons, "organized location")
	}
	if !f.ModTime.IsZero() && now.Sub(f.ModTime) < cfg.RecentWindow {
		score += cfg.RecentlyModified
		reasons = append(reasons, "recently modified")
	}
	score += min(cfg.SizeCapKB, float64(f.Size)/1024)

	return score, reasons
}

func inStagingFolder(dir string, staging []string) bool {
	for _, part := range strings.Split(dir, string(filepath.Separator)) {
		for _, s := range staging {
			if strings.EqualFold(part, s) {
				return true
			}
		}
	}
	return false
}

// PickBetterVersion scores the candidate against its exact duplicates and
// returns the preferred copy, or nil when no rival clearly beats the
// candidate.
func PickBetterVersion(candidate FileFacts, duplicates []FileFacts, now time.Time, cfg ScoreConfig) *BetterVersion {
	candidateScore, _ := ScoreVersion(candidate, now, cfg)

	bestPath := candidate.Path
	bestScore := candidateScore
	bestReason := ""

	for _, f := range duplicates {
		score, reasons := ScoreVersion(f, now, cfg)
		if score > bestScore {
			bestScore = score
			bestPath = f.Path
			bestReason = strings.Join(reasons, ", ")
		}
	}

	if bestPath == candidate.Path || bestScore-candidateScore <= cfg.Margin {
		return nil
	}
	return &BetterVersion{FilePath: bestPath, Reason: bestReason}
}

// Levenshtein computes the edit distance between two strings.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// NameSimilarity returns 1 - distance/maxLen over the two names.
func NameSimilarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 {
		if lb == 0 {
			return 1
		}
		return 0
	}
	if lb == 0 {
		return 0
	}
	maxLen := max(la, lb)
	return 1 - float64(Levenshtein(a, b))/float64(maxLen)
}

// SimilarNames collects registry paths whose basename resembles the
// candidate's, restricted to the candidate's extension. Entries matching
// the excluded fingerprint (the candidate's own content) are skipped.
func SimilarNames(path, excludeFingerprint string, entries []*RegistryEntry, threshold float64) []string {
	ext := strings.ToLower(filepath.Ext(path))
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var similar []string
	for _, e := range entries {
		if e.Fingerprint == excludeFingerprint {
			continue
		}
		entryExt := strings.ToLower(filepath.Ext(e.CurrentPath))
		if entryExt != ext {
			continue
		}
		entryStem := strings.TrimSuffix(filepath.Base(e.CurrentPath), filepath.Ext(e.CurrentPath))
		if NameSimilarity(stem, entryStem) > threshold {
			similar = append(similar, e.CurrentPath)
		}
	}
	return similar
}

// DuplicateReason phrases the summary line for an exact-duplicate result.
func DuplicateReason(duplicates []string) string {
	if len(duplicates) == 1 {
		return fmt.Sprintf("exact duplicate found: %s", filepath.Base(duplicates[0]))
	}
	return fmt.Sprintf("%d exact duplicates found", len(duplicates))
}
