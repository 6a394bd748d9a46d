package domain

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// SuggestionBasis identifies what a folder suggestion was derived from.
type SuggestionBasis string

const (
	BasisContentAnalysis SuggestionBasis = "content_analysis"
	BasisSimilarFiles    SuggestionBasis = "similar_files"
	BasisAICategory      SuggestionBasis = "ai_category"
	BasisUserPatterns    SuggestionBasis = "user_patterns"
)

// FolderSuggestion recommends a destination folder for a file.
type FolderSuggestion struct {
	SuggestedPath string
	Confidence    float64
	Reasoning     string
	BasedOn       SuggestionBasis
	Alternatives  []string
}

// FolderConfig holds the canonical category mapping and pattern-mining
// thresholds. All of these are tunable policy.
type FolderConfig struct {
	// CategoryFolders maps a lowercased content category to candidate
	// subpaths; the first is the primary suggestion, the rest become
	// alternatives.
	CategoryFolders map[string][]string
	// DateSensitive categories get a year-based alternative prepended.
	DateSensitive []string
	// MinClusterSize is how many same-category files must share a folder
	// before pattern mining overrides the suggestion.
	MinClusterSize int
	MiningBase     float64
	MiningStep     float64
	MiningCap      float64
}

// DefaultFolderConfig returns the stock organization patterns.
func DefaultFolderConfig() FolderConfig {
	return FolderConfig{
		CategoryFolders: map[string][]string{
			"invoice":       {"Documents/Invoices", "Finance/Invoices", "Business/Invoices"},
			"receipt":       {"Documents/Receipts", "Finance/Receipts", "Business/Receipts"},
			"resume":        {"Documents/Resume", "Career/Resume", "Personal/Resume"},
			"report":        {"Documents/Reports", "Work/Reports", "Business/Reports"},
			"code":          {"Projects/Code", "Development", "Code"},
			"meeting-notes": {"Documents/Meetings", "Work/Meetings", "Notes/Meetings"},
			"contract":      {"Documents/Contracts", "Legal/Contracts", "Business/Contracts"},
			"image":         {"Pictures", "Images", "Media/Images"},
			"photo":         {"Pictures/Photos", "Media/Photos", "Personal/Photos"},
		},
		DateSensitive:  []string{"invoice", "receipt", "report"},
		MinClusterSize: 2,
		MiningBase:     0.6,
		MiningStep:     0.1,
		MiningCap:      0.9,
	}
}

// BaselineFolderSuggestion keeps the file where it is, low confidence.
func BaselineFolderSuggestion(path string) FolderSuggestion {
	return FolderSuggestion{
		SuggestedPath: filepath.Dir(path),
		Confidence:    0.3,
		Reasoning:     "keep in current location",
		BasedOn:       BasisContentAnalysis,
		Alternatives:  []string{},
	}
}

// NeutralFolderSuggestion is the total-function fallback on failure.
func NeutralFolderSuggestion(path, reason string) FolderSuggestion {
	return FolderSuggestion{
		SuggestedPath: filepath.Dir(path),
		Reasoning:     reason,
		BasedOn:       BasisContentAnalysis,
		Alternatives:  []string{},
	}
}

// SuggestFolder recommends a destination for path. modYear is the file's
// modification year, used for date-sensitive categories. entries is the
// registry snapshot used for pattern mining.
func SuggestFolder(path string, modYear int, analysis *ContentAnalysis, entries []*RegistryEntry, cfg FolderConfig) FolderSuggestion {
	s := BaselineFolderSuggestion(path)
	currentFolder := filepath.Dir(path)

	var category string
	if analysis != nil {
		category = strings.ToLower(analysis.Category)
	}

	if candidates, ok := cfg.CategoryFolders[category]; ok && len(candidates) > 0 {
		root := filepath.Dir(currentFolder)
		s.SuggestedPath = filepath.Join(root, candidates[0])
		s.Confidence = 0.8
		s.Reasoning = fmt.Sprintf("organized by content type: %s", category)
		s.BasedOn = BasisAICategory
		for _, alt := range candidates[1:] {
			s.Alternatives = append(s.Alternatives, filepath.Join(root, alt))
		}
	}

	if folder, count := modalFolder(category, entries); count >= cfg.MinClusterSize {
		mined := min(cfg.MiningCap, cfg.MiningBase+cfg.MiningStep*float64(count))
		if mined > s.Confidence {
			s.SuggestedPath = folder
			s.Confidence = mined
			s.Reasoning = fmt.Sprintf("%d similar files found in this location", count)
			s.BasedOn = BasisSimilarFiles
		}
	}

	if category != "" && slices.Contains(cfg.DateSensitive, category) && modYear > 0 {
		dated := filepath.Join(s.SuggestedPath, strconv.Itoa(modYear))
		s.Alternatives = append([]string{dated}, s.Alternatives...)
	}

	return s
}

// modalFolder finds the folder holding the most registry entries of the
// given category. Ties break on folder name so the result is stable.
func modalFolder(category string, entries []*RegistryEntry) (string, int) {
	if category == "" {
		return "", 0
	}

	counts := make(map[string]int)
	for _, e := range entries {
		if strings.EqualFold(e.FileCategory, category) {
			counts[filepath.Dir(e.CurrentPath)]++
		}
	}
	if len(counts) == 0 {
		return "", 0
	}

	folders := make([]string, 0, len(counts))
	for f := range counts {
		folders = append(folders, f)
	}
	sort.Slice(folders, func(i, j int) bool {
		if counts[folders[i]] != counts[folders[j]] {
			return counts[folders[i]] > counts[folders[j]]
		}
		return folders[i] < folders[j]
	})
	return folders[0], counts[folders[0]]
}
