package domain

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TagSource identifies where a tag was derived from.
type TagSource string

const (
	SourceContent    TagSource = "content"
	SourceFilename   TagSource = "filename"
	SourceFolder     TagSource = "folder"
	SourceAIAnalysis TagSource = "ai_analysis"
)

// SmartTag is one derived tag with its confidence and provenance.
type SmartTag struct {
	Tag        string
	Confidence float64
	Source     TagSource
	Context    string
}

// FileMeta is the filesystem metadata tags are derived from. ModTime is
// the file's own modification time; tag generation has no other clock
// dependence so identical inputs always yield identical output.
type FileMeta struct {
	Path       string
	ModTime    time.Time
	HasModTime bool
}

// Filename pattern rules, applied to the basename.
var namePatterns = []struct {
	tag string
	re  *regexp.Regexp
}{
	{"has-version", regexp.MustCompile(`(?i)v\d+|\d+\.\d+|version`)},
	{"is-draft", regexp.MustCompile(`(?i)draft|temp|tmp|wip|work-in-progress`)},
	{"is-final", regexp.MustCompile(`(?i)final|completed|done|finished`)},
	{"has-date", regexp.MustCompile(`\d{4}[-_]\d{2}[-_]\d{2}|\d{2}[-_]\d{2}[-_]\d{4}|\d{8}`)},
	{"is-copy", regexp.MustCompile(`(?i)copy|duplicate|backup`)},
}

var whitespace = regexp.MustCompile(`\s+`)

// GenerateTags derives the deduplicated, confidence-ranked tag set for a
// file. All rules are additive and independently applicable.
func GenerateTags(meta FileMeta, analysis *ContentAnalysis) []SmartTag {
	var tags []SmartTag

	name := filepath.Base(meta.Path)
	folder := filepath.Base(filepath.Dir(meta.Path))
	ext := strings.ToLower(filepath.Ext(meta.Path))

	if ext != "" {
		tags = append(tags, SmartTag{
			Tag:        "filetype:" + strings.TrimPrefix(ext, "."),
			Confidence: 1.0,
			Source:     SourceFilename,
			Context:    "file extension",
		})
	}

	if analysis != nil && analysis.Category != "" {
		tags = append(tags, SmartTag{
			Tag:        "category:" + analysis.Category,
			Confidence: 0.9,
			Source:     SourceAIAnalysis,
			Context:    "content analysis",
		})
	}

	if analysis != nil {
		for _, kw := range analysis.Keywords {
			if len(kw) > 2 {
				tags = append(tags, SmartTag{
					Tag:        whitespace.ReplaceAllString(strings.ToLower(kw), "-"),
					Confidence: 0.8,
					Source:     SourceContent,
					Context:    "extracted from file content",
				})
			}
		}
	}

	if folder != "" && folder != "." && folder != string(filepath.Separator) {
		tags = append(tags, SmartTag{
			Tag:        "folder:" + strings.ToLower(folder),
			Confidence: 0.7,
			Source:     SourceFolder,
			Context:    "parent folder name",
		})
	}

	if meta.HasModTime {
		tags = append(tags,
			SmartTag{
				Tag:        "year:" + strconv.Itoa(meta.ModTime.Year()),
				Confidence: 1.0,
				Source:     SourceFilename,
				Context:    "file modification date",
			},
			SmartTag{
				Tag:        "month:" + strings.ToLower(meta.ModTime.Month().String()),
				Confidence: 1.0,
				Source:     SourceFilename,
				Context:    "file modification date",
			},
		)
	}

	for _, p := range namePatterns {
		if p.re.MatchString(name) {
			tags = append(tags, SmartTag{
				Tag:        p.tag,
				Confidence: 0.8,
				Source:     SourceFilename,
				Context:    "filename pattern",
			})
		}
	}

	return dedupeTags(tags)
}

// dedupeTags keeps one tag per value, preferring the higher confidence,
// then sorts by descending confidence. The sort is stable so rule order
// breaks ties, keeping output deterministic.
func dedupeTags(tags []SmartTag) []SmartTag {
	seen := make(map[string]int)
	unique := tags[:0]
	for _, t := range tags {
		if i, ok := seen[t.Tag]; ok {
			if t.Confidence > unique[i].Confidence {
				unique[i] = t
			}
			continue
		}
		seen[t.Tag] = len(unique)
		unique = append(unique, t)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Confidence > unique[j].Confidence
	})
	return unique
}
