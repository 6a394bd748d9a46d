package domain

import (
	"reflect"
	"testing"
	"time"
)

func tagValues(tags []SmartTag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Tag)
	}
	return out
}

func findTag(tags []SmartTag, value string) (SmartTag, bool) {
	for _, t := range tags {
		if t.Tag == value {
			return t, true
		}
	}
	return SmartTag{}, false
}

func TestGenerateTags_FiletypeAndFolder(t *testing.T) {
	meta := FileMeta{Path: "/home/u/Finance/statement.pdf"}

	tags := GenerateTags(meta, nil)

	ft, ok := findTag(tags, "filetype:pdf")
	if !ok {
		t.Fatalf("missing filetype tag, got %v", tagValues(tags))
	}
	if ft.Confidence != 1.0 || ft.Source != SourceFilename {
		t.Errorf("filetype tag = %+v", ft)
	}

	fo, ok := findTag(tags, "folder:finance")
	if !ok {
		t.Fatalf("missing folder tag, got %v", tagValues(tags))
	}
	if fo.Confidence != 0.7 || fo.Source != SourceFolder {
		t.Errorf("folder tag = %+v", fo)
	}
}

func TestGenerateTags_AnalysisTags(t *testing.T) {
	meta := FileMeta{Path: "/home/u/inbox/acme.pdf"}
	analysis := &ContentAnalysis{
		Category: "invoice",
		Keywords: []string{"Acme Corp", "Q1", "net 30"},
	}

	tags := GenerateTags(meta, analysis)

	cat, ok := findTag(tags, "category:invoice")
	if !ok {
		t.Fatalf("missing category tag, got %v", tagValues(tags))
	}
	if cat.Confidence != 0.9 || cat.Source != SourceAIAnalysis {
		t.Errorf("category tag = %+v", cat)
	}

	if _, ok := findTag(tags, "acme-corp"); !ok {
		t.Errorf("keyword should be lowercased with hyphens, got %v", tagValues(tags))
	}
	if _, ok := findTag(tags, "net-30"); !ok {
		t.Errorf("missing keyword tag, got %v", tagValues(tags))
	}
	if _, ok := findTag(tags, "q1"); ok {
		t.Errorf("keywords of length <= 2 should be dropped, got %v", tagValues(tags))
	}
}

func TestGenerateTags_DateTags(t *testing.T) {
	meta := FileMeta{
		Path:       "/home/u/inbox/notes.txt",
		ModTime:    time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC),
		HasModTime: true,
	}

	tags := GenerateTags(meta, nil)

	if _, ok := findTag(tags, "year:2026"); !ok {
		t.Errorf("missing year tag, got %v", tagValues(tags))
	}
	if _, ok := findTag(tags, "month:march"); !ok {
		t.Errorf("missing month tag, got %v", tagValues(tags))
	}
}

func TestGenerateTags_NoModTimeNoDateTags(t *testing.T) {
	tags := GenerateTags(FileMeta{Path: "/home/u/inbox/notes.txt"}, nil)

	for _, tag := range tagValues(tags) {
		if tag == "year:1" || tag == "month:january" {
			t.Errorf("date tags derived from zero time: %v", tagValues(tags))
		}
	}
}

func TestGenerateTags_NamePatterns(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"version suffix", "/in/report-v2.pdf", "has-version"},
		{"dotted version", "/in/lib-1.2.tar", "has-version"},
		{"draft marker", "/in/proposal-draft.docx", "is-draft"},
		{"wip marker", "/in/wip-notes.md", "is-draft"},
		{"final marker", "/in/report-final.pdf", "is-final"},
		{"dashed date", "/in/scan-2026-03-15.png", "has-date"},
		{"compact date", "/in/scan20260315.png", "has-date"},
		{"copy marker", "/in/report copy.pdf", "is-copy"},
		{"backup marker", "/in/db-backup.sql", "is-copy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := GenerateTags(FileMeta{Path: tt.path}, nil)
			if _, ok := findTag(tags, tt.want); !ok {
				t.Errorf("expected %q for %s, got %v", tt.want, tt.path, tagValues(tags))
			}
		})
	}
}

func TestGenerateTags_DedupeKeepsHigherConfidence(t *testing.T) {
	// The keyword "invoice" (0.8) collides with nothing here, but a
	// category of "draft" would collide with the is-draft name pattern.
	meta := FileMeta{Path: "/in/draft.txt"}
	analysis := &ContentAnalysis{Keywords: []string{"is draft"}}

	tags := GenerateTags(meta, analysis)

	count := 0
	for _, tag := range tagValues(tags) {
		if tag == "is-draft" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one is-draft tag, got %v", tagValues(tags))
	}
}

func TestGenerateTags_Deterministic(t *testing.T) {
	meta := FileMeta{
		Path:       "/home/u/Finance/invoice-final-v2.pdf",
		ModTime:    time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC),
		HasModTime: true,
	}
	analysis := &ContentAnalysis{
		Category: "invoice",
		Keywords: []string{"Acme", "payment terms"},
	}

	first := GenerateTags(meta, analysis)
	for i := 0; i < 10; i++ {
		if got := GenerateTags(meta, analysis); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed:\n%v\n%v", i, got, first)
		}
	}
}

func TestGenerateTags_SortedByConfidence(t *testing.T) {
	meta := FileMeta{
		Path:       "/home/u/Finance/invoice-draft.pdf",
		ModTime:    time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC),
		HasModTime: true,
	}
	tags := GenerateTags(meta, &ContentAnalysis{Category: "invoice"})

	for i := 1; i < len(tags); i++ {
		if tags[i].Confidence > tags[i-1].Confidence {
			t.Fatalf("tags not sorted by descending confidence: %v", tags)
		}
	}
}
