package domain

import (
	"testing"
	"time"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"invoice", "invoice-2024", 5},
		{"report", "reprot", 2},
	}

	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "", 0},
		{"", "abc", 0},
		{"report", "report", 1},
		{"abcd", "abce", 0.75},
	}

	for _, tt := range tests {
		if got := NameSimilarity(tt.a, tt.b); got != tt.want {
			t.Errorf("NameSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarNames_SameExtensionOnly(t *testing.T) {
	entries := []*RegistryEntry{
		{Fingerprint: "f1", CurrentPath: "/docs/report-2024.pdf"},
		{Fingerprint: "f2", CurrentPath: "/docs/report-2024.docx"},
		{Fingerprint: "f3", CurrentPath: "/docs/completely-unrelated.pdf"},
	}

	got := SimilarNames("/inbox/report-2025.pdf", "self", entries, 0.6)
	if len(got) != 1 || got[0] != "/docs/report-2024.pdf" {
		t.Errorf("expected only the same-extension near match, got %v", got)
	}
}

func TestSimilarNames_ExcludesOwnFingerprint(t *testing.T) {
	entries := []*RegistryEntry{
		{Fingerprint: "self", CurrentPath: "/docs/report-2025.pdf"},
	}

	if got := SimilarNames("/inbox/report-2025.pdf", "self", entries, 0.6); len(got) != 0 {
		t.Errorf("expected the candidate's own entry to be skipped, got %v", got)
	}
}

func TestScoreVersion(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := DefaultScoreConfig()

	tests := []struct {
		name string
		f    FileFacts
		want float64
	}{
		{
			name: "well organized descriptive file",
			f: FileFacts{
				Path:    "/home/u/Finance/Invoices/acme-march.pdf",
				Size:    10 * 1024,
				ModTime: now.Add(-time.Hour),
			},
			want: 20 + 15 + 10 + 5 + 5, // descriptive, non-copy, organized, recent, size cap
		},
		{
			name: "copy in downloads",
			f: FileFacts{
				Path:    "/home/u/Downloads/copy 2.pdf",
				Size:    1024,
				ModTime: now.Add(-30 * 24 * time.Hour),
			},
			want: 1, // size only
		},
		{
			name: "bare number name",
			f: FileFacts{
				Path: "/home/u/Archive/12345.pdf",
				Size: 0,
			},
			want: 15 + 10, // non-copy, organized
		},
		{
			name: "untitled on desktop",
			f: FileFacts{
				Path: "/home/u/Desktop/untitled.txt",
				Size: 512,
			},
			want: 15 + 0.5, // non-copy plus half a KB
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ScoreVersion(tt.f, now, cfg)
			if got != tt.want {
				t.Errorf("ScoreVersion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickBetterVersion_RequiresMargin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := DefaultScoreConfig()

	candidate := FileFacts{Path: "/home/u/Archive/report.pdf", Size: 10 * 1024}
	rival := FileFacts{Path: "/home/u/Work/report.pdf", Size: 10 * 1024, ModTime: now.Add(-time.Hour)}

	// Rival leads by 5 (recently modified), within the 20-point margin.
	if got := PickBetterVersion(candidate, []FileFacts{rival}, now, cfg); got != nil {
		t.Errorf("expected nil within margin, got %+v", got)
	}
}

func TestPickBetterVersion_ClearWinner(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := DefaultScoreConfig()

	candidate := FileFacts{Path: "/home/u/Downloads/copy.pdf", Size: 1024}
	rival := FileFacts{
		Path:    "/home/u/Finance/Invoices/acme-march.pdf",
		Size:    10 * 1024,
		ModTime: now.Add(-time.Hour),
	}

	got := PickBetterVersion(candidate, []FileFacts{rival}, now, cfg)
	if got == nil {
		t.Fatal("expected a better version, got nil")
	}
	if got.FilePath != rival.Path {
		t.Errorf("expected %s, got %s", rival.Path, got.FilePath)
	}
	if got.Reason == "" {
		t.Error("expected a non-empty reason")
	}
}

func TestPickBetterVersion_CandidateWins(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := DefaultScoreConfig()

	candidate := FileFacts{
		Path:    "/home/u/Finance/Invoices/acme-march.pdf",
		Size:    10 * 1024,
		ModTime: now.Add(-time.Hour),
	}
	rival := FileFacts{Path: "/home/u/Downloads/copy.pdf", Size: 1024}

	if got := PickBetterVersion(candidate, []FileFacts{rival}, now, cfg); got != nil {
		t.Errorf("expected nil when the candidate is the best copy, got %+v", got)
	}
}

func TestInStagingFolder(t *testing.T) {
	staging := []string{"Downloads", "Desktop"}

	tests := []struct {
		dir  string
		want bool
	}{
		{"/home/u/Downloads", true},
		{"/home/u/downloads", true},
		{"/home/u/Desktop/incoming", true},
		{"/home/u/Finance/Invoices", false},
		{"/home/u/MyDownloads", false},
	}

	for _, tt := range tests {
		if got := inStagingFolder(tt.dir, staging); got != tt.want {
			t.Errorf("inStagingFolder(%q) = %t, want %t", tt.dir, got, tt.want)
		}
	}
}

func TestDuplicateReason(t *testing.T) {
	one := DuplicateReason([]string{"/a/b/report.pdf"})
	if one != "exact duplicate found: report.pdf" {
		t.Errorf("unexpected single-duplicate reason: %q", one)
	}

	many := DuplicateReason([]string{"/a", "/b", "/c"})
	if many != "3 exact duplicates found" {
		t.Errorf("unexpected multi-duplicate reason: %q", many)
	}
}
