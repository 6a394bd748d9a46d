// Package claudecli implements the content-classification collaborator
// by shelling out to the Claude Code CLI. The engine itself never calls
// this; its output is fed back through UpdateWithAnalysis.
package claudecli

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"curator/internal/domain"
	"curator/internal/ports"
)

// Analyzer implements ports.ContentAnalyzer using the claude CLI.
type Analyzer struct {
	model string
}

var _ ports.ContentAnalyzer = (*Analyzer)(nil)

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithModel sets the Claude model to use.
func WithModel(model string) Option {
	return func(a *Analyzer) {
		a.model = model
	}
}

// NewAnalyzer creates a new Claude CLI analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		model: "haiku", // Default to haiku for speed
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// claudeResponse represents the JSON output from claude CLI
type claudeResponse struct {
	Type         string  `json:"type"`
	Subtype      string  `json:"subtype"`
	CostUSD      float64 `json:"cost_usd"`
	DurationMS   int     `json:"duration_ms"`
	DurationAPI  int     `json:"duration_api_ms"`
	IsError      bool    `json:"is_error"`
	NumTurns     int     `json:"num_turns"`
	Result       string  `json:"result"`
	SessionID    string  `json:"session_id"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}

// analysisJSON represents the expected JSON format from Claude's response
type analysisJSON struct {
	Category string            `json:"category"`
	Keywords []string          `json:"keywords"`
	Summary  string            `json:"summary"`
	Entities map[string]string `json:"entities,omitempty"`
}

// Analyze classifies one file from its name and a content preview.
func (a *Analyzer) Analyze(path string, preview string) (*domain.ContentAnalysis, error) {
	prompt := buildPrompt(filepath.Base(path), preview)

	// Call claude CLI with JSON output
	args := []string{
		"-p", prompt,
		"--output-format", "json",
		"--model", a.model,
	}

	cmd := exec.Command("claude", args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("claude CLI error: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("claude CLI error: %w", err)
	}

	var response claudeResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return nil, fmt.Errorf("failed to parse claude response: %w", err)
	}

	if response.IsError {
		return nil, fmt.Errorf("claude returned an error: %s", response.Result)
	}

	return parseAnalysis(response.Result)
}

func buildPrompt(fileName, preview string) string {
	var content strings.Builder
	if preview != "" {
		fmt.Fprintf(&content, "Content preview:\n%s\n", preview)
	} else {
		content.WriteString("(Binary file - no content preview)\n")
	}

	return fmt.Sprintf(`You are classifying a file for an automatic file organizer.

File name: %s
%s

Respond with ONLY a JSON object in this exact format:
{
  "category": "invoice|receipt|resume|report|code|meeting-notes|contract|image|photo|other",
  "keywords": ["up", "to", "five", "keywords"],
  "summary": "one sentence describing the file",
  "entities": {"optional": "named entities such as vendor, person, date"}
}`, fileName, content.String())
}

var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// parseAnalysis extracts the analysis JSON from Claude's response text,
// tolerating surrounding prose or markdown fences.
func parseAnalysis(text string) (*domain.ContentAnalysis, error) {
	match := jsonBlockPattern.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("no JSON object in claude response")
	}

	var parsed analysisJSON
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	return &domain.ContentAnalysis{
		Category:          strings.ToLower(strings.TrimSpace(parsed.Category)),
		Keywords:          parsed.Keywords,
		ContentSummary:    parsed.Summary,
		ExtractedEntities: parsed.Entities,
	}, nil
}
