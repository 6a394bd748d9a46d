package ports

import "curator/internal/domain"

// ContentAnalyzer is the external content-classification collaborator.
// The engine never calls it; callers feed its output back through
// UpdateWithAnalysis.
type ContentAnalyzer interface {
	Analyze(path string, preview string) (*domain.ContentAnalysis, error)
}
