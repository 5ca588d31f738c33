package scoring

import "github.com/spiffcs/scout/internal/model"

// Scorer defines the interface for scoring a single repository.
// This interface enables swapping the scoring engine in orchestration tests.
type Scorer interface {
	// Score calculates the readiness score for a repository.
	Score(d *model.RepositoryDetail) float64

	// DetermineStatus classifies a repository given its score.
	DetermineStatus(d *model.RepositoryDetail, score float64) model.ContributionStatus

	// Analyze builds the complete analysis record.
	Analyze(d *model.RepositoryDetail) model.RepositoryAnalysis
}

// Ensure Heuristics implements Scorer interface.
var _ Scorer = (*Heuristics)(nil)
