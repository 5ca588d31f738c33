// Package scoring turns a repository detail record into a contribution
// readiness score, a status and a few descriptive estimates.
package scoring

import (
	"strings"

	"github.com/spiffcs/scout/internal/constants"
	"github.com/spiffcs/scout/internal/model"
)

// MaxScore is the ceiling every score is clamped to.
const MaxScore = 100

// Status thresholds
const (
	ActivelyAcceptingThreshold = 70
	LimitedScopeThreshold      = 40
)

// Heuristics implements rule-based readiness scoring. The zero value is not
// usable; create one with NewHeuristics.
type Heuristics struct {
	frameworks     map[string][]string
	heavyLanguages map[string]bool
}

// NewHeuristics creates a heuristics scorer with the built-in language tables.
func NewHeuristics() *Heuristics {
	return &Heuristics{
		frameworks:     defaultFrameworks(),
		heavyLanguages: defaultHeavyLanguages(),
	}
}

// Score calculates the readiness score (0-100) for a repository.
func (h *Heuristics) Score(d *model.RepositoryDetail) float64 {
	score := 0

	// Only a repository known to be unarchived earns the base points.
	if d.Repo.IsKnownActive() {
		score += 20
	}

	score += documentationPoints(d)
	score += activityPoints(len(d.Commits))
	score += communityPoints(d)
	score += openIssuePoints(d.Repo.OpenIssues)

	return float64(min(score, MaxScore))
}

func documentationPoints(d *model.RepositoryDetail) int {
	points := 0
	if d.Files.Contributing {
		points += 15
	}
	if d.Repo.Description != "" {
		points += 5
	}
	if d.Repo.Homepage != "" {
		points += 5
	}
	return points
}

func activityPoints(commits int) int {
	switch {
	case commits > 10:
		return 15
	case commits > 5:
		return 10
	case commits > 0:
		return 5
	default:
		return 0
	}
}

func communityPoints(d *model.RepositoryDetail) int {
	points := 0
	if CountLabeledIssues(d.Issues, constants.GoodFirstIssueLabels) > 0 {
		points += 10
	}
	if CountLabeledIssues(d.Issues, constants.HelpWantedLabels) > 0 {
		points += 10
	}

	switch n := len(d.Contributors); {
	case n > 5:
		points += 10
	case n > 1:
		points += 5
	}
	return points
}

func openIssuePoints(open int) int {
	switch {
	case open < 50:
		return 10
	case open < 100:
		return 5
	default:
		return 0
	}
}

// DetermineStatus classifies a repository. Archival and inactivity take
// precedence over the score.
func (h *Heuristics) DetermineStatus(d *model.RepositoryDetail, score float64) model.ContributionStatus {
	if d.Repo.IsArchived() {
		return model.StatusArchivedInactive
	}
	if len(d.Commits) == 0 {
		return model.StatusArchivedInactive
	}

	switch {
	case score >= ActivelyAcceptingThreshold:
		return model.StatusActivelyAccepting
	case score >= LimitedScopeThreshold:
		return model.StatusLimitedScope
	default:
		return model.StatusNotAccepting
	}
}

// CountLabeledIssues counts issues carrying at least one of the given labels.
// Matching is case-insensitive and exact; an issue is counted at most once.
func CountLabeledIssues(issues []model.Issue, labels []string) int {
	count := 0
	for _, issue := range issues {
		if hasAnyLabel(issue.Labels, labels) {
			count++
		}
	}
	return count
}

func hasAnyLabel(issueLabels, targets []string) bool {
	for _, l := range issueLabels {
		for _, target := range targets {
			if strings.EqualFold(l, target) {
				return true
			}
		}
	}
	return false
}

// Analyze scores and classifies a repository and derives its descriptive
// fields. It has no side effects; analyzing the same detail twice yields
// identical records.
func (h *Heuristics) Analyze(d *model.RepositoryDetail) model.RepositoryAnalysis {
	score := h.Score(d)
	stack := h.TechStack(d.Repo)
	commits := len(d.Commits)

	language := d.Repo.Language
	if language == "" {
		language = "Unknown"
	}

	return model.RepositoryAnalysis{
		Name:        d.Repo.Name,
		FullName:    d.Repo.FullName,
		Description: d.Repo.Description,
		URL:         d.Repo.HTMLURL,
		Stars:       d.Repo.Stars,
		Forks:       d.Repo.Forks,
		Language:    language,
		License:     d.Repo.License,

		Status:       h.DetermineStatus(d, score),
		Score:        score,
		LastActivity: d.Repo.UpdatedAt,

		OpenIssues:        d.Repo.OpenIssues,
		GoodFirstIssues:   CountLabeledIssues(d.Issues, constants.GoodFirstIssueLabels),
		HelpWantedIssues:  CountLabeledIssues(d.Issues, constants.HelpWantedLabels),
		RecentCommits:     commits,
		ContributorsCount: len(d.Contributors),

		HasContributingGuide: d.Files.Contributing,
		HasCodeOfConduct:     d.Files.CodeOfConduct,
		HasIssueTemplates:    d.Files.IssueTemplates,
		HasPRTemplate:        d.Files.PRTemplate,

		ResponseTimeEstimate: EstimateResponseTime(commits),
		TechStack:            stack,
		SetupComplexity:      h.AssessSetupComplexity(d.Repo, stack),
		MaintainerActivity:   AssessMaintainerActivity(commits),
	}
}
