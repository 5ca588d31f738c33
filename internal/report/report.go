// Package report derives the human-facing guidance shown next to an
// analysis: recommendations, a getting-started checklist and the grouped
// indicator and technical summaries.
package report

import (
	"fmt"
	"strings"

	"github.com/spiffcs/scout/internal/model"
	"github.com/spiffcs/scout/internal/scoring"
)

// Recommendations returns status-specific advice followed by technical
// warnings for complex setups and slow maintainers.
func Recommendations(a model.RepositoryAnalysis) []string {
	var recs []string

	switch a.Status {
	case model.StatusActivelyAccepting:
		recs = append(recs, "✅ This repository is actively accepting contributions!")
		if a.GoodFirstIssues > 0 {
			recs = append(recs, fmt.Sprintf("🎯 Start with %d 'good-first-issue' labeled issues", a.GoodFirstIssues))
		}
		if a.HelpWantedIssues > 0 {
			recs = append(recs, fmt.Sprintf("🆘 %d issues are specifically seeking help", a.HelpWantedIssues))
		}
		if a.HasContributingGuide {
			recs = append(recs, "📖 Read the CONTRIBUTING.md file before starting")
		} else {
			recs = append(recs, "⚠️ No contribution guide found - reach out to maintainers first")
		}
	case model.StatusLimitedScope:
		recs = append(recs,
			"⚠️ This repository has limited contribution opportunities",
			"💡 Consider small bug fixes or documentation improvements",
		)
	case model.StatusNotAccepting:
		recs = append(recs,
			"❌ This repository doesn't appear to be accepting contributions",
			"👀 Consider forking for your own modifications",
		)
	case model.StatusArchivedInactive:
		recs = append(recs,
			"🗄️ This repository is archived or inactive",
			"🔍 Look for active forks or alternatives",
		)
	}

	if a.SetupComplexity == model.ComplexityComplex {
		recs = append(recs, "🔧 Complex setup - allocate extra time for environment configuration")
	}
	if a.ResponseTimeEstimate == scoring.ResponseUnknown {
		recs = append(recs, "⏰ Maintainers may be slow to respond - be patient")
	}
	if a.Degraded {
		recs = append(recs, "❓ Some data could not be fetched - verify on GitHub before relying on this score")
	}

	return recs
}

// GettingStarted returns the ordered onboarding steps for a repository.
// Steps are unnumbered; renderers number them.
func GettingStarted(a model.RepositoryAnalysis) []string {
	steps := []string{
		"Fork the repository: " + a.URL,
		"Clone your fork locally",
		fmt.Sprintf("Set up the %s development environment", a.Language),
	}

	if len(a.TechStack) > 0 {
		steps = append(steps, "Install dependencies for: "+strings.Join(a.TechStack, ", "))
	}
	if a.HasContributingGuide {
		steps = append(steps, "Read CONTRIBUTING.md for specific guidelines")
	}
	if a.GoodFirstIssues > 0 {
		steps = append(steps, "Browse 'good-first-issue' labeled issues")
	} else {
		steps = append(steps, "Look for open issues or documentation improvements")
	}

	return append(steps,
		"Create a feature branch for your changes",
		"Make your changes and add tests if applicable",
		"Submit a pull request with a clear description",
	)
}

// Indicators groups the contribution signals of an analysis.
type Indicators struct {
	Score            float64 `json:"score"`
	Status           string  `json:"status"`
	ContributingFile bool    `json:"hasContributingGuide"`
	CodeOfConduct    bool    `json:"hasCodeOfConduct"`
	IssueTemplates   bool    `json:"hasIssueTemplates"`
	PRTemplate       bool    `json:"hasPrTemplate"`
	GoodFirstIssues  int     `json:"goodFirstIssues"`
	HelpWantedIssues int     `json:"helpWantedIssues"`
	ResponseTime     string  `json:"responseTime"`
}

// IndicatorsFor extracts the contribution indicators of a.
func IndicatorsFor(a model.RepositoryAnalysis) Indicators {
	return Indicators{
		Score:            a.Score,
		Status:           a.Status.Display(),
		ContributingFile: a.HasContributingGuide,
		CodeOfConduct:    a.HasCodeOfConduct,
		IssueTemplates:   a.HasIssueTemplates,
		PRTemplate:       a.HasPRTemplate,
		GoodFirstIssues:  a.GoodFirstIssues,
		HelpWantedIssues: a.HelpWantedIssues,
		ResponseTime:     a.ResponseTimeEstimate,
	}
}

// Technical groups the technical details of an analysis.
type Technical struct {
	Language           string                   `json:"language"`
	TechStack          []string                 `json:"techStack"`
	SetupComplexity    model.SetupComplexity    `json:"setupComplexity"`
	License            string                   `json:"license,omitempty"`
	Stars              int                      `json:"stars"`
	Forks              int                      `json:"forks"`
	Contributors       int                      `json:"contributors"`
	RecentCommits      int                      `json:"recentCommits"`
	MaintainerActivity model.MaintainerActivity `json:"maintainerActivity"`
}

// TechnicalFor extracts the technical details of a.
func TechnicalFor(a model.RepositoryAnalysis) Technical {
	return Technical{
		Language:           a.Language,
		TechStack:          a.TechStack,
		SetupComplexity:    a.SetupComplexity,
		License:            a.License,
		Stars:              a.Stars,
		Forks:              a.Forks,
		Contributors:       a.ContributorsCount,
		RecentCommits:      a.RecentCommits,
		MaintainerActivity: a.MaintainerActivity,
	}
}

// Checkmark renders a boolean indicator.
func Checkmark(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}
