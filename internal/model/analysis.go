package model

import (
	"fmt"
	"strings"
	"time"
)

// ContributionStatus classifies how viable contributing to a repository is.
type ContributionStatus string

const (
	StatusActivelyAccepting ContributionStatus = "actively_accepting"
	StatusLimitedScope      ContributionStatus = "limited_scope"
	StatusNotAccepting      ContributionStatus = "not_accepting"
	StatusArchivedInactive  ContributionStatus = "archived_inactive"
)

// AllStatuses contains every status in display order.
// This is the single source of truth for valid status values.
var AllStatuses = []ContributionStatus{
	StatusActivelyAccepting,
	StatusLimitedScope,
	StatusNotAccepting,
	StatusArchivedInactive,
}

// Display returns a human-readable status, e.g. "Actively Accepting".
func (s ContributionStatus) Display() string {
	switch s {
	case StatusActivelyAccepting:
		return "Actively Accepting"
	case StatusLimitedScope:
		return "Limited Scope"
	case StatusNotAccepting:
		return "Not Accepting"
	case StatusArchivedInactive:
		return "Archived Inactive"
	default:
		return string(s)
	}
}

// Slug returns the status with underscores replaced by hyphens, as accepted
// on the command line.
func (s ContributionStatus) Slug() string {
	return strings.ReplaceAll(string(s), "_", "-")
}

// ParseStatus parses a status given as its raw value, Display or Slug form.
func ParseStatus(v string) (ContributionStatus, error) {
	norm := strings.ToLower(strings.NewReplacer(" ", "_", "-", "_").Replace(strings.TrimSpace(v)))
	for _, s := range AllStatuses {
		if string(s) == norm {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", v)
}

// RepositoryAnalysis is the scored, classified record produced for one
// repository. It is built once and treated as read-only afterwards.
type RepositoryAnalysis struct {
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Language    string `json:"language"`
	License     string `json:"license,omitempty"`

	Status       ContributionStatus `json:"status"`
	Score        float64            `json:"score"`
	LastActivity time.Time          `json:"lastActivity"`

	OpenIssues        int `json:"openIssues"`
	GoodFirstIssues   int `json:"goodFirstIssues"`
	HelpWantedIssues  int `json:"helpWantedIssues"`
	RecentCommits     int `json:"recentCommits"`
	ContributorsCount int `json:"contributorsCount"`

	HasContributingGuide bool `json:"hasContributingGuide"`
	HasCodeOfConduct     bool `json:"hasCodeOfConduct"`
	HasIssueTemplates    bool `json:"hasIssueTemplates"`
	HasPRTemplate        bool `json:"hasPrTemplate"`

	ResponseTimeEstimate string             `json:"responseTimeEstimate"`
	TechStack            []string           `json:"techStack"`
	SetupComplexity      SetupComplexity    `json:"setupComplexity"`
	MaintainerActivity   MaintainerActivity `json:"maintainerActivity"`

	// Degraded is set when the repository could not be analyzed and the
	// record was built from search data only. Error holds the reason.
	Degraded bool   `json:"degraded,omitempty"`
	Error    string `json:"error,omitempty"`
}

// SetupComplexity is the estimated effort to get a working dev environment.
type SetupComplexity string

const (
	ComplexitySimple   SetupComplexity = "Simple"
	ComplexityModerate SetupComplexity = "Moderate"
	ComplexityComplex  SetupComplexity = "Complex"
)

// MaintainerActivity buckets recent commit volume.
type MaintainerActivity string

const (
	ActivityVeryActive       MaintainerActivity = "Very Active"
	ActivityActive           MaintainerActivity = "Active"
	ActivityModeratelyActive MaintainerActivity = "Moderately Active"
	ActivityLow              MaintainerActivity = "Low Activity"
	ActivityInactive         MaintainerActivity = "Inactive"
)
