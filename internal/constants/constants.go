// Package constants provides a centralized location for the thresholds,
// API defaults and magic numbers used throughout scout.
package constants

import "time"

// GitHub API defaults
const (
	// DefaultAPIURL is the public GitHub REST API endpoint.
	DefaultAPIURL = "https://api.github.com/"

	// MaxPerPage is the largest page size the GitHub API accepts.
	MaxPerPage = 100

	// IssuesPerPage caps the labeled open issues fetched per repository.
	IssuesPerPage = 100

	// CommitsPerPage caps the commits fetched for the activity window.
	CommitsPerPage = 100

	// ContributorsPerPage caps the contributors fetched per repository.
	ContributorsPerPage = 50

	// CommitWindow is how far back commits are counted as recent activity.
	CommitWindow = 90 * 24 * time.Hour
)

// Rate limiting constants
const (
	// RateLimitLowWatermark is the remaining-quota level below which
	// requests wait for the quota window to reset.
	RateLimitLowWatermark = 10

	// MaxRateLimitRetries bounds how many times a single request is
	// retried after the server reports the quota as exhausted.
	MaxRateLimitRetries = 2

	// MaxRateLimitWait bounds a single rate-limit wait so that a bogus
	// reset header cannot park the process for hours.
	MaxRateLimitWait = 65 * time.Minute
)

// Contribution label filter and probe paths
var (
	// ContributionLabels is the label filter applied to the open issues request.
	ContributionLabels = []string{"good-first-issue", "help-wanted", "beginner", "easy"}

	// GoodFirstIssueLabels are the label spellings counted as good first issues.
	GoodFirstIssueLabels = []string{"good-first-issue", "good first issue"}

	// HelpWantedLabels are the label spellings counted as help wanted.
	HelpWantedLabels = []string{"help-wanted", "help wanted"}
)

// Well-known contribution files probed in every repository.
const (
	PathContributing   = "CONTRIBUTING.md"
	PathCodeOfConduct  = "CODE_OF_CONDUCT.md"
	PathIssueTemplates = ".github/ISSUE_TEMPLATE"
	PathPRTemplate     = ".github/PULL_REQUEST_TEMPLATE.md"
)

// Runtime defaults
const (
	// DefaultMaxRepositories is the number of search results analyzed.
	DefaultMaxRepositories = 20

	// DefaultMinStars is the star floor used in the search query.
	DefaultMinStars = 100

	// DefaultConcurrency bounds the parallel sub-requests per repository.
	DefaultConcurrency = 8

	// DefaultRequestTimeout bounds a single HTTP request.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultBatchTimeout bounds a whole analysis run.
	DefaultBatchTimeout = 30 * time.Minute

	// DefaultTopRepositories is how many repositories summaries highlight.
	DefaultTopRepositories = 10

	// TUIUpdateInterval is the minimum time between TUI progress updates.
	TUIUpdateInterval = 50 * time.Millisecond
)
