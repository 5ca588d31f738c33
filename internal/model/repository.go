// Package model contains domain types for scout.
// These types are independent of any external GitHub library.
package model

import "time"

// SearchResult is one repository returned by a keyword search.
type SearchResult struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	Stars       int    `json:"stars"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Archived    bool   `json:"archived"`
	HTMLURL     string `json:"htmlUrl"`
	Size        int    `json:"size"` // KB
}

// RepositoryMeta is the canonical repository metadata.
type RepositoryMeta struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	Description string `json:"description"`
	HTMLURL     string `json:"htmlUrl"`
	Homepage    string `json:"homepage"`
	Language    string `json:"language"`
	License     string `json:"license,omitempty"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	OpenIssues  int    `json:"openIssues"`
	Size        int    `json:"size"` // KB

	// Archived is nil when the metadata request degraded and the flag is unknown.
	Archived  *bool     `json:"archived,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsArchived reports whether the repository is known to be archived.
func (m RepositoryMeta) IsArchived() bool {
	return m.Archived != nil && *m.Archived
}

// IsKnownActive reports whether the repository is known not to be archived.
func (m RepositoryMeta) IsKnownActive() bool {
	return m.Archived != nil && !*m.Archived
}

// Issue is an open issue carrying one of the contribution labels.
type Issue struct {
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	HTMLURL string   `json:"htmlUrl"`
	Labels  []string `json:"labels"`
}

// Commit is a commit inside the recent activity window.
type Commit struct {
	SHA    string    `json:"sha"`
	Author string    `json:"author"`
	Date   time.Time `json:"date"`
}

// Contributor is one entry of the repository contributor list.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// ContributionFiles records which well-known contribution files exist.
type ContributionFiles struct {
	Contributing   bool `json:"contributing"`
	CodeOfConduct  bool `json:"codeOfConduct"`
	IssueTemplates bool `json:"issueTemplates"`
	PRTemplate     bool `json:"prTemplate"`
}

// RepositoryDetail aggregates the independently fetched sub-resources of one
// repository. Every field holds best-effort data; a failed sub-fetch leaves
// its field empty rather than failing the whole record.
type RepositoryDetail struct {
	Repo         RepositoryMeta    `json:"repo"`
	Issues       []Issue           `json:"issues"`
	Commits      []Commit          `json:"commits"`
	Contributors []Contributor     `json:"contributors"`
	Files        ContributionFiles `json:"files"`

	// Degraded lists the sub-resources that fell back to their empty form.
	Degraded []string `json:"degraded,omitempty"`
}

// DetailFromSearch builds the detail record used when nothing beyond the
// search result is available.
func DetailFromSearch(sr SearchResult) RepositoryDetail {
	archived := sr.Archived
	return RepositoryDetail{
		Repo: RepositoryMeta{
			Owner:       sr.Owner,
			Name:        sr.Name,
			FullName:    sr.FullName,
			Description: sr.Description,
			HTMLURL:     sr.HTMLURL,
			Language:    sr.Language,
			Stars:       sr.Stars,
			Size:        sr.Size,
			Archived:    &archived,
		},
	}
}
