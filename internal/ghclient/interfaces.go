// Package ghclient provides a rate-limited GitHub REST API client.
package ghclient

import (
	"context"
	"time"

	"github.com/spiffcs/scout/internal/model"
)

// RepositoryAPI defines the per-repository reads used to build a
// RepositoryDetail. Each method degrades to an empty Result instead of
// failing; the error return is reserved for failures that must stop the
// caller (see IsFatal).
type RepositoryAPI interface {
	Repository(ctx context.Context, owner, repo string) (Result[model.RepositoryMeta], error)
	OpenContributionIssues(ctx context.Context, owner, repo string) (Result[[]model.Issue], error)
	RecentCommits(ctx context.Context, owner, repo string, since time.Time) (Result[[]model.Commit], error)
	Contributors(ctx context.Context, owner, repo string) (Result[[]model.Contributor], error)
	FileExists(ctx context.Context, owner, repo, path string) (Result[bool], error)
}

// SearchAPI defines the search and session operations an analysis run uses.
type SearchAPI interface {
	SearchRepositories(ctx context.Context, keyword string, minStars, limit int) (Result[[]model.SearchResult], error)

	// Release drops pooled connections; the next call reconnects.
	Release()
}

// Ensure Client implements the API interfaces.
var (
	_ RepositoryAPI = (*Client)(nil)
	_ SearchAPI     = (*Client)(nil)
)
