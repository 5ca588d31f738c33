package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spiffcs/scout/internal/constants"
	"github.com/spiffcs/scout/internal/ghclient"
	"github.com/spiffcs/scout/internal/log"
	"github.com/spiffcs/scout/internal/model"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRepository is returned for a search result without an owner or name.
var ErrInvalidRepository = errors.New("invalid repository identity")

// Sub-resource names recorded in RepositoryDetail.Degraded.
const (
	ResourceMetadata     = "metadata"
	ResourceIssues       = "issues"
	ResourceCommits      = "commits"
	ResourceContributors = "contributors"
)

// DetailFetcher builds the detail record for one search result.
type DetailFetcher interface {
	Fetch(ctx context.Context, sr model.SearchResult) (*model.RepositoryDetail, error)
}

// RepositoryFetcher gathers a repository's sub-resources in parallel.
type RepositoryFetcher struct {
	api          ghclient.RepositoryAPI
	concurrency  int
	commitWindow time.Duration
	now          func() time.Time
}

// FetcherOption configures a RepositoryFetcher.
type FetcherOption func(*RepositoryFetcher)

// WithConcurrency bounds the sub-requests in flight per repository.
// A value of 1 issues them one after another.
func WithConcurrency(n int) FetcherOption {
	return func(f *RepositoryFetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithCommitWindow sets how far back commits count as recent activity.
func WithCommitWindow(d time.Duration) FetcherOption {
	return func(f *RepositoryFetcher) {
		if d > 0 {
			f.commitWindow = d
		}
	}
}

// WithClock sets the clock used to compute the commit window.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *RepositoryFetcher) {
		f.now = now
	}
}

// NewRepositoryFetcher creates a RepositoryFetcher.
func NewRepositoryFetcher(api ghclient.RepositoryAPI, opts ...FetcherOption) *RepositoryFetcher {
	f := &RepositoryFetcher{
		api:          api,
		concurrency:  constants.DefaultConcurrency,
		commitWindow: constants.CommitWindow,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns a fully populated detail record for sr. Every sub-resource
// falls back to its empty form on failure and is listed in Degraded.
// Errors are returned only for an invalid identity and for failures that
// stop the whole run (see ghclient.IsFatal).
func (f *RepositoryFetcher) Fetch(ctx context.Context, sr model.SearchResult) (*model.RepositoryDetail, error) {
	if sr.Owner == "" || sr.Name == "" {
		return nil, fmt.Errorf("%w: owner=%q name=%q", ErrInvalidRepository, sr.Owner, sr.Name)
	}
	owner, name := sr.Owner, sr.Name
	since := f.now().Add(-f.commitWindow)

	detail := &model.RepositoryDetail{}
	var (
		mu        sync.Mutex
		forbidden []error
	)

	degrade := func(resource string, err error) {
		log.Debug("sub-resource degraded", "repo", sr.FullName, "resource", resource, "error", err)
		mu.Lock()
		detail.Degraded = append(detail.Degraded, resource)
		if errors.Is(err, ghclient.ErrForbidden) {
			forbidden = append(forbidden, err)
		}
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	g.Go(func() error {
		res, err := f.api.Repository(gctx, owner, name)
		if err != nil {
			return fmt.Errorf("%s: %w", ResourceMetadata, err)
		}
		if res.Degraded() {
			degrade(ResourceMetadata, res.Err)
		}
		mu.Lock()
		detail.Repo = res.Value
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		res, err := f.api.OpenContributionIssues(gctx, owner, name)
		if err != nil {
			return fmt.Errorf("%s: %w", ResourceIssues, err)
		}
		if res.Degraded() {
			degrade(ResourceIssues, res.Err)
		}
		mu.Lock()
		detail.Issues = res.Value
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		res, err := f.api.RecentCommits(gctx, owner, name, since)
		if err != nil {
			return fmt.Errorf("%s: %w", ResourceCommits, err)
		}
		if res.Degraded() {
			degrade(ResourceCommits, res.Err)
		}
		mu.Lock()
		detail.Commits = res.Value
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		res, err := f.api.Contributors(gctx, owner, name)
		if err != nil {
			return fmt.Errorf("%s: %w", ResourceContributors, err)
		}
		if res.Degraded() {
			degrade(ResourceContributors, res.Err)
		}
		mu.Lock()
		detail.Contributors = res.Value
		mu.Unlock()
		return nil
	})

	probes := []struct {
		path string
		set  func(files *model.ContributionFiles, exists bool)
	}{
		{constants.PathContributing, func(fs *model.ContributionFiles, v bool) { fs.Contributing = v }},
		{constants.PathCodeOfConduct, func(fs *model.ContributionFiles, v bool) { fs.CodeOfConduct = v }},
		{constants.PathIssueTemplates, func(fs *model.ContributionFiles, v bool) { fs.IssueTemplates = v }},
		{constants.PathPRTemplate, func(fs *model.ContributionFiles, v bool) { fs.PRTemplate = v }},
	}
	for _, p := range probes {
		g.Go(func() error {
			res, err := f.api.FileExists(gctx, owner, name, p.path)
			if err != nil {
				return fmt.Errorf("file %s: %w", p.path, err)
			}
			if res.Degraded() {
				degrade("file:"+p.path, res.Err)
			}
			mu.Lock()
			p.set(&detail.Files, res.Value)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Every request refused: the token cannot read this repository.
	if len(forbidden) == 4+len(probes) {
		return nil, fmt.Errorf("every request for %s was refused: %w", sr.FullName, forbidden[0])
	}

	// Keep the record attributable when the metadata request failed.
	if detail.Repo.FullName == "" {
		detail.Repo.Owner = sr.Owner
		detail.Repo.Name = sr.Name
		detail.Repo.FullName = sr.FullName
		detail.Repo.HTMLURL = sr.HTMLURL
	}
	sort.Strings(detail.Degraded)

	return detail, nil
}

// Ensure RepositoryFetcher implements DetailFetcher interface.
var _ DetailFetcher = (*RepositoryFetcher)(nil)
