package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/scout/internal/constants"
	"github.com/spiffcs/scout/internal/log"
	"github.com/spiffcs/scout/internal/model"
)

// Result is the outcome of a best-effort fetch. When Err is set, Value holds
// the fallback (the zero value) and Err explains why.
type Result[T any] struct {
	Value T
	Err   error
}

// Degraded reports whether the value is a fallback.
func (r Result[T]) Degraded() bool {
	return r.Err != nil
}

// getJSON fetches path and decodes it into T. The returned error is set only
// for failures that must stop the caller; everything else degrades.
func getJSON[T any](ctx context.Context, c *Client, path string, params url.Values) (Result[T], error) {
	raw, err := c.get(ctx, path, params)
	if err != nil {
		if isFatal(ctx, err) {
			return Result[T]{}, err
		}
		return Result[T]{Err: err}, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn("unexpected response shape", "path", path, "error", err)
		return Result[T]{Err: fmt.Errorf("decoding %s: %w", path, err)}, nil
	}
	return Result[T]{Value: v}, nil
}

func mapResult[S, T any](r Result[S], f func(S) T) Result[T] {
	if r.Err != nil {
		return Result[T]{Err: r.Err}
	}
	return Result[T]{Value: f(r.Value)}
}

func repoPath(owner, repo, suffix string) string {
	p := "repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

// SearchRepositories returns up to limit repositories matching keyword with
// more than minStars stars, most starred first.
func (c *Client) SearchRepositories(ctx context.Context, keyword string, minStars, limit int) (Result[[]model.SearchResult], error) {
	params := url.Values{
		"q":        {fmt.Sprintf("%s stars:>%d", keyword, minStars)},
		"sort":     {"stars"},
		"order":    {"desc"},
		"per_page": {strconv.Itoa(min(limit, constants.MaxPerPage))},
	}

	res, err := getJSON[gh.RepositoriesSearchResult](ctx, c, "search/repositories", params)
	if err != nil {
		return Result[[]model.SearchResult]{}, err
	}

	return mapResult(res, func(sr gh.RepositoriesSearchResult) []model.SearchResult {
		repos := sr.Repositories
		if limit >= 0 && len(repos) > limit {
			repos = repos[:limit]
		}
		out := make([]model.SearchResult, 0, len(repos))
		for _, r := range repos {
			out = append(out, toSearchResult(r))
		}
		return out
	}), nil
}

// Repository fetches the repository metadata. On failure the fallback has
// an unknown archived flag.
func (c *Client) Repository(ctx context.Context, owner, repo string) (Result[model.RepositoryMeta], error) {
	res, err := getJSON[gh.Repository](ctx, c, repoPath(owner, repo, ""), nil)
	if err != nil {
		return Result[model.RepositoryMeta]{}, err
	}
	return mapResult(res, toRepositoryMeta), nil
}

// OpenContributionIssues fetches open issues labeled for new contributors.
func (c *Client) OpenContributionIssues(ctx context.Context, owner, repo string) (Result[[]model.Issue], error) {
	params := url.Values{
		"state":    {"open"},
		"labels":   {strings.Join(constants.ContributionLabels, ",")},
		"per_page": {strconv.Itoa(constants.IssuesPerPage)},
	}

	res, err := getJSON[[]*gh.Issue](ctx, c, repoPath(owner, repo, "issues"), params)
	if err != nil {
		return Result[[]model.Issue]{}, err
	}
	return mapResult(res, toIssues), nil
}

// RecentCommits fetches commits made after since.
func (c *Client) RecentCommits(ctx context.Context, owner, repo string, since time.Time) (Result[[]model.Commit], error) {
	params := url.Values{
		"since":    {since.UTC().Format(time.RFC3339)},
		"per_page": {strconv.Itoa(constants.CommitsPerPage)},
	}

	res, err := getJSON[[]*gh.RepositoryCommit](ctx, c, repoPath(owner, repo, "commits"), params)
	if err != nil {
		return Result[[]model.Commit]{}, err
	}
	return mapResult(res, toCommits), nil
}

// Contributors fetches the top contributors.
func (c *Client) Contributors(ctx context.Context, owner, repo string) (Result[[]model.Contributor], error) {
	params := url.Values{
		"per_page": {strconv.Itoa(constants.ContributorsPerPage)},
	}

	res, err := getJSON[[]*gh.Contributor](ctx, c, repoPath(owner, repo, "contributors"), params)
	if err != nil {
		return Result[[]model.Contributor]{}, err
	}
	return mapResult(res, toContributors), nil
}

// FileExists probes the contents API for path. A 404 is a definite "no" and
// is not reported as degraded.
func (c *Client) FileExists(ctx context.Context, owner, repo, path string) (Result[bool], error) {
	raw, err := c.get(ctx, repoPath(owner, repo, "contents/"+strings.TrimPrefix(path, "/")), nil)
	if err != nil {
		switch {
		case isFatal(ctx, err):
			return Result[bool]{}, err
		case errors.Is(err, ErrNotFound):
			return Result[bool]{}, nil
		default:
			return Result[bool]{Err: err}, nil
		}
	}
	return Result[bool]{Value: contentExists(raw)}, nil
}

// contentExists interprets a contents API body: a non-empty directory
// listing or a file entry with a name.
func contentExists(raw json.RawMessage) bool {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err == nil {
		return len(entries) > 0
	}

	var file gh.RepositoryContent
	if err := json.Unmarshal(raw, &file); err == nil {
		return file.GetName() != ""
	}
	return false
}

func toSearchResult(r *gh.Repository) model.SearchResult {
	return model.SearchResult{
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Stars:       r.GetStargazersCount(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		Archived:    r.GetArchived(),
		HTMLURL:     r.GetHTMLURL(),
		Size:        r.GetSize(),
	}
}

func toRepositoryMeta(r gh.Repository) model.RepositoryMeta {
	meta := model.RepositoryMeta{
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		HTMLURL:     r.GetHTMLURL(),
		Homepage:    r.GetHomepage(),
		Language:    r.GetLanguage(),
		License:     r.GetLicense().GetName(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		OpenIssues:  r.GetOpenIssuesCount(),
		Size:        r.GetSize(),
		UpdatedAt:   r.GetUpdatedAt().Time,
	}
	if r.Archived != nil {
		archived := *r.Archived
		meta.Archived = &archived
	}
	return meta
}

func toIssues(issues []*gh.Issue) []model.Issue {
	out := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		var labels []string
		for _, label := range issue.Labels {
			labels = append(labels, label.GetName())
		}
		out = append(out, model.Issue{
			Number:  issue.GetNumber(),
			Title:   issue.GetTitle(),
			HTMLURL: issue.GetHTMLURL(),
			Labels:  labels,
		})
	}
	return out
}

func toCommits(commits []*gh.RepositoryCommit) []model.Commit {
	out := make([]model.Commit, 0, len(commits))
	for _, c := range commits {
		author := c.GetAuthor().GetLogin()
		if author == "" {
			author = c.GetCommit().GetAuthor().GetName()
		}
		out = append(out, model.Commit{
			SHA:    c.GetSHA(),
			Author: author,
			Date:   c.GetCommit().GetAuthor().GetDate().Time,
		})
	}
	return out
}

func toContributors(contributors []*gh.Contributor) []model.Contributor {
	out := make([]model.Contributor, 0, len(contributors))
	for _, c := range contributors {
		out = append(out, model.Contributor{
			Login:         c.GetLogin(),
			Contributions: c.GetContributions(),
		})
	}
	return out
}
