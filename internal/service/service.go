// Package service orchestrates a keyword analysis: search, per-repository
// fetching and scoring.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spiffcs/scout/internal/constants"
	"github.com/spiffcs/scout/internal/ghclient"
	"github.com/spiffcs/scout/internal/log"
	"github.com/spiffcs/scout/internal/model"
	"github.com/spiffcs/scout/internal/scoring"
)

// ErrEmptyKeyword is returned when Analyze is called without a keyword.
var ErrEmptyKeyword = errors.New("keyword must not be empty")

// ProgressFunc is called once after the search (completed == 0) and after
// every analyzed repository.
type ProgressFunc func(completed, total int, repository string)

// AnalysisService runs the search, fetch and score pipeline for a keyword.
type AnalysisService struct {
	search  ghclient.SearchAPI
	fetcher DetailFetcher
	scorer  scoring.Scorer

	maxRepositories int
	minStars        int
	batchTimeout    time.Duration
	onProgress      ProgressFunc
}

// Option configures an AnalysisService.
type Option func(*AnalysisService)

// WithMaxRepositories sets how many search results are analyzed.
func WithMaxRepositories(n int) Option {
	return func(s *AnalysisService) {
		if n > 0 {
			s.maxRepositories = n
		}
	}
}

// WithMinStars sets the star floor of the search query.
func WithMinStars(n int) Option {
	return func(s *AnalysisService) {
		if n >= 0 {
			s.minStars = n
		}
	}
}

// WithBatchTimeout bounds a whole Analyze call. Zero disables the deadline.
func WithBatchTimeout(d time.Duration) Option {
	return func(s *AnalysisService) {
		s.batchTimeout = d
	}
}

// WithProgress sets the progress callback. onProgress may be nil (no-op).
func WithProgress(onProgress ProgressFunc) Option {
	return func(s *AnalysisService) {
		s.onProgress = onProgress
	}
}

// New creates an AnalysisService.
func New(search ghclient.SearchAPI, fetcher DetailFetcher, scorer scoring.Scorer, opts ...Option) *AnalysisService {
	s := &AnalysisService{
		search:          search,
		fetcher:         fetcher,
		scorer:          scorer,
		maxRepositories: constants.DefaultMaxRepositories,
		minStars:        constants.DefaultMinStars,
		batchTimeout:    constants.DefaultBatchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AnalysisService) reportProgress(completed, total int, repository string) {
	if s.onProgress != nil {
		s.onProgress(completed, total, repository)
	}
}

// Analyze searches for keyword and returns one analysis per result, in
// search order.
//
// A repository that fails on its own yields a degraded record built from the
// search result. A rejected token, the batch deadline or cancellation stops
// the run; the records completed so far are returned with the error.
func (s *AnalysisService) Analyze(ctx context.Context, keyword string) ([]model.RepositoryAnalysis, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	if s.batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.batchTimeout)
		defer cancel()
	}

	log.Info("searching repositories", "keyword", keyword, "min_stars", s.minStars, "max", s.maxRepositories)
	res, err := s.search.SearchRepositories(ctx, keyword, s.minStars, s.maxRepositories)
	s.search.Release()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if res.Degraded() {
		log.Warn("search failed, nothing to analyze", "keyword", keyword, "error", res.Err)
	}

	repos := res.Value
	log.Info("found repositories", "keyword", keyword, "count", len(repos))
	s.reportProgress(0, len(repos), "")

	analyses := make([]model.RepositoryAnalysis, 0, len(repos))
	for i, sr := range repos {
		if err := ctx.Err(); err != nil {
			return analyses, fmt.Errorf("analysis stopped after %d of %d repositories: %w", i, len(repos), err)
		}

		a, err := s.analyzeRepository(ctx, sr)
		if err != nil {
			return analyses, fmt.Errorf("analysis stopped at %s (%d of %d): %w", sr.FullName, i+1, len(repos), err)
		}

		log.Info("analyzed repository", "repo", sr.FullName, "status", a.Status, "score", a.Score)
		analyses = append(analyses, a)
		s.reportProgress(i+1, len(repos), sr.FullName)
	}

	return analyses, nil
}

// analyzeRepository fetches and scores one repository. The client session
// is released on every exit path.
func (s *AnalysisService) analyzeRepository(ctx context.Context, sr model.SearchResult) (model.RepositoryAnalysis, error) {
	defer s.search.Release()

	detail, err := s.fetcher.Fetch(ctx, sr)
	if err != nil {
		if ghclient.IsFatal(err) || ctx.Err() != nil {
			return model.RepositoryAnalysis{}, err
		}
		log.Warn("repository analysis failed, using search data", "repo", sr.FullName, "error", err)
		return s.degradedAnalysis(sr, err), nil
	}

	if len(detail.Degraded) > 0 {
		log.Debug("analyzed with partial data", "repo", sr.FullName, "degraded", strings.Join(detail.Degraded, ","))
	}
	return s.scorer.Analyze(detail), nil
}

// degradedAnalysis scores a repository from its search result alone.
func (s *AnalysisService) degradedAnalysis(sr model.SearchResult, cause error) model.RepositoryAnalysis {
	detail := model.DetailFromSearch(sr)
	a := s.scorer.Analyze(&detail)
	a.Degraded = true
	a.Error = cause.Error()
	return a
}
