package service

import (
	"sort"
	"time"

	"github.com/spiffcs/scout/internal/model"
)

// PopularLanguageLimit is how many languages a Summary lists.
const PopularLanguageLimit = 5

// StatusCount is the share of repositories with one status.
type StatusCount struct {
	Status  model.ContributionStatus `json:"status"`
	Count   int                      `json:"count"`
	Percent float64                  `json:"percent"`
}

// LanguageCount is the number of repositories using a language.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// Summary aggregates the analyses of one run.
type Summary struct {
	Keyword         string                     `json:"keyword"`
	Total           int                        `json:"total"`
	Degraded        int                        `json:"degraded"`
	AverageScore    float64                    `json:"averageScore"`
	Statuses        []StatusCount              `json:"statuses"`
	TopRepositories []model.RepositoryAnalysis `json:"topRepositories"`
	Languages       []LanguageCount            `json:"popularLanguages"`
	GeneratedAt     time.Time                  `json:"generatedAt"`
}

// Count returns the number of repositories with status.
func (s Summary) Count(status model.ContributionStatus) int {
	for _, sc := range s.Statuses {
		if sc.Status == status {
			return sc.Count
		}
	}
	return 0
}

// FilterByStatus returns the analyses with the given status, keeping their
// order.
func FilterByStatus(analyses []model.RepositoryAnalysis, status model.ContributionStatus) []model.RepositoryAnalysis {
	var filtered []model.RepositoryAnalysis
	for _, a := range analyses {
		if a.Status == status {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// Summarize computes per-status counts, the topN repositories by score and
// the most used languages. Every status appears in Statuses, in display
// order, even with a zero count. Ties keep search order.
func Summarize(keyword string, analyses []model.RepositoryAnalysis, topN int, now time.Time) Summary {
	summary := Summary{
		Keyword:     keyword,
		Total:       len(analyses),
		GeneratedAt: now,
	}

	counts := make(map[model.ContributionStatus]int, len(model.AllStatuses))
	languages := make(map[string]int)
	var languageOrder []string
	var scoreSum float64

	for _, a := range analyses {
		counts[a.Status]++
		scoreSum += a.Score
		if a.Degraded {
			summary.Degraded++
		}
		if _, seen := languages[a.Language]; !seen {
			languageOrder = append(languageOrder, a.Language)
		}
		languages[a.Language]++
	}

	for _, status := range model.AllStatuses {
		sc := StatusCount{Status: status, Count: counts[status]}
		if summary.Total > 0 {
			sc.Percent = float64(sc.Count) / float64(summary.Total) * 100
			summary.AverageScore = scoreSum / float64(summary.Total)
		}
		summary.Statuses = append(summary.Statuses, sc)
	}

	top := make([]model.RepositoryAnalysis, len(analyses))
	copy(top, analyses)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Score > top[j].Score
	})
	if topN >= 0 && len(top) > topN {
		top = top[:topN]
	}
	summary.TopRepositories = top

	for _, lang := range languageOrder {
		summary.Languages = append(summary.Languages, LanguageCount{Language: lang, Count: languages[lang]})
	}
	sort.SliceStable(summary.Languages, func(i, j int) bool {
		return summary.Languages[i].Count > summary.Languages[j].Count
	})
	if len(summary.Languages) > PopularLanguageLimit {
		summary.Languages = summary.Languages[:PopularLanguageLimit]
	}

	return summary
}
