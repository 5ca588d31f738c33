package scoring

import (
	"reflect"
	"testing"

	"github.com/spiffcs/scout/internal/constants"
	"github.com/spiffcs/scout/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func commits(n int) []model.Commit {
	out := make([]model.Commit, n)
	for i := range out {
		out[i] = model.Commit{SHA: string(rune('a' + i%26))}
	}
	return out
}

func contributors(n int) []model.Contributor {
	out := make([]model.Contributor, n)
	for i := range out {
		out[i] = model.Contributor{Login: "user", Contributions: i + 1}
	}
	return out
}

func issue(labels ...string) model.Issue {
	return model.Issue{Labels: labels}
}

// fullDetail is a repository that earns every scoring component.
func fullDetail() *model.RepositoryDetail {
	return &model.RepositoryDetail{
		Repo: model.RepositoryMeta{
			Name:        "widget",
			FullName:    "octo/widget",
			Description: "A widget",
			Homepage:    "https://widget.dev",
			Language:    "Go",
			OpenIssues:  10,
			Archived:    boolPtr(false),
		},
		Issues: []model.Issue{
			issue("good first issue"),
			issue("good-first-issue"),
			issue("help wanted"),
		},
		Commits:      commits(12),
		Contributors: contributors(6),
		Files:        model.ContributionFiles{Contributing: true},
	}
}

func TestScoreFullRepository(t *testing.T) {
	h := NewHeuristics()
	d := fullDetail()

	score := h.Score(d)
	if score != 100 {
		t.Errorf("Score() = %v, want 100", score)
	}
	if status := h.DetermineStatus(d, score); status != model.StatusActivelyAccepting {
		t.Errorf("DetermineStatus() = %q, want %q", status, model.StatusActivelyAccepting)
	}
}

func TestScoreComponents(t *testing.T) {
	h := NewHeuristics()

	tests := []struct {
		name   string
		detail *model.RepositoryDetail
		want   float64
	}{
		{
			// open issues 0 < 50 is the only component that applies
			name:   "empty detail",
			detail: &model.RepositoryDetail{},
			want:   10,
		},
		{
			name: "known active repository",
			detail: &model.RepositoryDetail{
				Repo: model.RepositoryMeta{Archived: boolPtr(false), OpenIssues: 200},
			},
			want: 20,
		},
		{
			name: "archived earns no base points",
			detail: &model.RepositoryDetail{
				Repo: model.RepositoryMeta{Archived: boolPtr(true), OpenIssues: 200},
			},
			want: 0,
		},
		{
			name: "documentation",
			detail: &model.RepositoryDetail{
				Repo:  model.RepositoryMeta{Description: "d", Homepage: "h", OpenIssues: 200},
				Files: model.ContributionFiles{Contributing: true},
			},
			want: 25,
		},
		{
			name:   "one commit",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 200}, Commits: commits(1)},
			want:   5,
		},
		{
			name:   "five commits",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 200}, Commits: commits(5)},
			want:   5,
		},
		{
			name:   "six commits",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 200}, Commits: commits(6)},
			want:   10,
		},
		{
			name:   "ten commits",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 200}, Commits: commits(10)},
			want:   10,
		},
		{
			name:   "eleven commits",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 200}, Commits: commits(11)},
			want:   15,
		},
		{
			name:   "one contributor",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 200}, Contributors: contributors(1)},
			want:   0,
		},
		{
			name:   "two contributors",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 200}, Contributors: contributors(2)},
			want:   5,
		},
		{
			name:   "five contributors",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 200}, Contributors: contributors(5)},
			want:   5,
		},
		{
			name:   "six contributors",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 200}, Contributors: contributors(6)},
			want:   10,
		},
		{
			name:   "49 open issues",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 49}},
			want:   10,
		},
		{
			name:   "50 open issues",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 50}},
			want:   5,
		},
		{
			name:   "99 open issues",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 99}},
			want:   5,
		},
		{
			name:   "100 open issues",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{OpenIssues: 100}},
			want:   0,
		},
		{
			name: "labeled issues",
			detail: &model.RepositoryDetail{
				Repo:   model.RepositoryMeta{OpenIssues: 200},
				Issues: []model.Issue{issue("Good First Issue"), issue("HELP-WANTED")},
			},
			want: 20,
		},
		{
			name: "many labeled issues count once per category",
			detail: &model.RepositoryDetail{
				Repo: model.RepositoryMeta{OpenIssues: 200},
				Issues: []model.Issue{
					issue("good first issue"), issue("good first issue"), issue("good-first-issue"),
				},
			},
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Score(tt.detail); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	h := NewHeuristics()

	details := []*model.RepositoryDetail{
		{},
		fullDetail(),
		{Repo: model.RepositoryMeta{Archived: boolPtr(true), OpenIssues: 1000}},
		{
			Repo:         model.RepositoryMeta{Archived: boolPtr(false), Description: "x", Homepage: "y"},
			Issues:       []model.Issue{issue("good first issue", "help wanted")},
			Commits:      commits(100),
			Contributors: contributors(50),
			Files:        model.ContributionFiles{Contributing: true, CodeOfConduct: true, IssueTemplates: true, PRTemplate: true},
		},
	}

	for i, d := range details {
		score := h.Score(d)
		if score < 0 || score > MaxScore {
			t.Errorf("detail %d: score %v out of [0, %d]", i, score, MaxScore)
		}
	}
}

func TestDetermineStatus(t *testing.T) {
	h := NewHeuristics()

	tests := []struct {
		name   string
		detail *model.RepositoryDetail
		score  float64
		want   model.ContributionStatus
	}{
		{
			name:   "archived wins over a high score",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{Archived: boolPtr(true)}, Commits: commits(40)},
			score:  95,
			want:   model.StatusArchivedInactive,
		},
		{
			name:   "no commits forces archived inactive",
			detail: &model.RepositoryDetail{Repo: model.RepositoryMeta{Archived: boolPtr(false)}},
			score:  90,
			want:   model.StatusArchivedInactive,
		},
		{
			name:   "unknown archived flag with commits is scored",
			detail: &model.RepositoryDetail{Commits: commits(3)},
			score:  45,
			want:   model.StatusLimitedScope,
		},
		{
			name:   "exactly 70",
			detail: &model.RepositoryDetail{Commits: commits(1)},
			score:  70,
			want:   model.StatusActivelyAccepting,
		},
		{
			name:   "just below 70",
			detail: &model.RepositoryDetail{Commits: commits(1)},
			score:  69,
			want:   model.StatusLimitedScope,
		},
		{
			name:   "exactly 40",
			detail: &model.RepositoryDetail{Commits: commits(1)},
			score:  40,
			want:   model.StatusLimitedScope,
		},
		{
			name:   "below 40",
			detail: &model.RepositoryDetail{Commits: commits(1)},
			score:  39,
			want:   model.StatusNotAccepting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.DetermineStatus(tt.detail, tt.score); got != tt.want {
				t.Errorf("DetermineStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestZeroCommitsScoreIndependentOfStatus(t *testing.T) {
	h := NewHeuristics()
	d := fullDetail()
	d.Commits = nil

	a := h.Analyze(d)
	// 100 minus the 15 activity points
	if a.Score != 85 {
		t.Errorf("Score = %v, want 85", a.Score)
	}
	if a.Status != model.StatusArchivedInactive {
		t.Errorf("Status = %q, want %q", a.Status, model.StatusArchivedInactive)
	}
}

func TestCountLabeledIssues(t *testing.T) {
	tests := []struct {
		name   string
		issues []model.Issue
		labels []string
		want   int
	}{
		{
			name:   "case insensitive",
			issues: []model.Issue{issue("Good First Issue")},
			labels: constants.GoodFirstIssueLabels,
			want:   1,
		},
		{
			name:   "hyphenated spelling",
			issues: []model.Issue{issue("good-first-issue")},
			labels: constants.GoodFirstIssueLabels,
			want:   1,
		},
		{
			name:   "substrings do not match",
			issues: []model.Issue{issue("not a good first issue"), issue("help")},
			labels: append(append([]string{}, constants.GoodFirstIssueLabels...), constants.HelpWantedLabels...),
			want:   0,
		},
		{
			name:   "issue with both spellings counts once",
			issues: []model.Issue{issue("help wanted", "Help-Wanted")},
			labels: constants.HelpWantedLabels,
			want:   1,
		},
		{
			name:   "unrelated labels",
			issues: []model.Issue{issue("bug"), issue("beginner"), issue()},
			labels: constants.HelpWantedLabels,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountLabeledIssues(tt.issues, tt.labels); got != tt.want {
				t.Errorf("CountLabeledIssues() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	h := NewHeuristics()
	d := fullDetail()
	d.Repo.License = "MIT License"
	d.Files.CodeOfConduct = true

	a := h.Analyze(d)

	if a.FullName != "octo/widget" || a.License != "MIT License" {
		t.Errorf("identity not copied: %+v", a)
	}
	if a.GoodFirstIssues != 2 {
		t.Errorf("GoodFirstIssues = %d, want 2", a.GoodFirstIssues)
	}
	if a.HelpWantedIssues != 1 {
		t.Errorf("HelpWantedIssues = %d, want 1", a.HelpWantedIssues)
	}
	if a.RecentCommits != 12 || a.ContributorsCount != 6 {
		t.Errorf("counts = %d commits, %d contributors", a.RecentCommits, a.ContributorsCount)
	}
	if !a.HasContributingGuide || !a.HasCodeOfConduct || a.HasIssueTemplates || a.HasPRTemplate {
		t.Errorf("file flags not copied: %+v", a)
	}
	if a.ResponseTimeEstimate != ResponseWeek {
		t.Errorf("ResponseTimeEstimate = %q, want %q", a.ResponseTimeEstimate, ResponseWeek)
	}
	if a.MaintainerActivity != model.ActivityModeratelyActive {
		t.Errorf("MaintainerActivity = %q", a.MaintainerActivity)
	}
	if !reflect.DeepEqual(a.TechStack, []string{"Go", "Gin", "Echo"}) {
		t.Errorf("TechStack = %v", a.TechStack)
	}
	if a.SetupComplexity != model.ComplexitySimple {
		t.Errorf("SetupComplexity = %q", a.SetupComplexity)
	}
}

func TestAnalyzeUnknownLanguage(t *testing.T) {
	a := NewHeuristics().Analyze(&model.RepositoryDetail{})
	if a.Language != "Unknown" {
		t.Errorf("Language = %q, want Unknown", a.Language)
	}
	if len(a.TechStack) != 0 {
		t.Errorf("TechStack = %v, want empty", a.TechStack)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	h := NewHeuristics()
	d := fullDetail()

	first := h.Analyze(d)
	second := h.Analyze(d)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze() not idempotent:\n%+v\n%+v", first, second)
	}
}
