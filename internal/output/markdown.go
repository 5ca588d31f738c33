package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/scout/internal/format"
	"github.com/spiffcs/scout/internal/model"
	"github.com/spiffcs/scout/internal/report"
	"github.com/spiffcs/scout/internal/service"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct{}

// Format outputs the summary followed by one section per repository
func (f *MarkdownFormatter) Format(r Report, w io.Writer) error {
	if err := f.FormatSummary(r.Summary, w); err != nil {
		return err
	}
	if len(r.Repositories) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\n## Repositories")
	for _, a := range r.Repositories {
		f.formatRepository(a, w)
	}
	return nil
}

func (f *MarkdownFormatter) formatRepository(a model.RepositoryAnalysis, w io.Writer) {
	fmt.Fprintf(w, "\n### %s [%s](%s)\n\n", format.StatusIcon(a.Status), a.FullName, a.URL)
	if a.Description != "" {
		fmt.Fprintf(w, "> %s\n\n", format.SingleLine(a.Description))
	}

	ind := report.IndicatorsFor(a)
	tech := report.TechnicalFor(a)

	fmt.Fprintf(w, "- **Status:** %s (score %s/100)\n", ind.Status, format.Score(ind.Score))
	fmt.Fprintf(w, "- **Stars:** %d | **Forks:** %d\n", tech.Stars, tech.Forks)
	fmt.Fprintf(w, "- **Language:** %s\n", tech.Language)
	if len(tech.TechStack) > 0 {
		fmt.Fprintf(w, "- **Tech Stack:** %s\n", strings.Join(tech.TechStack, ", "))
	}
	if tech.License != "" {
		fmt.Fprintf(w, "- **License:** %s\n", tech.License)
	}
	fmt.Fprintf(w, "- **Setup Complexity:** %s\n", tech.SetupComplexity)
	fmt.Fprintf(w, "- **Maintainer Activity:** %s (%d commits, %d contributors)\n",
		tech.MaintainerActivity, tech.RecentCommits, tech.Contributors)
	fmt.Fprintf(w, "- **Response Time:** %s\n", ind.ResponseTime)
	fmt.Fprintf(w, "- **Good First Issues:** %d | **Help Wanted:** %d\n", ind.GoodFirstIssues, ind.HelpWantedIssues)
	fmt.Fprintf(w, "- **Contributing Guide:** %s | **Code of Conduct:** %s | **Issue Templates:** %s | **PR Template:** %s\n",
		report.Checkmark(ind.ContributingFile),
		report.Checkmark(ind.CodeOfConduct),
		report.Checkmark(ind.IssueTemplates),
		report.Checkmark(ind.PRTemplate),
	)
	if a.Degraded {
		fmt.Fprintf(w, "- **Partial data:** %s\n", a.Error)
	}

	fmt.Fprintln(w, "\n#### Recommendations")
	for _, rec := range report.Recommendations(a) {
		fmt.Fprintf(w, "- %s\n", rec)
	}

	fmt.Fprintln(w, "\n#### Getting Started")
	for i, step := range report.GettingStarted(a) {
		fmt.Fprintf(w, "%d. %s\n", i+1, step)
	}
}

// FormatSummary outputs a summary as Markdown
func (f *MarkdownFormatter) FormatSummary(summary service.Summary, w io.Writer) error {
	fmt.Fprintf(w, "# 🔍 Contribution Report: %s\n", summary.Keyword)
	fmt.Fprintf(w, "\n*Generated: %s*\n\n", summary.GeneratedAt.Format("2006-01-02 15:04"))

	if summary.Total == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return nil
	}

	fmt.Fprintf(w, "*Total: %d repositories, average score %s*\n\n", summary.Total, format.Score(summary.AverageScore))

	fmt.Fprintln(w, "## By Status")
	fmt.Fprintln(w, "| Status | Count | Share |")
	fmt.Fprintln(w, "|--------|-------|-------|")
	for _, sc := range summary.Statuses {
		fmt.Fprintf(w, "| %s %s | %d | %.1f%% |\n", format.StatusIcon(sc.Status), sc.Status.Display(), sc.Count, sc.Percent)
	}

	if summary.Degraded > 0 {
		fmt.Fprintf(w, "\n*%d repositories were analyzed from partial data.*\n", summary.Degraded)
	}

	if len(summary.TopRepositories) > 0 {
		fmt.Fprintln(w, "\n## Top Repositories")
		for i, a := range summary.TopRepositories {
			fmt.Fprintf(w, "%d. **[%s](%s)** - %s/100 (%s)\n",
				i+1, a.FullName, a.URL, format.Score(a.Score), a.Status.Display())
		}
	}

	if len(summary.Languages) > 0 {
		fmt.Fprintln(w, "\n## Popular Languages")
		for _, lc := range summary.Languages {
			fmt.Fprintf(w, "- %s: %d\n", lc.Language, lc.Count)
		}
	}

	return nil
}
