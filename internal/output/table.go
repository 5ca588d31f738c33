package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spiffcs/scout/internal/format"
	"github.com/spiffcs/scout/internal/model"
	"github.com/spiffcs/scout/internal/service"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct {
	// Hyperlinks wraps repository names in OSC 8 links to their GitHub page.
	Hyperlinks bool
}

// Column widths
const (
	colStatus   = 20
	colScore    = 5
	colStars    = 6
	colRepo     = 36
	colLanguage = 12
	colGFI      = 4
	colActivity = 10
)

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// Format outputs the analyses as a table followed by a summary footer
func (f *TableFormatter) Format(r Report, w io.Writer) error {
	if len(r.Repositories) == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return nil
	}

	now := r.Summary.GeneratedAt
	if now.IsZero() {
		now = time.Now()
	}

	fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s  %s\n",
		format.PadRight("Status", colStatus+format.IconWidth),
		format.PadLeft("Score", colScore),
		format.PadLeft("Stars", colStars),
		format.PadRight("Repository", colRepo),
		format.PadRight("Language", colLanguage),
		format.PadLeft("GFI", colGFI),
		"Activity")
	fmt.Fprintln(w, strings.Repeat("-", colStatus+format.IconWidth+colScore+colStars+colRepo+colLanguage+colGFI+colActivity+12))

	for _, a := range r.Repositories {
		status := format.PadRight(format.StatusIcon(a.Status)+" "+colorStatus(a.Status, a.Status.Display()), colStatus+format.IconWidth)

		repo := format.Truncate(a.FullName, colRepo)
		if a.Degraded {
			repo = format.Truncate(a.FullName, colRepo-2) + " " + color.HiBlackString("*")
		}
		width := format.DisplayWidth(repo)
		if f.Hyperlinks && a.URL != "" {
			repo = hyperlink(repo, a.URL)
		}
		repo = repo + strings.Repeat(" ", max(colRepo-width, 0))

		fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s  %s\n",
			status,
			format.PadLeft(colorScore(a.Score), colScore),
			format.PadLeft(format.Compact(a.Stars), colStars),
			repo,
			format.PadRight(format.Truncate(a.Language, colLanguage), colLanguage),
			format.PadLeft(fmt.Sprintf("%d", a.GoodFirstIssues), colGFI),
			format.Since(a.LastActivity, now),
		)
	}

	printFooterSummary(r.Summary, w)

	return nil
}

// printFooterSummary prints the per-status counts below the table
func printFooterSummary(summary service.Summary, w io.Writer) {
	if summary.Total == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("━", 60))

	for _, status := range model.AllStatuses {
		count := summary.Count(status)
		if count == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s %s %s\n",
			format.StatusIcon(status),
			colorStatus(status, fmt.Sprintf("%d", count)),
			strings.ToLower(status.Display()))
	}
	if summary.Degraded > 0 {
		fmt.Fprintf(w, "  %s %d analyzed from partial data (marked *)\n", format.DegradedIcon, summary.Degraded)
	}
	fmt.Fprintf(w, "  Average score: %s\n", format.Score(summary.AverageScore))
}

// FormatSummary outputs a summary
func (f *TableFormatter) FormatSummary(summary service.Summary, w io.Writer) error {
	fmt.Fprintf(w, "Repositories analyzed for %q: %d\n", summary.Keyword, summary.Total)
	if summary.Total == 0 {
		return nil
	}
	fmt.Fprintf(w, "Average score: %s\n", format.Score(summary.AverageScore))

	fmt.Fprintln(w, "\nBy Status:")
	for _, sc := range summary.Statuses {
		fmt.Fprintf(w, "  %s %s: %d (%.1f%%)\n",
			format.StatusIcon(sc.Status),
			colorStatus(sc.Status, sc.Status.Display()),
			sc.Count, sc.Percent)
	}

	if len(summary.TopRepositories) > 0 {
		fmt.Fprintln(w, "\nTop Repositories:")
		for i, a := range summary.TopRepositories {
			fmt.Fprintf(w, "  %d. %s - %s/100 (%s)\n",
				i+1, a.FullName, format.Score(a.Score), a.Status.Display())
		}
	}

	if len(summary.Languages) > 0 {
		langs := make([]string, 0, len(summary.Languages))
		for _, lc := range summary.Languages {
			langs = append(langs, fmt.Sprintf("%s (%d)", lc.Language, lc.Count))
		}
		fmt.Fprintf(w, "\nPopular Languages: %s\n", strings.Join(langs, ", "))
	}

	return nil
}

func colorStatus(s model.ContributionStatus, text string) string {
	switch s {
	case model.StatusActivelyAccepting:
		return color.GreenString(text)
	case model.StatusLimitedScope:
		return color.YellowString(text)
	case model.StatusNotAccepting:
		return color.RedString(text)
	default:
		return color.HiBlackString(text)
	}
}

func colorScore(score float64) string {
	text := format.Score(score)
	switch {
	case score >= 70:
		return color.GreenString(text)
	case score >= 40:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}
