package output

import (
	"io"
	"os"

	"github.com/spiffcs/scout/internal/model"
	"github.com/spiffcs/scout/internal/service"
	"golang.org/x/term"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Report is everything a run produced: the analyses in search order and
// their summary.
type Report struct {
	Summary      service.Summary
	Repositories []model.RepositoryAnalysis
}

// Formatter defines the interface for output formatters
type Formatter interface {
	Format(report Report, w io.Writer) error
	FormatSummary(summary service.Summary, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{Hyperlinks: term.IsTerminal(int(os.Stdout.Fd()))}
	}
}
