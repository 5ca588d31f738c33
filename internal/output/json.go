package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/scout/internal/model"
	"github.com/spiffcs/scout/internal/report"
	"github.com/spiffcs/scout/internal/service"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// RepositoryReport is one analysis with its derived guidance.
type RepositoryReport struct {
	model.RepositoryAnalysis
	Recommendations []string `json:"recommendations"`
	GettingStarted  []string `json:"gettingStarted"`
}

// JSONOutput wraps the repositories with the run summary for JSON output
type JSONOutput struct {
	Summary      service.Summary    `json:"summary"`
	Repositories []RepositoryReport `json:"repositories"`
}

// Format outputs the summary and every repository as one JSON document
func (f *JSONFormatter) Format(r Report, w io.Writer) error {
	out := JSONOutput{
		Summary:      r.Summary,
		Repositories: make([]RepositoryReport, 0, len(r.Repositories)),
	}
	for _, a := range r.Repositories {
		out.Repositories = append(out.Repositories, RepositoryReport{
			RepositoryAnalysis: a,
			Recommendations:    report.Recommendations(a),
			GettingStarted:     report.GettingStarted(a),
		})
	}
	return f.encoder(w).Encode(out)
}

// FormatSummary outputs a summary as JSON
func (f *JSONFormatter) FormatSummary(summary service.Summary, w io.Writer) error {
	return f.encoder(w).Encode(summary)
}

func (f *JSONFormatter) encoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder
}
