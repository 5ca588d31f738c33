package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"
	"github.com/spiffcs/scout/config"
	"github.com/spiffcs/scout/internal/model"
	"github.com/spiffcs/scout/internal/service"
)

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Use != "scout [keyword]" {
		t.Errorf("expected Use to be 'scout [keyword]', got %q", cmd.Use)
	}

	for _, name := range []string{"analyze", "config", "version", "ratelimit"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"keyword", "output", "max-repos", "min-stars", "concurrency", "commit-window", "status", "summary", "verbose", "tui"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("root command missing --%s", flag)
		}
	}
}

func TestNewCmdAnalyze(t *testing.T) {
	cmd := NewCmdAnalyze(NewOptions())
	if cmd == nil {
		t.Fatal("NewCmdAnalyze() returned nil")
	}
	if cmd.Use != "analyze <keyword>" {
		t.Errorf("expected Use to be 'analyze <keyword>', got %q", cmd.Use)
	}
}

func TestNewCmdConfig(t *testing.T) {
	cmd := NewCmdConfig()
	if cmd == nil {
		t.Fatal("NewCmdConfig() returned nil")
	}
	if cmd.Use != "config" {
		t.Errorf("expected Use to be 'config', got %q", cmd.Use)
	}
}

func TestNewCmdVersion(t *testing.T) {
	SetVersionInfo("1.0.0", "abc123", "2024-01-01")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	cmd := NewCmdVersion()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.Run(cmd, nil)

	out := buf.String()
	if !strings.Contains(out, "scout 1.0.0") || !strings.Contains(out, "abc123") {
		t.Errorf("unexpected version output:\n%s", out)
	}
	if userAgent() != "scout/1.0.0" {
		t.Errorf("userAgent() = %q", userAgent())
	}
}

func TestNewOptions(t *testing.T) {
	force := true
	opts := NewOptions(
		WithKeyword("golang"),
		WithFormat("json"),
		WithMaxRepos(10),
		WithMinStars(5),
		WithConcurrency(2),
		WithCommitWindow("30d"),
		WithStatus("limited-scope"),
		WithVerbosity(1),
		WithTUI(&force),
	)

	if opts.Keyword != "golang" || opts.Format != "json" {
		t.Errorf("string options not applied: %+v", opts)
	}
	if opts.MaxRepos != 10 || opts.MinStars != 5 || opts.Concurrency != 2 {
		t.Errorf("numeric options not applied: %+v", opts)
	}
	if opts.CommitWindow != "30d" || opts.Status != "limited-scope" || opts.Verbosity != 1 {
		t.Errorf("options not applied: %+v", opts)
	}
	if opts.TUI == nil || !*opts.TUI {
		t.Error("WithTUI not applied")
	}
}

func TestTUIFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"true", "true", false},
		{"yes", "true", false},
		{"0", "false", false},
		{"false", "false", false},
		{"auto", "auto", false},
		{"maybe", "auto", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var value *bool
			f := newTUIFlag(&value)
			err := f.Set(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got := f.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShouldUseTUI(t *testing.T) {
	on, off := true, false

	tests := []struct {
		name string
		opts *Options
		want bool
	}{
		{"forced on", &Options{TUI: &on}, true},
		{"forced off", &Options{TUI: &off}, false},
		{"verbose overrides force", &Options{TUI: &on, Verbosity: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldUseTUI(tt.opts); got != tt.want {
				t.Errorf("shouldUseTUI() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveSettings(t *testing.T) {
	newCmd := func() (*cobra.Command, *Options) {
		opts := NewOptions()
		cmd := &cobra.Command{Use: "test"}
		addAnalyzeFlags(cmd, opts)
		return cmd, opts
	}
	fileValue := 50

	t.Run("unset flags keep config values", func(t *testing.T) {
		cmd, opts := newCmd()
		s, err := resolveSettings(cmd, &config.Config{MaxRepositories: &fileValue}, opts)
		if err != nil {
			t.Fatalf("resolveSettings() error = %v", err)
		}
		if s.MaxRepositories != 50 {
			t.Errorf("MaxRepositories = %d, want config value 50", s.MaxRepositories)
		}
	})

	t.Run("flags override config", func(t *testing.T) {
		cmd, opts := newCmd()
		for name, value := range map[string]string{
			"max-repos":     "5",
			"min-stars":     "0",
			"output":        "markdown",
			"commit-window": "2w",
		} {
			if err := cmd.Flags().Set(name, value); err != nil {
				t.Fatal(err)
			}
		}

		s, err := resolveSettings(cmd, &config.Config{MaxRepositories: &fileValue}, opts)
		if err != nil {
			t.Fatalf("resolveSettings() error = %v", err)
		}
		if s.MaxRepositories != 5 || s.MinStars != 0 || s.DefaultFormat != "markdown" {
			t.Errorf("flags not applied: %+v", s)
		}
		if s.CommitWindow != 14*24*time.Hour {
			t.Errorf("CommitWindow = %v", s.CommitWindow)
		}
	})

	t.Run("invalid flag values", func(t *testing.T) {
		for name, value := range map[string]string{
			"max-repos":     "500",
			"output":        "xml",
			"commit-window": "soon",
		} {
			cmd, opts := newCmd()
			if err := cmd.Flags().Set(name, value); err != nil {
				t.Fatal(err)
			}
			if _, err := resolveSettings(cmd, &config.Config{}, opts); err == nil {
				t.Errorf("--%s=%s: expected error", name, value)
			}
		}
	})
}

func TestRunAnalyzeRequiresKeyword(t *testing.T) {
	cmd := NewCmdAnalyze(NewOptions())
	err := runAnalyze(cmd, nil, NewOptions())
	if !errors.Is(err, errNoKeyword) {
		t.Errorf("runAnalyze() error = %v, want errNoKeyword", err)
	}
}

func TestParseStatusFilter(t *testing.T) {
	tests := []struct {
		input   string
		want    model.ContributionStatus
		wantErr bool
	}{
		{"", "", false},
		{"actively-accepting", model.StatusActivelyAccepting, false},
		{"limited_scope", model.StatusLimitedScope, false},
		{"Archived Inactive", model.StatusArchivedInactive, false},
		{"popular", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseStatusFilter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseStatusFilter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseStatusFilter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	want := "actively-accepting, limited-scope, not-accepting, archived-inactive"
	if got := statusValues(); got != want {
		t.Errorf("statusValues() = %q, want %q", got, want)
	}
}

func TestRunAnalyzeRejectsUnknownStatus(t *testing.T) {
	opts := NewOptions(WithStatus("popular"))
	err := runAnalyze(NewCmdAnalyze(opts), []string{"golang"}, opts)
	if err == nil || !strings.Contains(err.Error(), "--status") {
		t.Errorf("runAnalyze() error = %v, want invalid --status", err)
	}
}

func TestRenderOutputSummaryOnly(t *testing.T) {
	summary := service.Summary{Keyword: "golang"}

	var buf bytes.Buffer
	if err := renderOutput(&buf, "json", true, summary, nil); err != nil {
		t.Fatalf("renderOutput() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"keyword": "golang"`) {
		t.Errorf("summary JSON missing keyword:\n%s", buf.String())
	}
}

func TestPrintRateLimits(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limits := &gh.RateLimits{
		Core:   &gh.Rate{Limit: 5000, Remaining: 4321, Reset: gh.Timestamp{Time: now.Add(10 * time.Minute)}},
		Search: &gh.Rate{Limit: 30, Remaining: 0, Reset: gh.Timestamp{Time: now.Add(-time.Minute)}},
	}

	var buf bytes.Buffer
	printRateLimits(&buf, limits, now)
	out := buf.String()

	if !strings.Contains(out, "4321/5000 remaining (resets in 10m0s)") {
		t.Errorf("core line missing:\n%s", out)
	}
	if !strings.Contains(out, "0/30 remaining (resets in 0s)") {
		t.Errorf("search line should clamp past resets:\n%s", out)
	}
	if strings.Contains(out, "GraphQL") {
		t.Errorf("nil GraphQL rate should be skipped:\n%s", out)
	}
}
