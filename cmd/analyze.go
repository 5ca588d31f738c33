package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spiffcs/scout/config"
	"github.com/spiffcs/scout/internal/constants"
	"github.com/spiffcs/scout/internal/duration"
	"github.com/spiffcs/scout/internal/ghclient"
	"github.com/spiffcs/scout/internal/log"
	"github.com/spiffcs/scout/internal/model"
	"github.com/spiffcs/scout/internal/output"
	"github.com/spiffcs/scout/internal/scoring"
	"github.com/spiffcs/scout/internal/service"
	"github.com/spiffcs/scout/internal/tui"
)

// errNoKeyword is returned when neither an argument nor --keyword is given.
var errNoKeyword = errors.New("a keyword is required: scout analyze <keyword> or scout --keyword <keyword>")

// analyzeRuntime bundles TUI-related state that's threaded through the analyze command.
type analyzeRuntime struct {
	useTUI  bool
	events  chan tui.Event
	tuiDone chan error
	cancel  context.CancelFunc

	lastUpdate time.Time
}

// NewCmdAnalyze creates the analyze command.
func NewCmdAnalyze(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <keyword>",
		Short: "Score repositories matching a keyword (same as root scout)",
		Long: `Searches GitHub for repositories matching the keyword, fetches their
issues, commits, contributors and contribution files, and reports how ready
each one is for new contributors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
		SilenceUsage: true,
	}

	addAnalyzeFlags(cmd, opts)
	return cmd
}

// addAnalyzeFlags adds the analyze-specific flags to a command.
func addAnalyzeFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().IntVarP(&opts.MaxRepos, "max-repos", "m", 0, "Number of repositories to analyze, 1-100 (default from config: 20)")
	cmd.Flags().IntVarP(&opts.MinStars, "min-stars", "s", 0, "Only consider repositories with more stars (default from config: 100)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Parallel API requests per repository (default from config: 8)")
	cmd.Flags().StringVar(&opts.CommitWindow, "commit-window", "", "Window for recent commits (e.g., 30d, 3mo; default from config: 90d)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Only list repositories with this status ("+statusValues()+")")
	cmd.Flags().BoolVar(&opts.SummaryOnly, "summary", false, "Only print the summary")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	// TUI flag with tri-state: nil = auto, true = force, false = disable
	cmd.Flags().Var(newTUIFlag(&opts.TUI), "tui", "Enable/disable TUI progress (default: auto-detect)")
	cmd.Flags().Lookup("tui").NoOptDefVal = "true"
}

func runAnalyze(cmd *cobra.Command, args []string, opts *Options) error {
	keyword := opts.Keyword
	if len(args) > 0 {
		keyword = args[0]
	}
	if keyword == "" {
		return errNoKeyword
	}
	status, err := parseStatusFilter(opts.Status)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := resolveSettings(cmd, cfg, opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt := setupRuntime(opts, cancel)
	rt.startTUI(keyword)
	defer rt.close()

	client, err := ghclient.NewClient(ghclient.ClientConfig{
		Token:           cfg.GetGitHubToken(),
		APIURL:          settings.APIURL,
		RequestTimeout:  settings.RequestTimeout,
		UserAgent:       userAgent(),
		OnRateLimitWait: rt.rateLimited,
	})
	if err != nil {
		rt.sendEvent(tui.TaskAuth, tui.StatusError, tui.WithError(err))
		return err
	}
	defer client.Release()

	rt.sendEvent(tui.TaskAuth, tui.StatusRunning)
	login, err := client.AuthenticatedUser(ctx)
	if err != nil {
		rt.sendEvent(tui.TaskAuth, tui.StatusError, tui.WithError(err))
		return err
	}
	log.Info("authenticated", "user", login)
	rt.sendEvent(tui.TaskAuth, tui.StatusComplete, tui.WithMessage(login))

	fetcher := service.NewRepositoryFetcher(client,
		service.WithConcurrency(settings.Concurrency),
		service.WithCommitWindow(settings.CommitWindow),
	)
	svc := service.New(client, fetcher, scoring.NewHeuristics(),
		service.WithMaxRepositories(settings.MaxRepositories),
		service.WithMinStars(settings.MinStars),
		service.WithBatchTimeout(settings.BatchTimeout),
		service.WithProgress(rt.progress),
	)

	rt.sendEvent(tui.TaskSearch, tui.StatusRunning)
	analyses, runErr := svc.Analyze(ctx, keyword)
	if runErr != nil && len(analyses) == 0 {
		rt.sendEvent(tui.TaskSearch, tui.StatusError, tui.WithError(runErr))
		return runErr
	}
	if runErr != nil {
		rt.sendEvent(tui.TaskAnalyze, tui.StatusError, tui.WithError(runErr))
		log.Warn("analysis incomplete, reporting partial results", "completed", len(analyses), "error", runErr)
	}

	quota := client.RateLimitStatus()
	log.Info("analysis finished", "repositories", len(analyses), "quota_remaining", quota.Remaining, "quota_limit", quota.Limit)

	rt.sendEvent(tui.TaskReport, tui.StatusRunning)
	summary := service.Summarize(keyword, analyses, settings.TopRepositories, time.Now())
	if status != "" {
		analyses = service.FilterByStatus(analyses, status)
	}
	rt.sendEvent(tui.TaskReport, tui.StatusComplete, tui.WithCount(len(analyses)))

	// Output
	rt.close()
	if err := renderOutput(cmd.OutOrStdout(), settings.DefaultFormat, opts.SummaryOnly, summary, analyses); err != nil {
		return err
	}
	return runErr
}

// resolveSettings merges flags that were explicitly set on top of the
// configuration file.
func resolveSettings(cmd *cobra.Command, cfg *config.Config, opts *Options) (config.Settings, error) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.DefaultFormat = opts.Format
	}
	if flags.Changed("max-repos") {
		cfg.MaxRepositories = &opts.MaxRepos
	}
	if flags.Changed("min-stars") {
		cfg.MinStars = &opts.MinStars
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = &opts.Concurrency
	}
	if flags.Changed("commit-window") {
		if _, err := duration.Parse(opts.CommitWindow); err != nil {
			return config.Settings{}, fmt.Errorf("invalid --commit-window: %w", err)
		}
		cfg.CommitWindow = opts.CommitWindow
	}
	return cfg.Settings()
}

// setupRuntime configures logging and returns the runtime for this invocation.
func setupRuntime(opts *Options, cancel context.CancelFunc) *analyzeRuntime {
	useTUI := shouldUseTUI(opts)

	// Initialize logging - suppress logs during TUI to avoid interleaving with display
	if useTUI {
		log.Initialize(opts.Verbosity, io.Discard)
	} else {
		log.Initialize(opts.Verbosity, os.Stderr)
	}

	return &analyzeRuntime{useTUI: useTUI, cancel: cancel}
}

// startTUI initializes and starts the TUI goroutine if TUI mode is enabled.
// Quitting the TUI cancels the run.
func (rt *analyzeRuntime) startTUI(keyword string) {
	if !rt.useTUI {
		return
	}
	rt.events = make(chan tui.Event, 100)
	rt.tuiDone = make(chan error, 1)
	go func() {
		canceled, err := tui.Run(rt.events, tui.WithKeyword(keyword))
		if canceled {
			rt.cancel()
		}
		rt.tuiDone <- err
	}()
}

// close closes the event channel and waits for the TUI to finish. It is
// safe to call more than once.
func (rt *analyzeRuntime) close() {
	if rt.events == nil {
		return
	}
	close(rt.events)
	rt.events = nil
	if err := <-rt.tuiDone; err != nil {
		log.Warn("progress display failed", "error", err)
	}
}

// sendEvent sends a task event to the TUI channel if it exists.
func (rt *analyzeRuntime) sendEvent(task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	if rt.events == nil {
		return
	}
	tui.SendTaskEvent(rt.events, task, status, opts...)
}

// progress reports search completion and per-repository progress.
func (rt *analyzeRuntime) progress(completed, total int, repository string) {
	if completed == 0 {
		rt.sendEvent(tui.TaskSearch, tui.StatusComplete, tui.WithCount(total))
	}

	if !rt.useTUI {
		if total > 0 {
			log.Progress("Analyzing repositories: %d/%d...", completed, total)
		}
		if completed == total {
			log.ProgressDone()
		}
		return
	}

	// Throttle TUI updates for smooth progress without overhead
	now := time.Now()
	if completed != 0 && completed != total && now.Sub(rt.lastUpdate) < constants.TUIUpdateInterval {
		return
	}
	rt.lastUpdate = now
	tui.AnalyzeProgress(rt.events)(completed, total, repository)
}

// rateLimited tells the TUI that requests are paused until resumeAt.
func (rt *analyzeRuntime) rateLimited(resumeAt time.Time) {
	if rt.events == nil {
		return
	}
	tui.SendEvent(rt.events, tui.RateLimitEvent{Limited: true, ResetAt: resumeAt})
}

// parseStatusFilter validates --status. An empty value means no filter.
func parseStatusFilter(v string) (model.ContributionStatus, error) {
	if v == "" {
		return "", nil
	}
	status, err := model.ParseStatus(v)
	if err != nil {
		return "", fmt.Errorf("invalid --status: %w (use %s)", err, statusValues())
	}
	return status, nil
}

// statusValues lists the accepted --status values.
func statusValues() string {
	values := make([]string, 0, len(model.AllStatuses))
	for _, s := range model.AllStatuses {
		values = append(values, s.Slug())
	}
	return strings.Join(values, ", ")
}

// renderOutput formats the results for the chosen output format.
func renderOutput(w io.Writer, format string, summaryOnly bool, summary service.Summary, analyses []model.RepositoryAnalysis) error {
	formatter := output.NewFormatter(output.Format(format))
	if summaryOnly {
		return formatter.FormatSummary(summary, w)
	}
	return formatter.Format(output.Report{Summary: summary, Repositories: analyses}, w)
}
