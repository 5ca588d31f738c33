package cmd

// Options holds the shared command-line options for the scout CLI.
type Options struct {
	Keyword      string
	Format       string
	MaxRepos     int
	MinStars     int
	Concurrency  int
	CommitWindow string
	Verbosity    int
	Status       string
	SummaryOnly  bool
	TUI          *bool // nil = auto-detect, true = force TUI, false = disable TUI
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options and applies any provided options.
// Zero numeric fields defer to the configuration file.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithKeyword sets the search keyword.
func WithKeyword(keyword string) Option {
	return func(o *Options) {
		o.Keyword = keyword
	}
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithMaxRepos sets how many search results are analyzed.
func WithMaxRepos(n int) Option {
	return func(o *Options) {
		o.MaxRepos = n
	}
}

// WithMinStars sets the star floor of the search.
func WithMinStars(n int) Option {
	return func(o *Options) {
		o.MinStars = n
	}
}

// WithConcurrency sets the parallel sub-requests per repository.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}

// WithCommitWindow sets the recent activity window (e.g., "90d", "3mo").
func WithCommitWindow(window string) Option {
	return func(o *Options) {
		o.CommitWindow = window
	}
}

// WithStatus limits the listed repositories to one status.
func WithStatus(status string) Option {
	return func(o *Options) {
		o.Status = status
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}
