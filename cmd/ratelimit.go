package cmd

import (
	"fmt"
	"io"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"
	"github.com/spiffcs/scout/config"
	"github.com/spiffcs/scout/internal/ghclient"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long:  `Display current GitHub API rate limit status including remaining quota and reset time.`,
	}
	cmd.AddCommand(NewCmdRateLimitStatus())
	return cmd
}

// NewCmdRateLimitStatus creates the ratelimit status subcommand.
func NewCmdRateLimitStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current rate limit status",
		Long:  `Display the current GitHub API rate limit status for core, search and GraphQL APIs.`,
		RunE:  runRateLimitStatus,
	}
}

func runRateLimitStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	client, err := ghclient.NewClient(ghclient.ClientConfig{
		Token:          cfg.GetGitHubToken(),
		APIURL:         settings.APIURL,
		RequestTimeout: settings.RequestTimeout,
		UserAgent:      userAgent(),
	})
	if err != nil {
		return err
	}
	defer client.Release()

	limits, err := client.RateLimits(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get rate limits: %w", err)
	}

	printRateLimits(cmd.OutOrStdout(), limits, time.Now())
	return nil
}

func printRateLimits(w io.Writer, limits *gh.RateLimits, now time.Time) {
	fmt.Fprintln(w, "GitHub API Rate Limits:")
	fmt.Fprintln(w)

	rows := []struct {
		label string
		rate  *gh.Rate
	}{
		{"Core API:  ", limits.Core},
		{"Search API:", limits.Search},
		{"GraphQL:   ", limits.GraphQL},
	}
	for _, r := range rows {
		if r.rate == nil {
			continue
		}
		resetIn := r.rate.Reset.Time.Sub(now).Round(time.Second)
		if resetIn < 0 {
			resetIn = 0
		}
		fmt.Fprintf(w, "%s %d/%d remaining (resets in %s)\n", r.label, r.rate.Remaining, r.rate.Limit, resetIn)
	}
}
