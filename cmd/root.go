package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "scout [keyword]",
		Short: "Find GitHub repositories that welcome contributions",
		Long: `A CLI tool that searches GitHub for repositories matching a keyword
and scores how ready each one is for new contributors. It uses heuristics
over recent commits, contributor counts, labeled issues and contribution files.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add analyze flags to root command so `scout -k go` and `scout analyze go` work identically
	addAnalyzeFlags(rootCmd, opts)
	rootCmd.Flags().StringVarP(&opts.Keyword, "keyword", "k", "", "Keyword to search repositories for")

	// Register subcommands
	rootCmd.AddCommand(NewCmdAnalyze(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit())

	return rootCmd
}
