package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/huangsam/prtime/core"
	"github.com/huangsam/prtime/internal/contract"
)

// prCmd estimates a single pull request with its session breakdown.
var prCmd = &cobra.Command{
	Use:   "pr <owner/repo> <number>",
	Short: "Estimate one pull request with its session breakdown.",
	Long: `Estimate a single pull request and show each work session.

Prints every detected session with its start, end, commit count and hours,
which makes it easy to sanity-check how the gap and buffer thresholds slice
a PR's commit history.

Examples:
  # Break down PR #123
  prtime pr golang/go 123

  # Same, with tighter session grouping
  prtime pr golang/go 123 --max-gap 45m --session-buffer 30m`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		number, err := strconv.Atoi(args[1])
		if err != nil || number <= 0 {
			contract.LogFatal("Invalid pull request number", fmt.Errorf("expected a positive integer, got %q", args[1]))
		}
		if err := core.ExecutePR(rootCtx, cfg, cacheManager, number); err != nil {
			contract.LogFatal("Cannot estimate pull request", err)
		}
	},
}
