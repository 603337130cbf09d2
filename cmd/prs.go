package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/prtime/core"
	"github.com/huangsam/prtime/internal/contract"
)

// prsCmd estimates time spent across pull requests.
var prsCmd = &cobra.Command{
	Use:   "prs <owner/repo>",
	Short: "Rank pull requests by estimated hours of work.",
	Long: `Fetch pull requests and estimate how long each one took to build.

Commits on each PR are grouped into work sessions: commits closer together
than --max-gap belong to the same session, and every session starts with a
--session-buffer of ramp-up time. Estimates are ranked from highest to lowest.

Examples:
  # Estimate merged PRs from the last 90 days
  prtime prs golang/go

  # Open PRs from the last month, top 20
  prtime prs golang/go --state open --start "1 month ago" --limit 20

  # Include a secondary estimate for test-only commits
  prtime prs golang/go --test-estimate

  # Export findings to CSV for tracking
  prtime prs golang/go --output csv --output-file estimates.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePRs(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot estimate pull requests", err)
		}
	},
}
