package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/prtime/core"
	"github.com/huangsam/prtime/internal/contract"
)

// contributorsCmd estimates time spent per contributor.
var contributorsCmd = &cobra.Command{
	Use:   "contributors <owner/repo>",
	Short: "Rank contributors by estimated hours across pull requests.",
	Long: `Group commits across pull requests by author and estimate each
author's combined commit stream.

A pull request counts toward every author who committed on it, not just the
PR opener, so pair work and shared branches attribute hours to both people.

Examples:
  # Who put in the most estimated hours over the last 90 days
  prtime contributors golang/go

  # Contributors across all PR states in a fixed window
  prtime contributors golang/go --state all --start 2024-01-01 --end 2024-06-30`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteContributors(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot estimate contributors", err)
		}
	},
}
