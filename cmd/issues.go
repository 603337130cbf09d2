package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/prtime/core"
	"github.com/huangsam/prtime/internal/contract"
)

// issuesCmd estimates business-hours resolution time for closed issues.
var issuesCmd = &cobra.Command{
	Use:   "issues <owner/repo>",
	Short: "Estimate business-hours resolution time for closed issues.",
	Long: `List issues closed within the configured window and estimate how many
business hours each one stayed open.

Business hours run 07:00 to 19:00 on weekdays in the configured timezone.
Activity after 19:00 on the opening or closing day extends that day's window
to midnight, so late-night work still counts.

Examples:
  # Issues closed in the last 90 days
  prtime issues golang/go

  # Fixed window with an explicit timezone
  prtime issues golang/go --start 2024-01-01 --end 2024-03-31 --timezone Europe/Berlin`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteIssues(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot estimate issues", err)
		}
	},
}
