package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/prtime/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp <owner/repo>",
	Short: "Start the prtime MCP server",
	Long: `Launch an MCP server that allows AI agents to estimate PR effort via standard tools.

The positional repository becomes the default target; tools may override it
per request with a 'repo' parameter.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
