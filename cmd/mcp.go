package cmd

import (
	"github.com/huangsam/bcat/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the BCAT MCP server",
	Long:  `Launch an MCP server that allows AI agents to score conversations and inspect the pattern catalog via standard tools.`,
	// Tool handlers suppress the normal score headers via context so
	// stdio stays clean for the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, provider)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
