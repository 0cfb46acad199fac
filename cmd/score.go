package cmd

import (
	"github.com/huangsam/bcat/core"
	"github.com/huangsam/bcat/internal/contract"
	"github.com/spf13/cobra"
)

// scoreCmd scores one conversation metrics document.
var scoreCmd = &cobra.Command{
	Use:   "score [metrics-path]",
	Short: "Score a conversation against its selected interaction pattern.",
	Long: `Score a conversation metrics document against one of the 24 canonical
interaction patterns and print the structured result.

Pattern selection follows a strict precedence:
- An explicit --pattern reference always wins
- Otherwise a team or scenario mapping rule decides (team beats scenario)
- Otherwise the best-aligned catalog pattern wins, with the full ranked
  leaderboard retained for auditing

The metrics document is JSON, either a curated metrics vector or a raw
provider payload (--raw). Reads stdin when no path is given.

Examples:
  # Score with automatic pattern selection
  bcat score call.json

  # Force a specific pattern by name or id
  bcat score call.json --pattern discovery
  bcat score call.json --pattern 15

  # Resolve through the mapping table for a team
  bcat score call.json --team sales-east --mapping-backend sqlite

  # Normalize a raw provider payload first
  bcat score payload.json --raw

  # Export the score for analytics
  bcat score call.json --output parquet --output-file score.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScore(rootCtx, cfg, provider); err != nil {
			contract.LogFatal("Cannot score conversation", err)
		}
	},
}

// bestCmd ranks every catalog pattern against the input.
var bestCmd = &cobra.Command{
	Use:   "best [metrics-path]",
	Short: "Rank all catalog patterns by alignment with a conversation.",
	Long: `Align a conversation metrics document against every pattern in the
catalog and print the ranked leaderboard, ignoring mapping rules.

Use this to audit why auto-best selection picked a pattern, or to see
how close the runners-up were.

Examples:
  # Show the full ranked leaderboard
  bcat best call.json

  # Only the top five
  bcat best call.json --limit 5`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBestMatch(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot rank patterns", err)
		}
	},
}
