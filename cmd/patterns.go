package cmd

import (
	"github.com/huangsam/bcat/core"
	"github.com/huangsam/bcat/internal/contract"
	"github.com/spf13/cobra"
)

// patternsCmd displays the builtin pattern catalog.
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Display the 24 canonical interaction patterns",
	Long: `Show the builtin pattern catalog with each pattern's dimension
emphasis ordering.

Provides complete transparency into how conversations are classified,
including:
- Pattern ids, names, and tie-break order
- Dimension emphasis orderings (primary through quaternary)
- Expected metric bands and weights with --detail

No scoring is performed - this is purely informational.

Examples:
  # Show the catalog
  bcat patterns

  # Include expected metric bands
  bcat patterns --detail

  # Export as JSON for tooling
  bcat patterns --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePatterns(cfg); err != nil {
			contract.LogFatal("Cannot display patterns", err)
		}
	},
}
