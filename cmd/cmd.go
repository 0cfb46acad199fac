// Package cmd defines the command-line interface for bcat.
package cmd

import (
	"github.com/huangsam/bcat/internal/contract"
	"github.com/huangsam/bcat/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(bestCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(mappingCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the mapping subcommands to the parent mapping command
	mappingCmd.AddCommand(mappingStatusCmd)
	mappingCmd.AddCommand(mappingMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-metric inputs behind each dimension")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of ranked patterns to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("mapping-backend", string(schema.NoneBackend), "Mapping backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("mapping-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("decay", string(schema.LinearDecay), "Out-of-band fit decay: linear or exponential")
	rootCmd.PersistentFlags().Float64("decay-scale", contract.DefaultDecayScale, "Distance at which out-of-band fit bottoms out")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of scoreCmd to Viper
	scoreCmd.Flags().StringP("pattern", "p", "", "Explicit pattern reference (id, name, or order)")
	scoreCmd.Flags().String("team", "", "Team id override for mapping resolution")
	scoreCmd.Flags().String("scenario", "", "Scenario id override for mapping resolution")
	scoreCmd.Flags().Bool("raw", false, "Treat input as a raw provider payload needing normalization")
	scoreCmd.Flags().Bool("explain", false, "Print per-pattern contribution breakdown in the leaderboard")
	if err := viper.BindPFlags(scoreCmd.Flags()); err != nil {
		contract.LogFatal("Error binding score flags", err)
	}

	// Bind all flags of mappingMigrateCmd to Viper
	mappingMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(mappingMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding mapping migrate flags", err)
	}
}
