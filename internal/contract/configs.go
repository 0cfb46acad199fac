package contract

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/bcat/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 24 // full leaderboard by default
	DefaultPrecision   = 2
	DefaultDecayScale  = 0.35
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DimWeightsRaw holds dimension weight overrides from the YAML config file.
// Pointers distinguish "not set" from an explicit zero.
type DimWeightsRaw struct {
	Precision  *float64 `mapstructure:"precision"`
	Resolve    *float64 `mapstructure:"resolve"`
	Innovation *float64 `mapstructure:"innovation"`
	Harmony    *float64 `mapstructure:"harmony"`
}

// Config holds the runtime configuration for scoring.
// This struct remains the "final, validated" config.
type Config struct {
	MetricsPath string // Path to the metrics JSON document ("-" = stdin)
	RawPayload  bool   // Input is a raw provider payload needing normalization

	PatternRefStr string // Explicit pattern reference (empty = none)
	TeamID        string // Team id override (takes precedence over metadata)
	ScenarioID    string // Scenario id override

	ResultLimit int               // Leaderboard rows to display
	Precision   int               // Decimal precision for numeric columns (1 or 2)
	Output      schema.OutputMode // Output format
	OutputFile  string            // Optional path to write output directly
	Explain     bool              // Print per-metric contribution breakdown
	Detail      bool              // Print dimension detail rows
	Width       int               // Terminal width override (0 = auto-detect)

	MappingBackend   schema.DatabaseBackend
	MappingDBConnect string // Please use env var as this is plaintext

	DecayKind  schema.DecayKind
	DecayScale float64

	// DimensionWeights is the weight of each dimension in the aggregate,
	// computed from defaults plus config file overrides.
	DimensionWeights map[schema.Dimension]float64

	// MetricDimensions is the per-metric dimension grouping, computed from
	// defaults plus config file overrides. Shares per metric sum to 1.
	MetricDimensions map[schema.MetricKey]map[schema.Dimension]float64

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// Set manually from positional args, so no tag
	MetricsPathStr string

	Pattern    string `mapstructure:"pattern"`
	Team       string `mapstructure:"team"`
	Scenario   string `mapstructure:"scenario"`
	Raw        bool   `mapstructure:"raw"`
	Limit      int    `mapstructure:"limit"`
	Precision  int    `mapstructure:"precision"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Explain    bool   `mapstructure:"explain"`
	Detail     bool   `mapstructure:"detail"`
	Width      int    `mapstructure:"width"`

	MappingBackend   string `mapstructure:"mapping-backend"`
	MappingDBConnect string `mapstructure:"mapping-db-connect"`

	DecayKind  string  `mapstructure:"decay"`
	DecayScale float64 `mapstructure:"decay-scale"`

	Emoji string `mapstructure:"emoji"`
	Color string `mapstructure:"color"`

	// Dimension weight overrides from the config file.
	Dimensions DimWeightsRaw `mapstructure:"dimensions"`

	// Per-metric dimension share overrides from the config file. A metric
	// listed here replaces its default grouping entirely.
	MetricDimensions map[string]map[string]float64 `mapstructure:"metric-dimensions"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.DimensionWeights != nil {
		clone.DimensionWeights = make(map[schema.Dimension]float64, len(c.DimensionWeights))
		maps.Copy(clone.DimensionWeights, c.DimensionWeights)
	}
	if c.MetricDimensions != nil {
		clone.MetricDimensions = make(map[schema.MetricKey]map[schema.Dimension]float64, len(c.MetricDimensions))
		for m, shares := range c.MetricDimensions {
			cloned := make(map[schema.Dimension]float64, len(shares))
			maps.Copy(cloned, shares)
			clone.MetricDimensions[m] = cloned
		}
	}
	return &clone
}

// ProcessAndValidate turns raw input into a validated Config. It is the one
// place where user-facing strings become typed values.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	cfg.MetricsPath = input.MetricsPathStr
	cfg.RawPayload = input.Raw
	cfg.PatternRefStr = strings.TrimSpace(input.Pattern)
	cfg.TeamID = strings.TrimSpace(input.Team)
	cfg.ScenarioID = strings.TrimSpace(input.Scenario)
	cfg.OutputFile = input.OutputFile
	cfg.Explain = input.Explain
	cfg.Detail = input.Detail
	cfg.Width = input.Width

	cfg.ResultLimit = input.Limit
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = DefaultResultLimit
	}

	cfg.Precision = input.Precision
	if cfg.Precision < 1 {
		cfg.Precision = 1
	}
	if cfg.Precision > 4 {
		cfg.Precision = 4
	}

	output := schema.OutputMode(strings.ToLower(input.Output))
	if output == "" {
		output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output mode %q. Must be text, json, csv, or parquet", input.Output)
	}
	cfg.Output = output
	if output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	backend := schema.DatabaseBackend(strings.ToLower(input.MappingBackend))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidMappingBackends[backend]; !ok {
		return fmt.Errorf("invalid mapping backend %q. Must be sqlite, mysql, postgresql, or none", input.MappingBackend)
	}
	cfg.MappingBackend = backend
	cfg.MappingDBConnect = input.MappingDBConnect

	decay := schema.DecayKind(strings.ToLower(input.DecayKind))
	if decay == "" {
		decay = schema.LinearDecay
	}
	if _, ok := schema.ValidDecayKinds[decay]; !ok {
		return fmt.Errorf("invalid decay kind %q. Must be linear or exponential", input.DecayKind)
	}
	cfg.DecayKind = decay

	cfg.DecayScale = input.DecayScale
	if cfg.DecayScale <= 0 {
		cfg.DecayScale = DefaultDecayScale
	}

	weights, err := processDimensionWeights(&input.Dimensions)
	if err != nil {
		return err
	}
	cfg.DimensionWeights = weights

	metricDims, err := processMetricDimensions(input.MetricDimensions)
	if err != nil {
		return err
	}
	cfg.MetricDimensions = metricDims

	cfg.UseEmojis = parseToggle(input.Emoji, true)
	cfg.UseColors = parseToggle(input.Color, true)

	return nil
}

// processDimensionWeights merges config file overrides onto the default
// dimension weights and rejects non-positive totals.
func processDimensionWeights(raw *DimWeightsRaw) (map[schema.Dimension]float64, error) {
	weights := schema.GetDefaultDimensionWeights()

	overrides := map[schema.Dimension]*float64{
		schema.DimPrecision:  raw.Precision,
		schema.DimResolve:    raw.Resolve,
		schema.DimInnovation: raw.Innovation,
		schema.DimHarmony:    raw.Harmony,
	}
	var total float64
	for dim, override := range overrides {
		if override != nil {
			if *override < 0 {
				return nil, fmt.Errorf("dimension weight for %s cannot be negative", dim)
			}
			weights[dim] = *override
		}
		total += weights[dim]
	}
	if total <= 0 {
		return nil, fmt.Errorf("dimension weights cannot all be zero")
	}
	return weights, nil
}

// processMetricDimensions merges config file overrides onto the default
// metric grouping. An overridden metric replaces its default shares entirely;
// shares are normalized so they sum to 1 per metric.
func processMetricDimensions(raw map[string]map[string]float64) (map[schema.MetricKey]map[schema.Dimension]float64, error) {
	grouping := schema.GetDefaultMetricDimensions()
	if len(raw) == 0 {
		return grouping, nil
	}

	valid := map[schema.Dimension]struct{}{
		schema.DimPrecision:  {},
		schema.DimResolve:    {},
		schema.DimInnovation: {},
		schema.DimHarmony:    {},
	}

	for metric, rawShares := range raw {
		shares := make(map[schema.Dimension]float64, len(rawShares))
		var total float64
		for dimName, share := range rawShares {
			dim := schema.Dimension(strings.ToLower(dimName))
			if _, ok := valid[dim]; !ok {
				return nil, fmt.Errorf("unknown dimension %q for metric %s. Must be precision, resolve, innovation, or harmony", dimName, metric)
			}
			if share < 0 {
				return nil, fmt.Errorf("dimension share for %s/%s cannot be negative", metric, dim)
			}
			shares[dim] = share
			total += share
		}
		if total <= 0 {
			return nil, fmt.Errorf("dimension shares for metric %s cannot all be zero", metric)
		}
		for dim := range shares {
			shares[dim] /= total
		}
		grouping[schema.MetricKey(metric)] = shares
	}
	return grouping, nil
}

// parseToggle interprets yes/no style toggles with a default.
func parseToggle(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "on", "1":
		return true
	case "no", "false", "off", "0":
		return false
	default:
		return def
	}
}

// GetMappingDBFilePath returns the default SQLite path for the mapping store.
func GetMappingDBFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bcat-mapping.db"
	}
	return filepath.Join(home, ".bcat-mapping.db")
}
