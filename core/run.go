package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/bcat/internal/contract"
	"github.com/huangsam/bcat/internal/outwriter"
	"github.com/huangsam/bcat/schema"
)

// LoadMetricsVector reads the metrics document the config points at.
// A "-" path (or empty) reads stdin. With RawPayload set the document is
// treated as a raw provider payload and run through normalization first.
// Team/scenario flag overrides land in the vector's meta container, which
// has resolver precedence.
func LoadMetricsVector(cfg *contract.Config) (*schema.MetricsVector, error) {
	var data []byte
	var err error

	if cfg.MetricsPath == "" || cfg.MetricsPath == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read metrics from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(cfg.MetricsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read metrics file: %w", err)
		}
	}

	var vector *schema.MetricsVector
	if cfg.RawPayload {
		var payload schema.ProviderPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse provider payload: %w", err)
		}
		vector = schema.VectorFromPayload(&payload)
	} else {
		vector = &schema.MetricsVector{}
		if err := json.Unmarshal(data, vector); err != nil {
			return nil, fmt.Errorf("failed to parse metrics vector: %w", err)
		}
		if vector.Features == nil {
			vector.Features = map[schema.MetricKey]float64{}
		}
	}

	if cfg.TeamID != "" {
		vector.Meta.TeamID = cfg.TeamID
	}
	if cfg.ScenarioID != "" {
		vector.Meta.ScenarioID = cfg.ScenarioID
	}
	return vector, nil
}

// BuildEngine assembles an engine from validated config and an optional
// mapping provider.
func BuildEngine(cfg *contract.Config, provider contract.MappingProvider) *Engine {
	weights := DefaultScoreWeights()
	if cfg.DimensionWeights != nil {
		weights.DimensionWeights = cfg.DimensionWeights
	}
	if cfg.MetricDimensions != nil {
		weights.MetricDimensions = cfg.MetricDimensions
	}

	var snapshot SnapshotFunc
	if provider != nil {
		snapshot = provider.Current
	}

	return NewEngine(
		NewBuiltinCatalog(),
		snapshot,
		weights,
		DecayOptions{Kind: cfg.DecayKind, Scale: cfg.DecayScale},
	)
}

// GetScoreResults loads the input, runs the selection policy, and returns
// the structured score. Shared by the CLI commands and the MCP handlers.
func GetScoreResults(ctx context.Context, cfg *contract.Config, provider contract.MappingProvider) (*schema.BCATScore, time.Duration, error) {
	start := time.Now()

	if !shouldSuppressHeader(ctx) {
		contract.LogScoreHeader(cfg)
	}

	vector, err := LoadMetricsVector(cfg)
	if err != nil {
		return nil, 0, err
	}

	engine := BuildEngine(cfg, provider)

	req := Request{Metrics: vector}
	if cfg.PatternRefStr != "" {
		ref := ParseRef(cfg.PatternRefStr)
		req.Ref = &ref
	}

	score, err := engine.Evaluate(req)
	if err != nil {
		return nil, 0, err
	}
	return score, time.Since(start), nil
}

// GetBestMatchResults loads the input and ranks every catalog pattern by
// alignment, ignoring any explicit reference or mapping rule.
func GetBestMatchResults(ctx context.Context, cfg *contract.Config) ([]schema.AlignmentResult, time.Duration, error) {
	start := time.Now()

	if !shouldSuppressHeader(ctx) {
		contract.LogScoreHeader(cfg)
	}

	vector, err := LoadMetricsVector(cfg)
	if err != nil {
		return nil, 0, err
	}

	_, all := SelectBest(vector, NewBuiltinCatalog(), DecayOptions{Kind: cfg.DecayKind, Scale: cfg.DecayScale})
	return all, time.Since(start), nil
}

// ExecuteScore runs a scoring request end to end and writes the result in
// the configured output format.
func ExecuteScore(ctx context.Context, cfg *contract.Config, provider contract.MappingProvider) error {
	score, duration, err := GetScoreResults(ctx, cfg, provider)
	if err != nil {
		return err
	}
	return outwriter.WriteScore(score, cfg, duration)
}

// ExecuteBestMatch ranks every catalog pattern against the input and writes
// the leaderboard in the configured output format.
func ExecuteBestMatch(ctx context.Context, cfg *contract.Config) error {
	ranked, duration, err := GetBestMatchResults(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteBestMatches(ranked, cfg, duration)
}

// ExecutePatterns writes the full catalog listing.
func ExecutePatterns(cfg *contract.Config) error {
	catalog := NewBuiltinCatalog()
	return outwriter.WritePatterns(catalog.All(), cfg)
}

// ExecuteMapping refreshes the mapping snapshot and writes its status plus
// the active rules. A refresh failure degrades to showing the previous
// snapshot with a warning.
func ExecuteMapping(ctx context.Context, cfg *contract.Config, provider contract.MappingProvider) error {
	if provider == nil {
		return fmt.Errorf("no mapping backend configured (set mapping-backend)")
	}
	if err := provider.Refresh(ctx); err != nil {
		contract.LogWarning(fmt.Sprintf("mapping refresh failed, showing last snapshot: %v", err))
	}

	status, err := provider.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get mapping status: %w", err)
	}
	return outwriter.WriteMapping(provider.Current(), status, cfg)
}
