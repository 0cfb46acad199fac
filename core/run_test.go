package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/bcat/internal/contract"
	"github.com/huangsam/bcat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func baseTestConfig(metricsPath string) *contract.Config {
	return &contract.Config{
		MetricsPath:      metricsPath,
		ResultLimit:      contract.DefaultResultLimit,
		Precision:        contract.DefaultPrecision,
		Output:           schema.TextOut,
		DecayKind:        schema.LinearDecay,
		DecayScale:       contract.DefaultDecayScale,
		DimensionWeights: schema.GetDefaultDimensionWeights(),
	}
}

func TestLoadMetricsVector(t *testing.T) {
	path := writeTempJSON(t, `{
		"meta": {"team_id": "sales-east", "conversation_id": "c-1"},
		"features": {"energy": 0.8, "talk_balance": 0.5}
	}`)

	cfg := baseTestConfig(path)
	v, err := LoadMetricsVector(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sales-east", v.Meta.TeamID)
	assert.Equal(t, 0.8, v.Features[schema.MetricEnergy])
	assert.Len(t, v.Features, 2)
}

func TestLoadMetricsVectorOverrides(t *testing.T) {
	path := writeTempJSON(t, `{
		"meta": {"team_id": "original-team"},
		"features": {"energy": 0.8}
	}`)

	cfg := baseTestConfig(path)
	cfg.TeamID = "override-team"
	cfg.ScenarioID = "override-scenario"

	v, err := LoadMetricsVector(cfg)
	require.NoError(t, err)
	assert.Equal(t, "override-team", v.Meta.TeamID, "flag override beats document metadata")
	assert.Equal(t, "override-scenario", v.Meta.ScenarioID)
}

func TestLoadMetricsVectorRawPayload(t *testing.T) {
	path := writeTempJSON(t, `{
		"meta": {"conversation_id": "c-2"},
		"interaction": {"talk_listen": 0.5},
		"highlevel": {"action_items": 0.7}
	}`)

	cfg := baseTestConfig(path)
	cfg.RawPayload = true

	v, err := LoadMetricsVector(cfg)
	require.NoError(t, err)
	assert.Equal(t, "c-2", v.Meta.ConversationID)
	assert.InDelta(t, 1.0, v.Features[schema.MetricTalkBalance], 1e-9)
	assert.InDelta(t, 0.7, v.Features[schema.MetricDecision], 1e-9)
}

func TestLoadMetricsVectorErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := baseTestConfig(filepath.Join(t.TempDir(), "absent.json"))
		_, err := LoadMetricsVector(cfg)
		assert.Error(t, err)
	})

	t.Run("bad json", func(t *testing.T) {
		cfg := baseTestConfig(writeTempJSON(t, `{not json`))
		_, err := LoadMetricsVector(cfg)
		assert.Error(t, err)
	})
}

func TestGetScoreResultsEndToEnd(t *testing.T) {
	path := writeTempJSON(t, `{
		"meta": {"conversation_id": "c-3"},
		"features": {
			"objectivity": 0.9,
			"clarity_conciseness": 0.8,
			"decision_orientation": 0.9,
			"talk_balance": 0.5
		}
	}`)

	cfg := baseTestConfig(path)
	ctx := WithSuppressHeader(context.Background())

	score, duration, err := GetScoreResults(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, schema.AutoBestSelection, score.SelectionMethod)
	assert.Equal(t, "c-3", score.ConversationID)
	assert.False(t, score.MissingMetrics)
	assert.Greater(t, score.AggregateScore, 0.0)
	assert.GreaterOrEqual(t, duration.Nanoseconds(), int64(0))
}

func TestGetScoreResultsExplicit(t *testing.T) {
	path := writeTempJSON(t, `{"features": {"energy": 0.7}}`)

	cfg := baseTestConfig(path)
	cfg.PatternRefStr = "discovery"

	score, _, err := GetScoreResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, schema.ExplicitSelection, score.SelectionMethod)
	assert.Equal(t, 15, score.Pattern.ID)
}

func TestGetBestMatchResults(t *testing.T) {
	path := writeTempJSON(t, `{"features": {"novelty_ideation": 0.95}}`)

	cfg := baseTestConfig(path)
	ranked, _, err := GetBestMatchResults(WithSuppressHeader(context.Background()), cfg)
	require.NoError(t, err)
	require.Len(t, ranked, 24)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestBuildEngineWeights(t *testing.T) {
	cfg := baseTestConfig("-")
	cfg.DimensionWeights = map[schema.Dimension]float64{
		schema.DimPrecision:  1.0,
		schema.DimResolve:    0.0,
		schema.DimInnovation: 0.0,
		schema.DimHarmony:    0.0,
	}

	engine := BuildEngine(cfg, nil)
	require.NotNil(t, engine)
	assert.Equal(t, 24, engine.Catalog().Len())
	assert.Equal(t, 1.0, engine.weights.DimensionWeights[schema.DimPrecision])
}
