package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/bcat/internal/contract"
	"github.com/huangsam/bcat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textConfig() *contract.Config {
	return &contract.Config{
		Output:         schema.TextOut,
		Precision:      2,
		ResultLimit:    contract.DefaultResultLimit,
		Width:          100,
		MappingBackend: schema.NoneBackend,
	}
}

func sampleScore() *schema.BCATScore {
	return &schema.BCATScore{
		ConversationID:  "c-42",
		Pattern:         schema.PatternInfo{ID: 15, Name: "discovery", Order: 3},
		SelectionMethod: schema.ExplicitSelection,
		AggregateScore:  0.85,
		Dimensions: map[schema.Dimension]schema.DimensionScore{
			schema.DimPrecision: {
				Score:  0.9,
				Weight: 0.25,
				Metrics: map[schema.MetricKey]schema.MetricInput{
					"clarity": {Observed: 0.8, Fit: 0.9, Weight: 1.0},
				},
			},
			schema.DimHarmony: {
				Score:  0.8,
				Weight: 0.25,
				Metrics: map[schema.MetricKey]schema.MetricInput{
					"talk_balance": {Observed: 0.7, Fit: 0.8, Weight: 0.5},
				},
			},
		},
	}
}

func TestWriteScoreText(t *testing.T) {
	cfg := textConfig()
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeScoreText(sampleScore(), cfg, fmtFloat, 5*time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Pattern: discovery (#15, explicit)")
	assert.Contains(t, out, "Conversation: c-42")
	assert.Contains(t, out, "0.85")
	assert.Contains(t, out, "Strong")
	assert.Contains(t, out, "Mapping backend: none")
	assert.NotContains(t, out, "observed=", "detail rows are opt-in")
}

func TestWriteScoreTextDetail(t *testing.T) {
	cfg := textConfig()
	cfg.Detail = true
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeScoreText(sampleScore(), cfg, fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "clarity")
	assert.Contains(t, out, "observed=0.80")
	assert.Contains(t, out, "fit=0.90")
}

func TestWriteScoreTextMissingMetrics(t *testing.T) {
	cfg := textConfig()
	fmtFloat, _ := createFormatters(cfg.Precision)

	score := sampleScore()
	score.AggregateScore = 0.0
	score.MissingMetrics = true
	score.Dimensions = map[schema.Dimension]schema.DimensionScore{}

	var buf bytes.Buffer
	err := writeScoreText(score, cfg, fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "no input metrics overlap this profile")
	assert.NotContains(t, out, "Dimension", "dimension table is skipped")
}

func TestWriteScoreTextLeaderboard(t *testing.T) {
	cfg := textConfig()
	cfg.Explain = true
	fmtFloat, _ := createFormatters(cfg.Precision)

	score := sampleScore()
	score.SelectionMethod = schema.AutoBestSelection
	score.AllAlignments = []schema.AlignmentResult{
		{
			Pattern: schema.PatternInfo{ID: 15, Name: "discovery", Order: 3},
			Score:   0.85,
			Contributions: map[schema.MetricKey]float64{
				"clarity": 0.4, "energy": 0.3, "novelty": 0.1, "decision": 0.05,
			},
			Matched: 4,
		},
		{
			Pattern: schema.PatternInfo{ID: 7, Name: "negotiation", Order: 1},
			Score:   0.62,
			Matched: 2,
		},
	}

	var buf bytes.Buffer
	err := writeScoreText(score, cfg, fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "discovery")
	assert.Contains(t, out, "negotiation")
	assert.Contains(t, out, "clarity > energy > novelty", "top three contributions joined in order")
	assert.Contains(t, out, "Not applicable", "no contributions falls back")
}

func TestWriteScoreJSON(t *testing.T) {
	var buf bytes.Buffer
	type jsonScore struct {
		Label string `json:"label"`
		*schema.BCATScore
	}
	err := writeJSON(&buf, jsonScore{
		Label:     contract.GetPlainLabel(0.85),
		BCATScore: sampleScore(),
	})
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "Strong", result["label"])
	assert.Equal(t, "c-42", result["conversation_id"])
	assert.Equal(t, 0.85, result["aggregate_score"])

	pattern, ok := result["pattern"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "discovery", pattern["name"])
}

func TestFormatTopContributions(t *testing.T) {
	t.Run("sorted by magnitude then name", func(t *testing.T) {
		a := schema.AlignmentResult{
			Contributions: map[schema.MetricKey]float64{
				"clarity": 0.2, "energy": 0.5, "novelty": 0.2, "decision": 0.1,
			},
		}
		// clarity and novelty tie at 0.2; clarity wins alphabetically.
		assert.Equal(t, "energy > clarity > novelty", formatTopContributions(&a))
	})

	t.Run("fewer than three", func(t *testing.T) {
		a := schema.AlignmentResult{
			Contributions: map[schema.MetricKey]float64{"energy": 0.5},
		}
		assert.Equal(t, "energy", formatTopContributions(&a))
	})

	t.Run("zero contributions excluded", func(t *testing.T) {
		a := schema.AlignmentResult{
			Contributions: map[schema.MetricKey]float64{"energy": 0.0},
		}
		assert.Equal(t, "Not applicable", formatTopContributions(&a))
	})

	t.Run("empty", func(t *testing.T) {
		a := schema.AlignmentResult{}
		assert.Equal(t, "Not applicable", formatTopContributions(&a))
	})
}

func TestWriteScoreCSVRow(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = t.TempDir() + "/score.csv"

	require.NoError(t, WriteScore(sampleScore(), cfg, time.Millisecond))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2) // header + 1 row

	assert.Contains(t, lines[0], "conversation_id")
	assert.Contains(t, lines[0], "score_harmony")
	assert.Contains(t, lines[1], "c-42")
	assert.Contains(t, lines[1], "discovery")
	assert.Contains(t, lines[1], "explicit")
	assert.Contains(t, lines[1], "0.85")
}
