package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/bcat/internal/contract"
	mcp_internal "github.com/huangsam/bcat/internal/mcp"
	"github.com/huangsam/bcat/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTestConfig() *contract.Config {
	return &contract.Config{
		ResultLimit:      contract.DefaultResultLimit,
		Precision:        contract.DefaultPrecision,
		Output:           schema.JSONOut,
		MappingBackend:   schema.NoneBackend,
		DecayKind:        schema.LinearDecay,
		DecayScale:       contract.DefaultDecayScale,
		DimensionWeights: schema.GetDefaultDimensionWeights(),
	}
}

func writeMetricsFile(t *testing.T) string {
	t.Helper()
	vector := schema.MetricsVector{
		Meta: schema.CallMeta{ConversationID: "c-7"},
		Features: map[schema.MetricKey]float64{
			"energy":  0.8,
			"clarity": 0.7,
			"novelty": 0.9,
		},
	}
	data, err := json.Marshal(vector)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestMCPServerHandlers(t *testing.T) {
	var provider contract.MappingProvider
	s := mcp_internal.NewMCPServer(baseTestConfig(), provider)

	ctx := context.Background()

	t.Run("score_conversation scores a file", func(t *testing.T) {
		tool := s.GetTool("score_conversation")
		require.NotNil(t, tool, "Tool score_conversation should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "score_conversation",
				Arguments: map[string]any{
					"metrics_path": writeMetricsFile(t),
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		require.False(t, res.IsError)

		var score schema.BCATScore
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &score))
		assert.Equal(t, "c-7", score.ConversationID)
		assert.Equal(t, schema.AutoBestSelection, score.SelectionMethod)
		assert.NotEmpty(t, score.AllAlignments)
	})

	t.Run("score_conversation explicit pattern", func(t *testing.T) {
		tool := s.GetTool("score_conversation")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "score_conversation",
				Arguments: map[string]any{
					"metrics_path": writeMetricsFile(t),
					"pattern":      "discovery",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var score schema.BCATScore
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &score))
		assert.Equal(t, "discovery", score.Pattern.Name)
		assert.Equal(t, schema.ExplicitSelection, score.SelectionMethod)
		assert.Empty(t, score.AllAlignments, "explicit selection skips the leaderboard")
	})

	t.Run("score_conversation missing file", func(t *testing.T) {
		tool := s.GetTool("score_conversation")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "score_conversation",
				Arguments: map[string]any{
					"metrics_path": "/nonexistent/metrics.json",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "scoring failed")
	})

	t.Run("best_match respects limit", func(t *testing.T) {
		tool := s.GetTool("best_match")
		require.NotNil(t, tool, "Tool best_match should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "best_match",
				Arguments: map[string]any{
					"metrics_path": writeMetricsFile(t),
					"limit":        5.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var ranked []schema.AlignmentResult
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &ranked))
		assert.Len(t, ranked, 5)
		// Ranked descending by score
		for i := 1; i < len(ranked); i++ {
			assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
		}
	})

	t.Run("list_patterns returns the full catalog", func(t *testing.T) {
		tool := s.GetTool("list_patterns")
		require.NotNil(t, tool, "Tool list_patterns should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: "list_patterns"},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var patterns []schema.Pattern
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &patterns))
		assert.Len(t, patterns, 24)
	})
}
