package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/bcat/core"
	"github.com/huangsam/bcat/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	provider contract.MappingProvider
}

func (h *toolHandler) handleScoreConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.MetricsPath = request.GetString("metrics_path", "")
	if p := request.GetString("pattern", ""); p != "" {
		cfg.PatternRefStr = p
	}
	if t := request.GetString("team", ""); t != "" {
		cfg.TeamID = t
	}
	if s := request.GetString("scenario", ""); s != "" {
		cfg.ScenarioID = s
	}
	cfg.RawPayload = request.GetBool("raw", cfg.RawPayload)

	score, _, err := core.GetScoreResults(core.WithSuppressHeader(ctx), cfg, h.provider)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(score, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleBestMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.MetricsPath = request.GetString("metrics_path", "")
	cfg.RawPayload = request.GetBool("raw", cfg.RawPayload)
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	ranked, _, err := core.GetBestMatchResults(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	if len(ranked) > cfg.ResultLimit {
		ranked = ranked[:cfg.ResultLimit]
	}

	jsonData, _ := json.MarshalIndent(ranked, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListPatterns(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patterns := core.NewBuiltinCatalog().All()

	jsonData, _ := json.MarshalIndent(patterns, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
