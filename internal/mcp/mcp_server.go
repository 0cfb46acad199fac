// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/bcat/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the BCAT MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, provider contract.MappingProvider) *server.MCPServer {
	s := server.NewMCPServer(
		"BCAT Scoring Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		provider: provider,
	}

	// --- 1. Tool: score_conversation ---
	s.AddTool(mcp.NewTool("score_conversation",
		mcp.WithDescription("Score a conversation metrics document against its selected interaction pattern."),
		mcp.WithString("metrics_path", mcp.Description("Path to the metrics JSON document."), mcp.Required()),
		mcp.WithString("pattern", mcp.Description("Explicit pattern reference (id, name, or order). Overrides mapping and auto-best.")),
		mcp.WithString("team", mcp.Description("Team id override for mapping resolution.")),
		mcp.WithString("scenario", mcp.Description("Scenario id override for mapping resolution.")),
		mcp.WithBoolean("raw", mcp.Description("Treat the document as a raw provider payload needing normalization.")),
	), h.handleScoreConversation)

	// --- 2. Tool: best_match ---
	s.AddTool(mcp.NewTool("best_match",
		mcp.WithDescription("Rank all catalog patterns by alignment with a conversation metrics document."),
		mcp.WithString("metrics_path", mcp.Description("Path to the metrics JSON document."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked patterns returned.")),
		mcp.WithBoolean("raw", mcp.Description("Treat the document as a raw provider payload needing normalization.")),
	), h.handleBestMatch)

	// --- 3. Tool: list_patterns ---
	s.AddTool(mcp.NewTool("list_patterns",
		mcp.WithDescription("List the 24 canonical interaction patterns with their dimension emphasis orderings."),
	), h.handleListPatterns)

	return s
}

// StartMCPServer starts the BCAT MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, provider contract.MappingProvider) error {
	s := NewMCPServer(baseCfg, provider)
	return server.ServeStdio(s)
}
