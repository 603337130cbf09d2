// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/prtime/internal/contract"
)

// NewMCPServer initializes and configures the prtime MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"PR Time Estimation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: estimate_prs ---
	s.AddTool(mcp.NewTool("estimate_prs",
		mcp.WithDescription("Estimate time spent on pull requests in a GitHub repository using commit-session analysis."),
		mcp.WithString("repo", mcp.Description("Target repository in 'owner/repo' form. Defaults to the configured repository.")),
		mcp.WithString("state", mcp.Description("PR filter (merged, closed, open, all). Defaults to 'merged'."), mcp.Enum("merged", "closed", "open", "all")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleEstimatePRs)

	// --- 2. Tool: estimate_pr ---
	s.AddTool(mcp.NewTool("estimate_pr",
		mcp.WithDescription("Estimate time spent on a single pull request, with its session-by-session breakdown."),
		mcp.WithNumber("number", mcp.Description("The pull request number."), mcp.Required()),
		mcp.WithString("repo", mcp.Description("Target repository in 'owner/repo' form.")),
	), h.handleEstimatePR)

	// --- 3. Tool: estimate_contributors ---
	s.AddTool(mcp.NewTool("estimate_contributors",
		mcp.WithDescription("Estimate time spent per contributor across pull requests in a GitHub repository."),
		mcp.WithString("repo", mcp.Description("Target repository in 'owner/repo' form.")),
		mcp.WithString("state", mcp.Description("PR filter (merged, closed, open, all)."), mcp.Enum("merged", "closed", "open", "all")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleEstimateContributors)

	// --- 4. Tool: estimate_issues ---
	s.AddTool(mcp.NewTool("estimate_issues",
		mcp.WithDescription("Estimate business-hours resolution time for issues closed within a date window."),
		mcp.WithString("repo", mcp.Description("Target repository in 'owner/repo' form.")),
		mcp.WithString("timezone", mcp.Description("IANA timezone for the business-hours calendar (e.g. 'America/Los_Angeles').")),
	), h.handleEstimateIssues)

	return s
}

// StartMCPServer starts the prtime MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
