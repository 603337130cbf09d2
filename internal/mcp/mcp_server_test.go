package mcp_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/prtime/internal/contract"
	mcp_internal "github.com/huangsam/prtime/internal/mcp"
	"github.com/huangsam/prtime/schema"
)

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		Owner: "acme",
		Repo:  "widgets",
		State: schema.MergedPRs,
	}

	// Create a dummy manager, though we shouldn't hit it because we test validation errors
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	ctx := context.Background()

	t.Run("estimate_pr missing number", func(t *testing.T) {
		tool := s.GetTool("estimate_pr")
		require.NotNil(t, tool, "Tool estimate_pr should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "estimate_pr",
				Arguments: map[string]any{
					"number": 0.0, // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "positive pull request number")
	})

	t.Run("estimate_prs invalid repo", func(t *testing.T) {
		tool := s.GetTool("estimate_prs")
		require.NotNil(t, tool, "Tool estimate_prs should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "estimate_prs",
				Arguments: map[string]any{
					"repo": "not-a-slug", // Missing the owner part
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "owner/repo")
	})

	t.Run("estimate_contributors invalid state", func(t *testing.T) {
		tool := s.GetTool("estimate_contributors")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "estimate_contributors",
				Arguments: map[string]any{
					"state": "abandoned", // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid state")
	})

	t.Run("all tools registered", func(t *testing.T) {
		for _, name := range []string{"estimate_prs", "estimate_pr", "estimate_contributors", "estimate_issues"} {
			assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
		}
	})
}
