package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/prtime/core"
	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// applyCommonOverrides layers the per-request repo, state and limit parameters
// on top of the cloned base config.
func applyCommonOverrides(cfg *contract.Config, request mcp.CallToolRequest) error {
	if slug := request.GetString("repo", ""); slug != "" {
		owner, repo, err := contract.ParseRepoSlug(slug)
		if err != nil {
			return err
		}
		cfg.Owner = owner
		cfg.Repo = repo
	}
	if s := request.GetString("state", ""); s != "" {
		state := schema.PRFilter(strings.ToLower(s))
		if _, ok := schema.ValidPRFilters[state]; !ok {
			return fmt.Errorf("invalid state '%s'. must be merged, closed, open, all", s)
		}
		cfg.State = state
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	return nil
}

func (h *toolHandler) handleEstimatePRs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	source, err := core.NewCommitSource(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("client setup failed: %v", err)), nil
	}

	estimates, summary, err := core.GetPREstimateResults(core.WithSuppressHeader(ctx), cfg, source, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("estimation failed: %v", err)), nil
	}

	payload := struct {
		PullRequests []schema.EnrichedPREstimate `json:"pull_requests"`
		Summary      schema.RepoSummary          `json:"summary"`
	}{
		PullRequests: schema.EnrichPRs(estimates),
		Summary:      summary,
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleEstimatePR(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	number := request.GetInt("number", 0)
	if number <= 0 {
		return mcp.NewToolResultError("number must be a positive pull request number"), nil
	}

	source, err := core.NewCommitSource(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("client setup failed: %v", err)), nil
	}

	estimate, sessions, err := core.GetPRDetailResults(core.WithSuppressHeader(ctx), cfg, source, h.mgr, number)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("estimation failed: %v", err)), nil
	}

	payload := struct {
		schema.PREstimate
		Label          string                 `json:"label"`
		SessionDetails []schema.SessionDetail `json:"session_details"`
	}{
		PREstimate:     estimate,
		Label:          schema.GetEffortLabel(estimate.Hours),
		SessionDetails: sessions,
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleEstimateContributors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	source, err := core.NewCommitSource(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("client setup failed: %v", err)), nil
	}

	estimates, err := core.GetContributorResults(core.WithSuppressHeader(ctx), cfg, source, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("estimation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(schema.EnrichContributors(estimates), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleEstimateIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if tz := request.GetString("timezone", ""); tz != "" {
		cfg.Timezone = tz
	}

	source, err := core.NewCommitSource(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("client setup failed: %v", err)), nil
	}

	estimates, err := core.GetIssueResults(core.WithSuppressHeader(ctx), cfg, source)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("estimation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(estimates, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
