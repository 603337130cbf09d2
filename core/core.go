// Package core has core logic for fetching, estimating and ranking.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/internal/ghclient"
	"github.com/huangsam/prtime/internal/outwriter"
	"github.com/huangsam/prtime/schema"
)

// ExecutorFunc defines the function signature for executing different estimation modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// NewCommitSource builds the GitHub-backed commit source from the validated
// configuration.
func NewCommitSource(cfg *contract.Config) (contract.CommitSource, error) {
	return ghclient.NewClient(cfg.Token, cfg.RateLimit, cfg.APIBaseURL)
}

// ExecutePRs runs the per-PR estimation and prints results to stdout.
// It serves as the main entry point for the 'prs' mode.
func ExecutePRs(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	source, err := NewCommitSource(cfg)
	if err != nil {
		return err
	}
	logEstimateHeader(ctx, cfg, "pull requests")

	runID := beginRun(mgr, cfg, start)

	estimates, summary, err := GetPREstimateResults(ctx, cfg, source, mgr)
	if err != nil {
		return err
	}

	endRun(mgr, runID, estimates, summary)

	duration := time.Since(start)
	return outwriter.WritePRResults(estimates, summary, cfg, duration)
}

// ExecutePR estimates a single pull request and prints its session breakdown.
func ExecutePR(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, number int) error {
	start := time.Now()
	source, err := NewCommitSource(cfg)
	if err != nil {
		return err
	}
	logEstimateHeader(ctx, cfg, fmt.Sprintf("pull request #%d", number))

	estimate, sessions, err := GetPRDetailResults(ctx, cfg, source, mgr, number)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.WritePRDetail(estimate, sessions, cfg, duration)
}

// ExecuteContributors runs the per-author estimation and prints results to stdout.
func ExecuteContributors(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	source, err := NewCommitSource(cfg)
	if err != nil {
		return err
	}
	logEstimateHeader(ctx, cfg, "contributors")

	estimates, err := GetContributorResults(ctx, cfg, source, mgr)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.WriteContributorResults(estimates, cfg, duration)
}

// ExecuteIssues runs the closed-issue estimation and prints results to stdout.
func ExecuteIssues(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	source, err := NewCommitSource(cfg)
	if err != nil {
		return err
	}
	logEstimateHeader(ctx, cfg, "closed issues")

	estimates, err := GetIssueResults(ctx, cfg, source)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.WriteIssueResults(estimates, cfg, duration)
}

// logEstimateHeader prints a one-line run description to stderr, unless the
// context suppresses it.
func logEstimateHeader(ctx context.Context, cfg *contract.Config, what string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	fmt.Fprintf(os.Stderr, "Estimating %s for %s (%s state, %s to %s)\n",
		what, cfg.RepoSlug(), cfg.State,
		cfg.StartTime.Format("2006-01-02"), cfg.EndTime.Format("2006-01-02"))
}

// beginRun opens a run history record. Returns 0 when history tracking is
// disabled; history failures degrade to warnings rather than failing the run.
func beginRun(mgr contract.CacheManager, cfg *contract.Config, start time.Time) int64 {
	if mgr == nil {
		return 0
	}
	runStore := mgr.GetRunStore()
	if runStore == nil {
		return 0
	}

	params := map[string]any{
		"state":         string(cfg.State),
		"start":         cfg.StartTime.Format(contract.DateTimeFormat),
		"end":           cfg.EndTime.Format(contract.DateTimeFormat),
		"limit":         cfg.ResultLimit,
		"max_gap_mins":  cfg.MaxGap.Minutes(),
		"buffer_mins":   cfg.Buffer.Minutes(),
		"test_estimate": cfg.TestEstimate,
	}
	runID, err := runStore.BeginRun(cfg.RepoSlug(), start, params)
	if err != nil {
		contract.LogWarn("starting run history record", err)
		return 0
	}
	return runID
}

// endRun records the per-PR rows and closes out the run history record.
func endRun(mgr contract.CacheManager, runID int64, estimates []schema.PREstimate, summary schema.RepoSummary) {
	if mgr == nil || runID == 0 {
		return
	}
	runStore := mgr.GetRunStore()
	if runStore == nil {
		return
	}

	for _, e := range estimates {
		if err := runStore.RecordPREstimate(runID, e); err != nil {
			contract.LogWarn("recording PR estimate", err)
			break
		}
	}
	if err := runStore.EndRun(runID, time.Now(), summary.TotalPRs, summary.TotalHours); err != nil {
		contract.LogWarn("closing run history record", err)
	}
}
