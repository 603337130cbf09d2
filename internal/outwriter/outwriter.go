// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WritePRs prints per-PR estimates and the repository rollup using the configured output format.
func (ow *OutWriter) WritePRs(estimates []schema.PREstimate, summary schema.RepoSummary, cfg *contract.Config, duration time.Duration) error {
	return WritePRResults(estimates, summary, cfg, duration)
}

// WritePR prints a single PR estimate with its session breakdown.
func (ow *OutWriter) WritePR(estimate schema.PREstimate, sessions []schema.SessionDetail, cfg *contract.Config, duration time.Duration) error {
	return WritePRDetail(estimate, sessions, cfg, duration)
}

// WriteContributors prints per-author estimates using the configured output format.
func (ow *OutWriter) WriteContributors(estimates []schema.ContributorEstimate, cfg *contract.Config, duration time.Duration) error {
	return WriteContributorResults(estimates, cfg, duration)
}

// WriteIssues prints closed-issue resolution estimates using the configured output format.
func (ow *OutWriter) WriteIssues(estimates []schema.IssueEstimate, cfg *contract.Config, duration time.Duration) error {
	return WriteIssueResults(estimates, cfg, duration)
}
