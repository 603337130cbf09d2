// Package contract provides interfaces and shared utilities for the prtime CLI's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/prtime/schema"
)

// CommitSource defines the GitHub operations needed for estimation.
// This allows the core estimation logic to be tested without network access.
type CommitSource interface {
	// ListPullRequests returns pull requests for the repository matching the
	// given state filter, most recently updated first, up to limit. PRs last
	// updated before since do not count toward limit; a zero since means no
	// lower bound.
	ListPullRequests(ctx context.Context, owner, repo string, filter schema.PRFilter, since time.Time, limit int) ([]schema.PullRequest, error)

	// GetPullRequest returns a single pull request by number.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (schema.PullRequest, error)

	// ListPullRequestCommits returns every commit on a pull request with its
	// author timestamp. File lists are not populated.
	ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]schema.Commit, error)

	// ListCommitFiles returns the paths touched by a single commit.
	ListCommitFiles(ctx context.Context, owner, repo string, sha string) ([]string, error)

	// ListClosedIssues returns issues closed within the given window.
	ListClosedIssues(ctx context.Context, owner, repo string, start, end time.Time) ([]schema.Issue, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetCommitStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking estimation runs and their
// per-PR results.
type RunStore interface {
	// BeginRun creates a new estimation run and returns its unique ID
	BeginRun(repo string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalPRs int, totalHours float64) error

	// RecordPREstimate stores the estimate for a single pull request
	RecordPREstimate(runID int64, estimate schema.PREstimate) error

	// ListRuns returns the most recent runs, newest first
	ListRuns(limit int) ([]schema.RunRecord, error)

	// ListPREstimates returns the per-PR rows for a run
	ListPREstimates(runID int64) ([]schema.PREstimateRecord, error)

	// GetAllRuns retrieves every run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllPREstimates retrieves every per-PR row across all runs
	GetAllPREstimates() ([]schema.PREstimateRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
