// Package schema has configs, models and shared types for all parts of prtime.
package schema

import "time"

// Commit represents a single commit fetched from a pull request.
// It carries the author timestamp used for session grouping and, when
// requested, the list of file paths the commit touched.
type Commit struct {
	SHA       string    // Full commit hash
	Author    string    // Commit author name
	Timestamp time.Time // Author timestamp (timezone-aware)
	Message   string    // First line is enough for reporting
	Files     []string  // Changed file paths; empty unless file data was fetched
}

// PullRequest represents the metadata of a pull request needed for estimation.
type PullRequest struct {
	Number    int
	Title     string
	Author    string
	State     string // open, closed
	CreatedAt time.Time
	UpdatedAt time.Time
	MergedAt  *time.Time // nil when not merged
	ClosedAt  *time.Time // nil when still open
}

// Merged reports whether the pull request was merged.
func (pr *PullRequest) Merged() bool {
	return pr.MergedAt != nil
}

// ActivityTime is the timestamp a pull request is anchored on when matching
// it against a time window. Merged PRs anchor on the merge time, others on
// their last update.
func (pr *PullRequest) ActivityTime() time.Time {
	if pr.MergedAt != nil {
		return *pr.MergedAt
	}
	return pr.UpdatedAt
}

// Issue represents a closed issue returned by the search API.
type Issue struct {
	Number    int
	Title     string
	Author    string
	CreatedAt time.Time
	ClosedAt  time.Time
}
