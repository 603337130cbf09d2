package schema

import "time"

// PREstimate holds the session-based effort estimate for one pull request.
type PREstimate struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	MergedAt  *time.Time `json:"merged_at,omitempty"`
	Commits   int        `json:"commits"`
	Sessions  int        `json:"sessions"`
	Hours     float64    `json:"estimated_hours"`
	TestHours float64    `json:"test_hours"` // zero unless the test estimate was requested
}

// SessionDetail describes one work session inside a pull request,
// used by the single-PR view.
type SessionDetail struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Commits int       `json:"commits"`
	Hours   float64   `json:"hours"` // buffer plus intra-session gaps
}

// RepoSummary aggregates estimates across all analyzed pull requests.
// It mirrors the per-repository rollup the reporting layer prints.
type RepoSummary struct {
	TotalPRs         int     `json:"total_prs"`
	TotalCommits     int     `json:"total_commits"`
	TotalSessions    int     `json:"total_sessions"`
	TotalHours       float64 `json:"total_estimated_hours"`
	AvgSessionsPerPR float64 `json:"average_sessions_per_pr"`
	AvgCommitsPerPR  float64 `json:"average_commits_per_pr"`
}

// ContributorEstimate holds the session-based estimate for one author's
// commit stream across all analyzed pull requests.
type ContributorEstimate struct {
	Author       string  `json:"author"`
	PullRequests int     `json:"pull_requests"`
	Commits      int     `json:"commits"`
	Sessions     int     `json:"sessions"`
	Hours        float64 `json:"estimated_hours"`
}

// IssueEstimate holds the business-hours resolution estimate for a closed issue.
type IssueEstimate struct {
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	ClosedAt      time.Time `json:"closed_at"`
	BusinessHours float64   `json:"business_hours"`
}

// BuildRepoSummary computes the repository rollup from a list of PR estimates.
func BuildRepoSummary(estimates []PREstimate) RepoSummary {
	summary := RepoSummary{TotalPRs: len(estimates)}
	for _, e := range estimates {
		summary.TotalCommits += e.Commits
		summary.TotalSessions += e.Sessions
		summary.TotalHours += e.Hours
	}
	if summary.TotalPRs > 0 {
		summary.AvgSessionsPerPR = float64(summary.TotalSessions) / float64(summary.TotalPRs)
		summary.AvgCommitsPerPR = float64(summary.TotalCommits) / float64(summary.TotalPRs)
	}
	return summary
}
