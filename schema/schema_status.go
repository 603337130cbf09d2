package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the estimation history store.
type HistoryStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalRuns         int              `json:"total_runs"`
	LastRunID         int64            `json:"last_run_id"`
	LastRunTime       time.Time        `json:"last_run_time"`
	OldestRunTime     time.Time        `json:"oldest_run_time"`
	TotalPRsEstimated int              `json:"total_prs_estimated"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the prtime_runs table.
type RunRecord struct {
	RunID        int64
	Repo         string
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int32
	TotalPRs     int32
	TotalHours   float64
	ConfigParams *string
}

// PREstimateRecord represents a row from the prtime_pr_estimates table.
type PREstimateRecord struct {
	RunID     int64
	PRNumber  int32
	Title     string
	Author    string
	Commits   int32
	Sessions  int32
	Hours     float64
	TestHours float64
}
