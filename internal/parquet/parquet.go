// Package parquet provides data structures and functions for exporting run
// history data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/prtime/schema"
)

// Run represents a single estimation run with metadata.
// This struct maps to the prtime_runs database table.
type Run struct {
	// RunID is the unique identifier for this estimation run
	RunID int64 `parquet:"run_id,snappy"`

	// Repo is the "owner/repo" slug the run estimated
	Repo string `parquet:"repo,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalPRs is the number of pull requests estimated in this run
	TotalPRs int32 `parquet:"total_prs,snappy"`

	// TotalHours is the summed effort estimate across all PRs
	TotalHours float64 `parquet:"total_hours,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// PREstimate represents the estimate for a single pull request in a run.
// This struct maps to the prtime_pr_estimates database table.
type PREstimate struct {
	// RunID references the parent estimation run
	RunID int64 `parquet:"run_id,snappy"`

	// PRNumber is the pull request number
	PRNumber int32 `parquet:"pr_number,snappy"`

	// Title is the pull request title
	Title string `parquet:"title,snappy"`

	// Author is the pull request author login
	Author string `parquet:"author,snappy"`

	// Commits is the number of commits considered
	Commits int32 `parquet:"commits,snappy"`

	// Sessions is the number of distinct work sessions detected
	Sessions int32 `parquet:"sessions,snappy"`

	// Hours is the estimated effort in hours
	Hours float64 `parquet:"hours,snappy"`

	// TestHours is the estimated effort spent on test-related commits
	TestHours float64 `parquet:"test_hours,snappy"`
}

// writeParquetFile writes any row type to a Parquet file. The file schema is
// automatically derived from the row struct tags.
func writeParquetFile[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// WritePREstimatesParquet writes a slice of PREstimate structs to a Parquet file.
func WritePREstimatesParquet(data []PREstimate, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// ConvertRunRecords converts database run records to their Parquet form.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	output := make([]Run, len(records))
	for i, r := range records {
		output[i] = Run{
			RunID:         r.RunID,
			Repo:          r.Repo,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.DurationMs,
			TotalPRs:      r.TotalPRs,
			TotalHours:    r.TotalHours,
			ConfigParams:  r.ConfigParams,
		}
	}
	return output
}

// ConvertPREstimateRecords converts database PR estimate records to their Parquet form.
func ConvertPREstimateRecords(records []schema.PREstimateRecord) []PREstimate {
	output := make([]PREstimate, len(records))
	for i, r := range records {
		output[i] = PREstimate{
			RunID:     r.RunID,
			PRNumber:  r.PRNumber,
			Title:     r.Title,
			Author:    r.Author,
			Commits:   r.Commits,
			Sessions:  r.Sessions,
			Hours:     r.Hours,
			TestHours: r.TestHours,
		}
	}
	return output
}
