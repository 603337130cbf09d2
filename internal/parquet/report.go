package parquet

import (
	"time"

	"github.com/huangsam/prtime/schema"
)

// ReportPR is the Parquet row for a single pull request estimate
// produced directly by the reporting commands.
type ReportPR struct {
	Rank     int32      `parquet:"rank,snappy"`
	PRNumber int32      `parquet:"pr_number,snappy"`
	Title    string     `parquet:"title,snappy"`
	Author   string     `parquet:"author,snappy"`
	MergedAt *time.Time `parquet:"merged_at,optional,snappy"`

	Commits   int32   `parquet:"commits,snappy"`
	Sessions  int32   `parquet:"sessions,snappy"`
	Hours     float64 `parquet:"estimated_hours,snappy"`
	TestHours float64 `parquet:"test_hours,snappy"`
	Label     string  `parquet:"label,snappy"`
}

// ReportContributor is the Parquet row for a per-author estimate rollup.
type ReportContributor struct {
	Rank   int32  `parquet:"rank,snappy"`
	Author string `parquet:"author,snappy"`

	PullRequests int32   `parquet:"pull_requests,snappy"`
	Commits      int32   `parquet:"commits,snappy"`
	Sessions     int32   `parquet:"sessions,snappy"`
	Hours        float64 `parquet:"estimated_hours,snappy"`
	Label        string  `parquet:"label,snappy"`
}

// ReportIssue is the Parquet row for a closed-issue resolution estimate.
type ReportIssue struct {
	Number    int32     `parquet:"number,snappy"`
	Title     string    `parquet:"title,snappy"`
	Author    string    `parquet:"author,snappy"`
	CreatedAt time.Time `parquet:"created_at,snappy"`
	ClosedAt  time.Time `parquet:"closed_at,snappy"`

	BusinessHours float64 `parquet:"business_hours,snappy"`
}

// WritePRReportParquet writes PR estimate report rows to a Parquet file.
func WritePRReportParquet(data []ReportPR, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// WriteContributorReportParquet writes contributor report rows to a Parquet file.
func WriteContributorReportParquet(data []ReportContributor, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// WriteIssueReportParquet writes issue report rows to a Parquet file.
func WriteIssueReportParquet(data []ReportIssue, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// ConvertPREstimates converts PR estimates into their Parquet report form.
func ConvertPREstimates(estimates []schema.PREstimate) []ReportPR {
	output := make([]ReportPR, len(estimates))
	for i, e := range estimates {
		output[i] = ReportPR{
			Rank:      int32(i + 1),
			PRNumber:  int32(e.Number),
			Title:     e.Title,
			Author:    e.Author,
			MergedAt:  e.MergedAt,
			Commits:   int32(e.Commits),
			Sessions:  int32(e.Sessions),
			Hours:     e.Hours,
			TestHours: e.TestHours,
			Label:     schema.GetEffortLabel(e.Hours),
		}
	}
	return output
}

// ConvertContributorEstimates converts contributor estimates into their Parquet report form.
func ConvertContributorEstimates(estimates []schema.ContributorEstimate) []ReportContributor {
	output := make([]ReportContributor, len(estimates))
	for i, e := range estimates {
		output[i] = ReportContributor{
			Rank:         int32(i + 1),
			Author:       e.Author,
			PullRequests: int32(e.PullRequests),
			Commits:      int32(e.Commits),
			Sessions:     int32(e.Sessions),
			Hours:        e.Hours,
			Label:        schema.GetEffortLabel(e.Hours),
		}
	}
	return output
}

// ConvertIssueEstimates converts issue estimates into their Parquet report form.
func ConvertIssueEstimates(estimates []schema.IssueEstimate) []ReportIssue {
	output := make([]ReportIssue, len(estimates))
	for i, e := range estimates {
		output[i] = ReportIssue{
			Number:        int32(e.Number),
			Title:         e.Title,
			Author:        e.Author,
			CreatedAt:     e.CreatedAt,
			ClosedAt:      e.ClosedAt,
			BusinessHours: e.BusinessHours,
		}
	}
	return output
}
