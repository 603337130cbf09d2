package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/internal/parquet"
	"github.com/huangsam/prtime/schema"
)

// WritePRResults outputs the per-PR estimates, dispatching based on the output format configured.
func WritePRResults(estimates []schema.PREstimate, summary schema.RepoSummary, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writePRJSONResults(estimates, summary, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writePRCSVResults(estimates, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := requireOutputFile(cfg, "parquet"); err != nil {
			return err
		}
		if err := parquet.WritePRReportParquet(parquet.ConvertPREstimates(estimates), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Printf("Exported %d PR estimates to: %s\n", len(estimates), cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePRTable(estimates, summary, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writePRJSONResults handles opening the file and calling the JSON writer.
func writePRJSONResults(estimates []schema.PREstimate, summary schema.RepoSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForPRs(w, estimates, summary)
	}, "Wrote JSON")
}

// writePRCSVResults handles opening the file and calling the CSV writer.
func writePRCSVResults(estimates []schema.PREstimate, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForPRs(csvWriter, estimates, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writePRTable generates and writes the human-readable table.
func writePRTable(estimates []schema.PREstimate, summary schema.RepoSummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "PR", "Title", "Author", "Commits", "Sessions", "Hours", "Label"}
	if cfg.TestEstimate {
		headers = append(headers, "Test Hours")
	}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, e := range estimates {
		row := []string{
			strconv.Itoa(i + 1),                    // Rank
			fmt.Sprintf("#%d", e.Number),           // PR number
			contract.TruncateTitle(e.Title, GetMaxTableTitleWidth(cfg)), // Title
			e.Author,                        // Author
			fmt.Sprintf(intFmt, e.Commits),  // Commits
			fmt.Sprintf(intFmt, e.Sessions), // Sessions
			fmtFloat(e.Hours),               // Hours
			effortLabel(e.Hours, cfg),       // Label
		}
		if cfg.TestEstimate {
			row = append(row, fmtFloat(e.TestHours))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// 5. Print the repository rollup
	if _, err := fmt.Fprintf(writer, "Showing %d PRs (total commits: %d, total sessions: %d, total hours: %s)\n",
		summary.TotalPRs, summary.TotalCommits, summary.TotalSessions, fmtFloat(summary.TotalHours)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Averages per PR: %s sessions, %s commits\n",
		fmtFloat(summary.AvgSessionsPerPR), fmtFloat(summary.AvgCommitsPerPR)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Estimation completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForPRs writes the per-PR estimates in CSV format.
func writeCSVResultsForPRs(w *csv.Writer, estimates []schema.PREstimate, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"rank",
		"pr_number",
		"title",
		"author",
		"merged_at",
		"commits",
		"sessions",
		"estimated_hours",
		"test_hours",
		"label",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, e := range estimates {
		mergedAt := ""
		if e.MergedAt != nil {
			mergedAt = e.MergedAt.Format(contract.DateTimeFormat)
		}
		rec := []string{
			strconv.Itoa(i + 1),             // Rank
			strconv.Itoa(e.Number),          // PR Number
			e.Title,                         // Title
			e.Author,                        // Author
			mergedAt,                        // Merge Date
			fmt.Sprintf(intFmt, e.Commits),  // Commits
			fmt.Sprintf(intFmt, e.Sessions), // Sessions
			fmtFloat(e.Hours),               // Estimated Hours
			fmtFloat(e.TestHours),           // Test Hours
			schema.GetEffortLabel(e.Hours),  // Label
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForPRs writes the per-PR estimates in JSON format.
func writeJSONResultsForPRs(w io.Writer, estimates []schema.PREstimate, summary schema.RepoSummary) error {
	output := struct {
		PullRequests []schema.EnrichedPREstimate `json:"pull_requests"`
		Summary      schema.RepoSummary          `json:"summary"`
	}{
		PullRequests: schema.EnrichPRs(estimates),
		Summary:      summary,
	}

	return writeJSON(w, output)
}
