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

// WriteIssueResults outputs the closed-issue estimates, dispatching based on the output format configured.
func WriteIssueResults(estimates []schema.IssueEstimate, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, estimates)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForIssues(w, estimates, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := requireOutputFile(cfg, "parquet"); err != nil {
			return err
		}
		if err := parquet.WriteIssueReportParquet(parquet.ConvertIssueEstimates(estimates), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Printf("Exported %d issue estimates to: %s\n", len(estimates), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeIssueTable(estimates, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeIssueTable generates and writes the human-readable table.
func writeIssueTable(estimates []schema.IssueEstimate, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Issue", "Title", "Author", "Closed", "Biz Hours"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	var totalHours float64
	for _, e := range estimates {
		row := []string{
			fmt.Sprintf("#%d", e.Number),
			contract.TruncateTitle(e.Title, GetMaxTableTitleWidth(cfg)),
			e.Author,
			e.ClosedAt.Format("2006-01-02"),
			fmtFloat(e.BusinessHours),
		}
		data = append(data, row)
		totalHours += e.BusinessHours
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d closed issues (total business hours: %s, timezone: %s)\n",
		len(estimates), fmtFloat(totalHours), cfg.Timezone); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Estimation completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForIssues writes the closed-issue estimates in CSV format.
func writeCSVResultsForIssues(w io.Writer, estimates []schema.IssueEstimate, fmtFloat func(float64) string) error {
	header := []string{"number", "title", "author", "created_at", "closed_at", "business_hours"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, e := range estimates {
			rec := []string{
				strconv.Itoa(e.Number),
				e.Title,
				e.Author,
				e.CreatedAt.Format(contract.DateTimeFormat),
				e.ClosedAt.Format(contract.DateTimeFormat),
				fmtFloat(e.BusinessHours),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
