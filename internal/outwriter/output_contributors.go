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

// WriteContributorResults outputs the per-author estimates, dispatching based on the output format configured.
func WriteContributorResults(estimates []schema.ContributorEstimate, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.EnrichContributors(estimates))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForContributors(w, estimates, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := requireOutputFile(cfg, "parquet"); err != nil {
			return err
		}
		if err := parquet.WriteContributorReportParquet(parquet.ConvertContributorEstimates(estimates), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Printf("Exported %d contributor estimates to: %s\n", len(estimates), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeContributorTable(estimates, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeContributorTable generates and writes the human-readable table.
func writeContributorTable(estimates []schema.ContributorEstimate, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Author", "PRs", "Commits", "Sessions", "Hours", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, e := range estimates {
		row := []string{
			strconv.Itoa(i + 1),
			e.Author,
			fmt.Sprintf(intFmt, e.PullRequests),
			fmt.Sprintf(intFmt, e.Commits),
			fmt.Sprintf(intFmt, e.Sessions),
			fmtFloat(e.Hours),
			effortLabel(e.Hours, cfg),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalHours := 0.0
	for _, e := range estimates {
		totalHours += e.Hours
	}
	if _, err := fmt.Fprintf(writer, "Showing %d contributors (total hours: %s)\n", len(estimates), fmtFloat(totalHours)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Estimation completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForContributors writes the per-author estimates in CSV format.
func writeCSVResultsForContributors(w io.Writer, estimates []schema.ContributorEstimate, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"rank", "author", "pull_requests", "commits", "sessions", "estimated_hours", "label"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i, e := range estimates {
			rec := []string{
				strconv.Itoa(i + 1),
				e.Author,
				fmt.Sprintf(intFmt, e.PullRequests),
				fmt.Sprintf(intFmt, e.Commits),
				fmt.Sprintf(intFmt, e.Sessions),
				fmtFloat(e.Hours),
				schema.GetEffortLabel(e.Hours),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
