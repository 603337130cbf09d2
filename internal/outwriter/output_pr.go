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
	"github.com/huangsam/prtime/schema"
)

// WritePRDetail outputs a single PR estimate with its session breakdown,
// dispatching based on the output format configured.
func WritePRDetail(estimate schema.PREstimate, sessions []schema.SessionDetail, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForPRDetail(w, estimate, sessions)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForSessions(w, estimate, sessions, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table. Parquet makes no sense for a
		// single PR, so it falls through to the table as well.
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePRDetailTable(estimate, sessions, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writePRDetailTable prints the PR header lines followed by a session table.
func writePRDetailTable(estimate schema.PREstimate, sessions []schema.SessionDetail, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "PR #%d: %s\n", estimate.Number, estimate.Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Author: %s\n", estimate.Author); err != nil {
		return err
	}
	if estimate.MergedAt != nil {
		if _, err := fmt.Fprintf(writer, "Merged: %s\n", estimate.MergedAt.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Session", "Start", "End", "Commits", "Hours"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, s := range sessions {
		row := []string{
			strconv.Itoa(i + 1),
			s.Start.Format(contract.DateTimeFormat),
			s.End.Format(contract.DateTimeFormat),
			strconv.Itoa(s.Commits),
			fmtFloat(s.Hours),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Estimate: %s hours across %d sessions (%d commits, %s)\n",
		fmtFloat(estimate.Hours), estimate.Sessions, estimate.Commits, effortLabel(estimate.Hours, cfg)); err != nil {
		return err
	}
	if cfg.TestEstimate {
		if _, err := fmt.Fprintf(writer, "Test effort: %s hours\n", fmtFloat(estimate.TestHours)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Estimation completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForSessions writes the session breakdown in CSV format.
func writeCSVResultsForSessions(w io.Writer, estimate schema.PREstimate, sessions []schema.SessionDetail, fmtFloat func(float64) string) error {
	header := []string{"session", "pr_number", "start", "end", "commits", "hours"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i, s := range sessions {
			rec := []string{
				strconv.Itoa(i + 1),
				strconv.Itoa(estimate.Number),
				s.Start.Format(contract.DateTimeFormat),
				s.End.Format(contract.DateTimeFormat),
				strconv.Itoa(s.Commits),
				fmtFloat(s.Hours),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForPRDetail writes the PR estimate and sessions in JSON format.
func writeJSONResultsForPRDetail(w io.Writer, estimate schema.PREstimate, sessions []schema.SessionDetail) error {
	output := struct {
		schema.PREstimate
		Label    string                 `json:"label"`
		Sessions []schema.SessionDetail `json:"session_details"`
	}{
		PREstimate: estimate,
		Label:      schema.GetEffortLabel(estimate.Hours),
		Sessions:   sessions,
	}

	return writeJSON(w, output)
}
