package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/prtime/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of run history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the run history store
	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run history tracking is not enabled")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total PR estimates: %d\n", status.TableSizes[prEstimatesTable])

	// Retrieve all runs
	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	// Retrieve all PR estimates
	estimates, err := store.GetAllPREstimates()
	if err != nil {
		return fmt.Errorf("failed to retrieve PR estimates: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetEstimates := parquet.ConvertPREstimateRecords(estimates)

	// Write runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	// Write PR estimates to Parquet
	estimatesFile := outputFile + ".pr_estimates.parquet"
	if err := parquet.WritePREstimatesParquet(parquetEstimates, estimatesFile); err != nil {
		return fmt.Errorf("failed to write PR estimates: %w", err)
	}
	fmt.Printf("Exported %d PR estimate records to: %s\n", len(parquetEstimates), estimatesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
