// Package cmd defines the command-line interface for prtime.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(prsCmd)
	rootCmd.AddCommand(prCmd)
	rootCmd.AddCommand(contributorsCmd)
	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("state", string(schema.MergedPRs), "Pull request filter: merged or closed or open or all")
	rootCmd.PersistentFlags().String("start", "", "Start date in ISO8601, YYYY-MM-DD or time ago")
	rootCmd.PersistentFlags().String("end", "", "End date in ISO8601, YYYY-MM-DD or time ago")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("max-gap", "", "Largest commit gap counted as one session (e.g. '2h' or '90 minutes')")
	rootCmd.PersistentFlags().String("session-buffer", "", "Ramp-up time added per session (e.g. '2h' or '90 minutes')")
	rootCmd.PersistentFlags().String("test-patterns", "", "Comma-separated path patterns that mark test work")
	rootCmd.PersistentFlags().Bool("test-estimate", false, "Also estimate hours spent on test-only commits")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("token", "", "GitHub API token (prefer the GITHUB_TOKEN env variable)")
	rootCmd.PersistentFlags().String("api-url", "", "GitHub API base URL override for Enterprise instances")
	rootCmd.PersistentFlags().Int("rate-limit", contract.DefaultRateLimit, "GitHub API requests per second")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of issuesCmd to Viper
	issuesCmd.Flags().String("timezone", "", "IANA timezone for business-hours estimates (default America/Los_Angeles)")
	if err := viper.BindPFlags(issuesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding issues flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
