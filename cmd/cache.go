package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/internal/iocache"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend, err := contract.ResolveBackend(viper.GetString("cache-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no run history for cache commands)
	if err := iocache.InitCaching(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by estimation commands. This avoids repo argument
// validation and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the GitHub commit cache (reduces API usage)",
	Long: `Manage the commit cache that speeds up repeated estimations.

Prtime caches PR commit lists and commit file lists to avoid re-fetching
them from the GitHub API on every run. Merged and closed PRs are cached for
a long time since their commits never change; open PRs expire quickly.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  prtime cache status

  # Clear cache when results look stale
  prtime cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached GitHub commit data",
	Long: `Delete all cached commit data from the configured backend.

Use this when:
- A PR branch was rewritten (rebase, force push)
- Cache may be stale or corrupted
- Testing API behavior without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  prtime cache clear

  # Clear MySQL cache (set connection string via env variable)
  PRTIME_CACHE_BACKEND=mysql PRTIME_CACHE_DB_CONNECT="..." prtime cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the commit cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps

Use this to:
- Verify cache is working and connected
- Monitor cache growth over time
- Debug cache-related issues

Examples:
  # Check cache status
  prtime cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetCommitStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
