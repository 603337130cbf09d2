package contract

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/prtime/core/session"
	"github.com/huangsam/prtime/schema"
)

// Default values for configuration.
const (
	DefaultLookbackDays = 90
	DefaultResultLimit  = 50
	MaxResultLimit      = 1000
	DefaultPrecision    = 1
	DefaultRateLimit    = 10 // GitHub API requests per second
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// TokenEnvVar is the environment variable consulted for the GitHub token
// when no --token flag is given.
const TokenEnvVar = "GITHUB_TOKEN"

// Config holds the runtime configuration for an estimation run.
// This struct remains the "final, validated" config.
type Config struct {
	Owner string
	Repo  string

	State     schema.PRFilter
	StartTime time.Time
	EndTime   time.Time

	ResultLimit int
	Workers     int

	MaxGap       time.Duration
	Buffer       time.Duration
	TestPatterns []string
	TestEstimate bool

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Token      string // Please use env var as this is plaintext
	APIBaseURL string // Override for GitHub Enterprise instances
	RateLimit  int    // API requests per second

	Timezone string // IANA zone for business-hours issue estimates

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from the positional "owner/repo" arg, so no tag
	RepoStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	State            string `mapstructure:"state"`
	Start            string `mapstructure:"start"`
	End              string `mapstructure:"end"`
	Limit            int    `mapstructure:"limit"`
	Workers          int    `mapstructure:"workers"`
	MaxGap           string `mapstructure:"max-gap"`
	SessionBuffer    string `mapstructure:"session-buffer"`
	TestPatterns     string `mapstructure:"test-patterns"`
	TestEstimate     bool   `mapstructure:"test-estimate"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Token            string `mapstructure:"token"`
	APIBaseURL       string `mapstructure:"api-url"`
	RateLimit        int    `mapstructure:"rate-limit"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from issuesCmd.Flags() ---
	Timezone string `mapstructure:"timezone"`
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig enables profiling when a prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.TestPatterns != nil {
		clone.TestPatterns = make([]string, len(c.TestPatterns))
		copy(clone.TestPatterns, c.TestPatterns)
	}
	return &clone
}

// SessionConfig returns the session grouping thresholds as the estimator
// consumes them.
func (c *Config) SessionConfig() session.Config {
	return session.Config{MaxGap: c.MaxGap, Buffer: c.Buffer}
}

// RepoSlug returns the "owner/repo" form of the target repository.
func (c *Config) RepoSlug() string {
	return c.Owner + "/" + c.Repo
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSessionThresholds(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := resolveRepoSlug(cfg, input); err != nil {
		return err
	}
	resolveToken(cfg, input)
	return nil
}

// ResolveBackend normalizes a user-supplied backend name so env vars and
// flags are accepted case-insensitively. An empty value resolves to
// NoneBackend.
func ResolveBackend(raw string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if backend == "" {
		return schema.NoneBackend, nil
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid database backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connect string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connect string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
			return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
		}
		cfg.HistoryDBConnect = input.HistoryDBConnect
		if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			return err
		}

		// Cache and history must not share a database
		if cfg.CacheBackend == cfg.HistoryBackend && cfg.CacheBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			historyDBPath := cfg.HistoryDBConnect
			if historyDBPath == "" {
				historyDBPath = GetHistoryDBFilePath()
			}
			if cacheDBPath == historyDBPath {
				return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.APIBaseURL = strings.TrimSpace(input.APIBaseURL)
	cfg.TestEstimate = input.TestEstimate
	cfg.Timezone = strings.TrimSpace(input.Timezone)

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. State Validation ---
	cfg.State = schema.PRFilter(strings.ToLower(input.State))
	if _, ok := schema.ValidPRFilters[cfg.State]; !ok {
		return fmt.Errorf("invalid state '%s'. must be merged, closed, open, all", input.State)
	}

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 5. Rate Limit Validation ---
	if input.RateLimit <= 0 {
		return fmt.Errorf("rate-limit must be greater than 0 (received %d)", input.RateLimit)
	}
	cfg.RateLimit = input.RateLimit

	// --- 6. Backend Validation ---
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	// --- 7. Test Patterns Processing ---
	cfg.TestPatterns = schema.DefaultTestPatterns // Set defaults first

	if input.TestPatterns != "" {
		cfg.TestPatterns = nil
		for p := range strings.SplitSeq(input.TestPatterns, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cfg.TestPatterns = append(cfg.TestPatterns, trimmed)
			}
		}
		if len(cfg.TestPatterns) == 0 {
			return fmt.Errorf("test-patterns must contain at least one non-empty pattern")
		}
	}

	return nil
}

// processSessionThresholds parses the session grouping durations.
// Both flags accept Go duration strings ("90m") and human-readable
// forms ("2 hours").
func processSessionThresholds(cfg *Config, input *ConfigRawInput) error {
	cfg.MaxGap = session.DefaultMaxGap
	cfg.Buffer = session.DefaultBuffer

	if input.MaxGap != "" {
		gap, err := ParseDurationString(input.MaxGap)
		if err != nil {
			return fmt.Errorf("invalid --max-gap: %w", err)
		}
		cfg.MaxGap = gap
	}
	if input.SessionBuffer != "" {
		buf, err := ParseDurationString(input.SessionBuffer)
		if err != nil {
			return fmt.Errorf("invalid --session-buffer: %w", err)
		}
		cfg.Buffer = buf
	}

	return nil
}

// processTimeRange handles the date parsing and time range validation.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	now := time.Now()
	cfg.EndTime = now
	cfg.StartTime = cfg.EndTime.Add(-DefaultLookbackDays * 24 * time.Hour)

	parseAbsolute := func(s string) (time.Time, error) {
		if t, err := time.Parse(DateTimeFormat, s); err == nil {
			return t, nil
		}
		// Date-only inputs are common for reporting windows
		return time.Parse("2006-01-02", s)
	}

	// --- Process Start Time ---
	if input.Start != "" {
		t, err := parseAbsolute(input.Start)
		if err == nil {
			cfg.StartTime = t
		} else {
			t, relErr := ParseRelativeTime(input.Start, now)
			if relErr != nil {
				return fmt.Errorf("invalid start date format for '%s'. Expected absolute ISO8601, YYYY-MM-DD or 'N [units] ago': %v", input.Start, err)
			}
			cfg.StartTime = t
		}
	}

	// --- Process End Time ---
	if input.End != "" {
		t, err := parseAbsolute(input.End)
		if err == nil {
			cfg.EndTime = t
		} else {
			t, relErr := ParseRelativeTime(input.End, now)
			if relErr != nil {
				return fmt.Errorf("invalid end date format for '%s'. Expected absolute ISO8601, YYYY-MM-DD or 'N [units] ago': %v", input.End, err)
			}
			cfg.EndTime = t
		}
	}

	// --- Final Validation ---
	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}

	return nil
}

// resolveRepoSlug splits and validates the positional "owner/repo" argument.
func resolveRepoSlug(cfg *Config, input *ConfigRawInput) error {
	owner, repo, err := ParseRepoSlug(input.RepoStr)
	if err != nil {
		return err
	}
	cfg.Owner = owner
	cfg.Repo = repo
	return nil
}

// ParseRepoSlug splits an "owner/repo" string into its parts.
func ParseRepoSlug(raw string) (string, string, error) {
	slug := strings.TrimSpace(raw)
	if slug == "" {
		return "", "", fmt.Errorf("repository is required in 'owner/repo' form")
	}

	// Tolerate full GitHub URLs pasted from a browser
	slug = strings.TrimPrefix(slug, "https://github.com/")
	slug = strings.TrimSuffix(slug, ".git")
	slug = strings.Trim(slug, "/")

	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository '%s'. must be in 'owner/repo' form", raw)
	}
	return parts[0], parts[1], nil
}

// resolveToken picks the API token from the flag or the environment.
// An empty token is allowed; unauthenticated requests simply hit
// GitHub's lower rate limits.
func resolveToken(cfg *Config, input *ConfigRawInput) {
	cfg.Token = strings.TrimSpace(input.Token)
	if cfg.Token == "" {
		cfg.Token = strings.TrimSpace(os.Getenv(TokenEnvVar))
	}
}
