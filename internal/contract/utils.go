package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/huangsam/prtime/schema"
)

// Color variables for console output.
var (
	HeavyColor  = color.New(color.FgRed, color.Bold)     // heavyColor marks estimates above a week of effort.
	LargeColor  = color.New(color.FgMagenta, color.Bold) // largeColor marks multi-day efforts.
	MediumColor = color.New(color.FgYellow)              // mediumColor marks one-to-two day efforts, not bold.
	LightColor  = color.New(color.FgCyan)                // lightColor marks sub-day efforts.
)

// GetColorLabel returns a colored effort label for console output (table).
// It uses schema.GetEffortLabel to determine the string, and then applies
// the appropriate color.
func GetColorLabel(hours float64) string {
	text := schema.GetEffortLabel(hours)

	switch text {
	case schema.EffortHeavy:
		return HeavyColor.Sprint(text)
	case schema.EffortLarge:
		return LargeColor.Sprint(text)
	case schema.EffortMedium:
		return MediumColor.Sprint(text)
	default: // "Light"
		return LightColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".prtime_cache.db"
	}
	return filepath.Join(homeDir, ".prtime_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".prtime_history.db"
	}
	return filepath.Join(homeDir, ".prtime_history.db")
}

// TruncateTitle truncates a PR title to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both the "..." suffix and
// at least one character of content.
func TruncateTitle(title string, maxWidth int) string {
	runes := []rune(title)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return title
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
