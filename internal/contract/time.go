package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Define the regular expression to capture "N [units] ago"
// e.g., "2 years ago", "3 months ago", "1 week ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?\s+ago$`)

// ParseRelativeTime converts strings like "2 years ago" into a time.Time in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	// 1: Value (e.g., "2")
	// 2: Unit (e.g., "year" or "month")
	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch unit {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.Add(time.Duration(-value) * 7 * 24 * time.Hour), nil
	case "day":
		return now.Add(time.Duration(-value) * 24 * time.Hour), nil
	case "hour":
		return now.Add(time.Duration(-value) * time.Hour), nil
	case "minute":
		return now.Add(time.Duration(-value) * time.Minute), nil
	default:
		// Should be caught by the regex, but good for safety
		return time.Time{}, fmt.Errorf("unsupported time unit: %s", unit)
	}
}

// Define the regular expression to capture "N [units]".
var durationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?$`)

// ParseDurationString converts strings like "3 hours" or "90m" into a single
// time.Duration. It first tries Go's built-in time.ParseDuration for standard
// formats, then bare integers as minutes, then falls back to custom parsing
// for human-readable formats.
func ParseDurationString(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Try Go's built-in duration parsing first (e.g., "90m", "2h", "45s")
	if duration, err := time.ParseDuration(s); err == nil {
		if duration <= 0 {
			return 0, errors.New("duration must be positive")
		}
		return duration, nil
	}

	// A bare integer means minutes
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, errors.New("duration must be positive")
		}
		return time.Duration(n) * time.Minute, nil
	}

	// Fall back to custom parsing for human-readable formats (e.g., "2 hours")
	s = strings.ToLower(s)
	matches := durationRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	// 1: Value (e.g., "2")
	// 2: Unit (e.g., "hour" or "minute")
	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	var totalDuration time.Duration

	switch unit {
	case "year":
		// Approximation: 1 year ≈ 365 days
		totalDuration = time.Duration(value) * 365 * 24 * time.Hour
	case "month":
		// Approximation: 1 month ≈ 30 days
		totalDuration = time.Duration(value) * 30 * 24 * time.Hour
	case "week":
		totalDuration = time.Duration(value) * 7 * 24 * time.Hour
	case "day":
		totalDuration = time.Duration(value) * 24 * time.Hour
	case "hour":
		totalDuration = time.Duration(value) * time.Hour
	case "minute":
		totalDuration = time.Duration(value) * time.Minute
	default:
		// Should be caught by the regex
		return 0, errors.New("unsupported time unit")
	}

	if totalDuration == 0 {
		return 0, errors.New("zero duration is not useful")
	}

	return totalDuration, nil
}
