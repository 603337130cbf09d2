// Package session implements the commit-session time estimation algorithm.
//
// Commits that land close together are treated as one continuous work
// session; each session is credited a fixed buffer for the untracked work
// that precedes its first commit, and idle time between sessions is
// discarded entirely.
package session

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/prtime/schema"
)

// Default thresholds for session grouping. Commits within two hours of each
// other belong to the same session, and each session is credited two hours
// of untracked ramp-up work.
const (
	DefaultMaxGap = 120 * time.Minute
	DefaultBuffer = 120 * time.Minute
)

// Config holds the two thresholds that drive session grouping.
// Immutable, supplied by the caller per invocation.
type Config struct {
	MaxGap time.Duration // Commits further apart than this start a new session
	Buffer time.Duration // Fixed overhead credited once per session
}

// DefaultConfig returns the standard 120/120 minute thresholds.
func DefaultConfig() Config {
	return Config{MaxGap: DefaultMaxGap, Buffer: DefaultBuffer}
}

// Result is the outcome of one estimation over a commit set.
type Result struct {
	Total    time.Duration // Total estimated effort
	Sessions int           // Number of distinct work sessions
	Commits  int           // Number of commits considered
}

// Hours returns the estimate in hours, rounded to one decimal place.
func (r Result) Hours() float64 {
	return roundHours(r.Total)
}

// Estimate converts a set of timestamped commits into an effort estimate.
//
// The input may be unordered and may contain duplicate timestamps; the
// result is deterministic for a given commit set and config. An empty set
// yields a zero result, which is a valid outcome for empty pull requests,
// not an error. The function performs no I/O and is safe to call
// concurrently for independent commit sets.
func Estimate(commits []schema.Commit, cfg Config) Result {
	if len(commits) == 0 {
		return Result{}
	}

	sorted := sortByTimestamp(commits)

	total := cfg.Buffer
	sessions := 1
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Timestamp.Sub(sorted[i-1].Timestamp)
		switch {
		case gap <= 0:
			// Non-increasing author timestamps show up in real history
			// (clock skew, rebase artifacts). They contribute nothing.
		case gap <= cfg.MaxGap:
			total += gap
		default:
			sessions++
			total += cfg.Buffer
		}
	}

	return Result{Total: total, Sessions: sessions, Commits: len(sorted)}
}

// Sessions returns per-session detail in chronological order, using the
// same grouping rules as Estimate. Useful for the single-PR view.
func Sessions(commits []schema.Commit, cfg Config) []schema.SessionDetail {
	if len(commits) == 0 {
		return nil
	}

	sorted := sortByTimestamp(commits)

	var details []schema.SessionDetail
	current := schema.SessionDetail{
		Start:   sorted[0].Timestamp,
		End:     sorted[0].Timestamp,
		Commits: 1,
	}
	elapsed := cfg.Buffer

	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Timestamp.Sub(sorted[i-1].Timestamp)
		if gap > cfg.MaxGap {
			current.Hours = roundHours(elapsed)
			details = append(details, current)
			current = schema.SessionDetail{
				Start:   sorted[i].Timestamp,
				End:     sorted[i].Timestamp,
				Commits: 1,
			}
			elapsed = cfg.Buffer
			continue
		}
		if gap > 0 {
			elapsed += gap
		}
		current.End = sorted[i].Timestamp
		current.Commits++
	}

	current.Hours = roundHours(elapsed)
	return append(details, current)
}

// FilterTestCommits returns the subset of commits that touched at least one
// file matching any of the given patterns. It is a pure pre-filter composed
// before Estimate to produce a secondary test-only estimate; commits with no
// file data never match.
func FilterTestCommits(commits []schema.Commit, patterns []string) []schema.Commit {
	var filtered []schema.Commit
	for _, c := range commits {
		for _, f := range c.Files {
			if MatchesPath(f, patterns) {
				filtered = append(filtered, c)
				break
			}
		}
	}
	return filtered
}

// MatchesPath returns true if the given path matches any of the patterns.
// Patterns ending with '/' are treated as path-segment prefixes, patterns
// starting with '.' or '_' as suffix matches, and anything else as a
// substring match.
func MatchesPath(path string, patterns []string) bool {
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		switch {
		case strings.HasSuffix(p, "/"):
			if strings.HasPrefix(path, p) || strings.Contains(path, "/"+p) {
				return true
			}
		case strings.HasPrefix(p, ".") || strings.HasPrefix(p, "_"):
			if strings.HasSuffix(path, p) || strings.Contains(path, p) {
				return true
			}
		case strings.Contains(path, p):
			return true
		}
	}
	return false
}

// sortByTimestamp returns a stably sorted copy of the commit set.
// The stable sort keeps ties in input-relative order, since no further
// meaning can be assigned to simultaneous commits.
func sortByTimestamp(commits []schema.Commit) []schema.Commit {
	sorted := make([]schema.Commit, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*10) / 10
}
