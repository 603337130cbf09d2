package session

import (
	"math/rand"
	"testing"
	"time"

	"github.com/huangsam/prtime/schema"
	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

// makeCommits builds a commit set with the given offsets from t0.
func makeCommits(offsets ...time.Duration) []schema.Commit {
	commits := make([]schema.Commit, len(offsets))
	for i, off := range offsets {
		commits[i] = schema.Commit{
			SHA:       string(rune('a' + i)),
			Author:    "dev",
			Timestamp: t0.Add(off),
		}
	}
	return commits
}

func TestEstimateEmpty(t *testing.T) {
	result := Estimate(nil, DefaultConfig())

	assert.Equal(t, 0.0, result.Hours())
	assert.Equal(t, 0, result.Sessions)
	assert.Equal(t, 0, result.Commits)
}

func TestEstimateSingleCommit(t *testing.T) {
	result := Estimate(makeCommits(0), DefaultConfig())

	// A single commit earns exactly one session buffer.
	assert.Equal(t, 2.0, result.Hours())
	assert.Equal(t, 1, result.Sessions)
	assert.Equal(t, 1, result.Commits)
}

func TestEstimateSingleSession(t *testing.T) {
	// Two commits 90 minutes apart: buffer (120) + gap (90) = 3.5 hours.
	result := Estimate(makeCommits(0, 90*time.Minute), DefaultConfig())

	assert.Equal(t, 3.5, result.Hours())
	assert.Equal(t, 1, result.Sessions)
}

func TestEstimateTwoSessions(t *testing.T) {
	// Two commits 200 minutes apart: two full buffers, idle time discarded.
	result := Estimate(makeCommits(0, 200*time.Minute), DefaultConfig())

	assert.Equal(t, 4.0, result.Hours())
	assert.Equal(t, 2, result.Sessions)
}

func TestEstimateAllBeyondGap(t *testing.T) {
	// Every consecutive pair is further apart than MaxGap, so each commit
	// starts its own session contributing exactly one buffer.
	commits := makeCommits(0, 5*time.Hour, 10*time.Hour, 15*time.Hour)
	result := Estimate(commits, DefaultConfig())

	assert.Equal(t, 8.0, result.Hours())
	assert.Equal(t, 4, result.Sessions)
}

func TestEstimateAllWithinGap(t *testing.T) {
	// One session: buffer + (last - first).
	commits := makeCommits(0, 30*time.Minute, 60*time.Minute, 150*time.Minute)
	result := Estimate(commits, DefaultConfig())

	assert.Equal(t, 4.5, result.Hours())
	assert.Equal(t, 1, result.Sessions)
}

func TestEstimateOrderInvariant(t *testing.T) {
	commits := makeCommits(0, 45*time.Minute, 200*time.Minute, 260*time.Minute, 600*time.Minute)
	want := Estimate(commits, DefaultConfig())

	rng := rand.New(rand.NewSource(7))
	for range 20 {
		shuffled := make([]schema.Commit, len(commits))
		copy(shuffled, commits)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := Estimate(shuffled, DefaultConfig())
		assert.Equal(t, want, got)
	}
}

func TestEstimateDuplicateTimestamps(t *testing.T) {
	base := makeCommits(0, 90*time.Minute)
	withDupes := makeCommits(0, 0, 90*time.Minute, 90*time.Minute)

	// Zero gaps contribute zero hours; only commit count differs.
	assert.Equal(t, Estimate(base, DefaultConfig()).Hours(), Estimate(withDupes, DefaultConfig()).Hours())
	assert.Equal(t, 4, Estimate(withDupes, DefaultConfig()).Commits)
}

func TestEstimateNonIncreasingTimestamps(t *testing.T) {
	// Rebase artifacts can put a later commit before an earlier one in the
	// input; after sorting there is no negative gap to contribute.
	commits := makeCommits(60*time.Minute, 0)
	result := Estimate(commits, DefaultConfig())

	assert.Equal(t, 3.0, result.Hours())
	assert.GreaterOrEqual(t, result.Hours(), 0.0)
}

func TestEstimateNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for range 50 {
		n := rng.Intn(12)
		offsets := make([]time.Duration, n)
		for i := range offsets {
			offsets[i] = time.Duration(rng.Intn(3000)) * time.Minute
		}

		result := Estimate(makeCommits(offsets...), DefaultConfig())
		assert.GreaterOrEqual(t, result.Hours(), 0.0)
	}
}

func TestEstimateCustomConfig(t *testing.T) {
	cfg := Config{MaxGap: 30 * time.Minute, Buffer: 60 * time.Minute}

	// Gap of 45 minutes exceeds the 30 minute threshold: two sessions.
	result := Estimate(makeCommits(0, 45*time.Minute), cfg)

	assert.Equal(t, 2.0, result.Hours())
	assert.Equal(t, 2, result.Sessions)
}

func TestSessionsDetail(t *testing.T) {
	commits := makeCommits(0, 60*time.Minute, 400*time.Minute, 430*time.Minute)
	details := Sessions(commits, DefaultConfig())

	assert.Len(t, details, 2)
	assert.Equal(t, t0, details[0].Start)
	assert.Equal(t, t0.Add(60*time.Minute), details[0].End)
	assert.Equal(t, 2, details[0].Commits)
	assert.Equal(t, 3.0, details[0].Hours)
	assert.Equal(t, t0.Add(400*time.Minute), details[1].Start)
	assert.Equal(t, 2, details[1].Commits)
	assert.Equal(t, 2.5, details[1].Hours)
}

func TestSessionsMatchEstimate(t *testing.T) {
	commits := makeCommits(0, 20*time.Minute, 500*time.Minute, 560*time.Minute, 1200*time.Minute)

	result := Estimate(commits, DefaultConfig())
	details := Sessions(commits, DefaultConfig())

	assert.Len(t, details, result.Sessions)

	totalCommits := 0
	for _, d := range details {
		totalCommits += d.Commits
	}
	assert.Equal(t, result.Commits, totalCommits)
}

func TestFilterTestCommits(t *testing.T) {
	commits := []schema.Commit{
		{SHA: "a", Timestamp: t0, Files: []string{"core/session/session.go"}},
		{SHA: "b", Timestamp: t0.Add(30 * time.Minute), Files: []string{"core/session/session_test.go"}},
		{SHA: "c", Timestamp: t0.Add(60 * time.Minute), Files: []string{"docs/usage.md", "tests/fixtures.json"}},
		{SHA: "d", Timestamp: t0.Add(90 * time.Minute)}, // no file data
	}

	filtered := FilterTestCommits(commits, schema.DefaultTestPatterns)

	assert.Len(t, filtered, 2)
	assert.Equal(t, "b", filtered[0].SHA)
	assert.Equal(t, "c", filtered[1].SHA)
}

func TestFilteredNeverExceedsUnfiltered(t *testing.T) {
	commits := []schema.Commit{
		{SHA: "a", Timestamp: t0, Files: []string{"main.go"}},
		{SHA: "b", Timestamp: t0.Add(100 * time.Minute), Files: []string{"main_test.go"}},
		{SHA: "c", Timestamp: t0.Add(300 * time.Minute), Files: []string{"tests/e2e.go"}},
		{SHA: "d", Timestamp: t0.Add(360 * time.Minute), Files: []string{"README.md"}},
	}

	full := Estimate(commits, DefaultConfig())
	filtered := Estimate(FilterTestCommits(commits, schema.DefaultTestPatterns), DefaultConfig())

	assert.LessOrEqual(t, filtered.Hours(), full.Hours())
}

func TestMatchesPath(t *testing.T) {
	patterns := schema.DefaultTestPatterns

	assert.True(t, MatchesPath("pkg/util/util_test.go", patterns))
	assert.True(t, MatchesPath("tests/integration.py", patterns))
	assert.True(t, MatchesPath("src/app.spec.ts", patterns))
	assert.True(t, MatchesPath("backend/test/helpers.rb", patterns))
	assert.False(t, MatchesPath("pkg/util/util.go", patterns))
	assert.False(t, MatchesPath("docs/testing-guide.md", []string{"test/"}))
}
