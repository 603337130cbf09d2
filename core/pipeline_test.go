package core

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/prtime/core/session"
	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/internal/iocache"
	"github.com/huangsam/prtime/schema"
)

var baseTime = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

// testConfig returns a validated-shape config with a wide time window.
func testConfig() *contract.Config {
	return &contract.Config{
		Owner:        "acme",
		Repo:         "widgets",
		State:        schema.MergedPRs,
		StartTime:    baseTime.Add(-90 * 24 * time.Hour),
		EndTime:      baseTime.Add(90 * 24 * time.Hour),
		ResultLimit:  50,
		Workers:      2,
		MaxGap:       session.DefaultMaxGap,
		Buffer:       session.DefaultBuffer,
		TestPatterns: schema.DefaultTestPatterns,
	}
}

func mergedPR(number int, title, author string, mergedAt time.Time) schema.PullRequest {
	return schema.PullRequest{
		Number:    number,
		Title:     title,
		Author:    author,
		State:     "closed",
		CreatedAt: mergedAt.Add(-24 * time.Hour),
		UpdatedAt: mergedAt,
		MergedAt:  &mergedAt,
	}
}

func commitsAt(author string, offsets ...time.Duration) []schema.Commit {
	commits := make([]schema.Commit, len(offsets))
	for i, off := range offsets {
		commits[i] = schema.Commit{
			SHA:       author + string(rune('a'+i)),
			Author:    author,
			Timestamp: baseTime.Add(off),
		}
	}
	return commits
}

func TestGetPREstimateResults(t *testing.T) {
	cfg := testConfig()
	source := &contract.MockCommitSource{}

	prs := []schema.PullRequest{
		mergedPR(1, "Small fix", "alice", baseTime),
		mergedPR(2, "Big feature", "bob", baseTime.Add(time.Hour)),
	}
	source.On("ListPullRequests", mock.Anything, "acme", "widgets", schema.MergedPRs, cfg.StartTime, 50).
		Return(prs, nil)

	// One commit: just the session buffer (2h)
	source.On("ListPullRequestCommits", mock.Anything, "acme", "widgets", 1).
		Return(commitsAt("alice", 0), nil)
	// Two sessions: buffer + buffer (4h)
	source.On("ListPullRequestCommits", mock.Anything, "acme", "widgets", 2).
		Return(commitsAt("bob", 0, 5*time.Hour), nil)

	estimates, summary, err := GetPREstimateResults(context.Background(), cfg, source, nil)
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	// Ranked by hours descending
	assert.Equal(t, 2, estimates[0].Number)
	assert.Equal(t, 4.0, estimates[0].Hours)
	assert.Equal(t, 2, estimates[0].Sessions)
	assert.Equal(t, 1, estimates[1].Number)
	assert.Equal(t, 2.0, estimates[1].Hours)

	assert.Equal(t, 2, summary.TotalPRs)
	assert.Equal(t, 3, summary.TotalCommits)
	assert.Equal(t, 3, summary.TotalSessions)
	assert.InDelta(t, 6.0, summary.TotalHours, 1e-9)

	source.AssertExpectations(t)
}

func TestGetPREstimateResultsWindowFilter(t *testing.T) {
	cfg := testConfig()
	source := &contract.MockCommitSource{}

	prs := []schema.PullRequest{
		mergedPR(1, "In window", "alice", baseTime),
		mergedPR(2, "Ancient", "bob", baseTime.Add(-365*24*time.Hour)),
	}
	source.On("ListPullRequests", mock.Anything, "acme", "widgets", schema.MergedPRs, cfg.StartTime, 50).
		Return(prs, nil)
	source.On("ListPullRequestCommits", mock.Anything, "acme", "widgets", 1).
		Return(commitsAt("alice", 0), nil)

	estimates, _, err := GetPREstimateResults(context.Background(), cfg, source, nil)
	require.NoError(t, err)
	require.Len(t, estimates, 1)
	assert.Equal(t, 1, estimates[0].Number)

	// The out-of-window PR never had its commits fetched
	source.AssertNotCalled(t, "ListPullRequestCommits", mock.Anything, "acme", "widgets", 2)
}

func TestGetPREstimateResultsEmptyPR(t *testing.T) {
	cfg := testConfig()
	source := &contract.MockCommitSource{}

	source.On("ListPullRequests", mock.Anything, "acme", "widgets", schema.MergedPRs, cfg.StartTime, 50).
		Return([]schema.PullRequest{mergedPR(7, "Empty", "alice", baseTime)}, nil)
	source.On("ListPullRequestCommits", mock.Anything, "acme", "widgets", 7).
		Return([]schema.Commit{}, nil)

	estimates, summary, err := GetPREstimateResults(context.Background(), cfg, source, nil)
	require.NoError(t, err)
	require.Len(t, estimates, 1)

	assert.Zero(t, estimates[0].Hours)
	assert.Zero(t, estimates[0].Sessions)
	assert.Zero(t, summary.TotalHours)
}

func TestGetPREstimateResultsTestHours(t *testing.T) {
	cfg := testConfig()
	cfg.TestEstimate = true
	source := &contract.MockCommitSource{}

	source.On("ListPullRequests", mock.Anything, "acme", "widgets", schema.MergedPRs, cfg.StartTime, 50).
		Return([]schema.PullRequest{mergedPR(3, "With tests", "alice", baseTime)}, nil)
	source.On("ListPullRequestCommits", mock.Anything, "acme", "widgets", 3).
		Return(commitsAt("alice", 0, time.Hour), nil)
	source.On("ListCommitFiles", mock.Anything, "acme", "widgets", "alicea").
		Return([]string{"core/session.go"}, nil)
	source.On("ListCommitFiles", mock.Anything, "acme", "widgets", "aliceb").
		Return([]string{"core/session_test.go"}, nil)

	estimates, _, err := GetPREstimateResults(context.Background(), cfg, source, nil)
	require.NoError(t, err)
	require.Len(t, estimates, 1)

	// Whole PR: one session, buffer + 1h gap = 3h. Test commits alone: one
	// session, buffer only = 2h.
	assert.Equal(t, 3.0, estimates[0].Hours)
	assert.Equal(t, 2.0, estimates[0].TestHours)
}

func TestGetPRDetailResults(t *testing.T) {
	cfg := testConfig()
	source := &contract.MockCommitSource{}

	pr := mergedPR(9, "Detailed", "alice", baseTime)
	source.On("GetPullRequest", mock.Anything, "acme", "widgets", 9).Return(pr, nil)
	source.On("ListPullRequestCommits", mock.Anything, "acme", "widgets", 9).
		Return(commitsAt("alice", 0, time.Hour, 8*time.Hour), nil)

	estimate, sessions, err := GetPRDetailResults(context.Background(), cfg, source, nil, 9)
	require.NoError(t, err)

	assert.Equal(t, 9, estimate.Number)
	assert.Equal(t, 2, estimate.Sessions)
	assert.Equal(t, 3, estimate.Commits)
	require.Len(t, sessions, 2)
	assert.Equal(t, 2, sessions[0].Commits)
	assert.Equal(t, 1, sessions[1].Commits)
}

func TestGetContributorResults(t *testing.T) {
	cfg := testConfig()
	source := &contract.MockCommitSource{}

	prs := []schema.PullRequest{
		mergedPR(1, "First", "alice", baseTime),
		mergedPR(2, "Second", "alice", baseTime.Add(time.Hour)),
	}
	source.On("ListPullRequests", mock.Anything, "acme", "widgets", schema.MergedPRs, cfg.StartTime, 50).
		Return(prs, nil)
	// Alice commits on both PRs, Bob only on the second
	source.On("ListPullRequestCommits", mock.Anything, "acme", "widgets", 1).
		Return(commitsAt("alice", 0), nil)
	source.On("ListPullRequestCommits", mock.Anything, "acme", "widgets", 2).
		Return(append(commitsAt("alice", 30*time.Minute), commitsAt("bob", time.Hour)...), nil)

	estimates, err := GetContributorResults(context.Background(), cfg, source, nil)
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	// Alice: two commits 30m apart, one session, 2.5h. Ranked first.
	assert.Equal(t, "alice", estimates[0].Author)
	assert.Equal(t, 2, estimates[0].PullRequests)
	assert.Equal(t, 2, estimates[0].Commits)
	assert.Equal(t, 2.5, estimates[0].Hours)

	assert.Equal(t, "bob", estimates[1].Author)
	assert.Equal(t, 1, estimates[1].PullRequests)
	assert.Equal(t, 2.0, estimates[1].Hours)
}

func TestGetIssueResults(t *testing.T) {
	cfg := testConfig()
	cfg.Timezone = "UTC"
	source := &contract.MockCommitSource{}

	issues := []schema.Issue{
		{
			Number:    12,
			Title:     "Second closed",
			Author:    "bob",
			CreatedAt: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), // Monday
			ClosedAt:  time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC),
		},
		{
			Number:    11,
			Title:     "First closed",
			Author:    "alice",
			CreatedAt: time.Date(2024, 6, 7, 9, 0, 0, 0, time.UTC), // Friday
			ClosedAt:  time.Date(2024, 6, 10, 11, 0, 0, 0, time.UTC),
		},
	}
	source.On("ListClosedIssues", mock.Anything, "acme", "widgets", cfg.StartTime, cfg.EndTime).
		Return(issues, nil)

	estimates, err := GetIssueResults(context.Background(), cfg, source)
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	// Chronological by close date
	assert.Equal(t, 11, estimates[0].Number)
	// Friday 9-19 (10h) plus Monday 7-11 (4h), weekend skipped
	assert.Equal(t, 14.0, estimates[0].BusinessHours)
	assert.Equal(t, 12, estimates[1].Number)
	assert.Equal(t, 6.0, estimates[1].BusinessHours)
}

func TestCachedCommitsMissThenStore(t *testing.T) {
	cfg := testConfig()
	source := &contract.MockCommitSource{}
	store := &iocache.MockCacheStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetCommitStore").Return(store)

	pr := mergedPR(5, "Cached", "alice", baseTime)
	commits := commitsAt("alice", 0)
	key := "commits:acme/widgets#5"

	store.On("Get", key).Return([]byte(nil), 0, int64(0), assert.AnError)
	store.On("Set", key, mock.Anything, 1, mock.Anything).Return(nil)
	source.On("ListPullRequestCommits", mock.Anything, "acme", "widgets", 5).
		Return(commits, nil)

	got, err := cachedListPullRequestCommits(context.Background(), source, mgr, cfg, pr)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	store.AssertExpectations(t)
	source.AssertExpectations(t)
}

func TestCachedCommitsHitSkipsFetch(t *testing.T) {
	cfg := testConfig()
	source := &contract.MockCommitSource{}
	store := &iocache.MockCacheStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetCommitStore").Return(store)

	pr := mergedPR(5, "Cached", "alice", baseTime)
	commits := commitsAt("alice", 0)
	data, err := json.Marshal(commits)
	require.NoError(t, err)

	store.On("Get", "commits:acme/widgets#5").
		Return(data, 1, time.Now().Unix(), nil)

	got, err := cachedListPullRequestCommits(context.Background(), source, mgr, cfg, pr)
	require.NoError(t, err)
	assert.Equal(t, commits[0].SHA, got[0].SHA)

	source.AssertNotCalled(t, "ListPullRequestCommits", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedCommitsStaleEntryRefetches(t *testing.T) {
	cfg := testConfig()
	source := &contract.MockCommitSource{}
	store := &iocache.MockCacheStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetCommitStore").Return(store)

	// Open PRs get a short TTL
	pr := schema.PullRequest{Number: 6, Title: "Open", Author: "bob", State: "open", UpdatedAt: baseTime}
	commits := commitsAt("bob", 0)
	data, err := json.Marshal(commits)
	require.NoError(t, err)

	stale := time.Now().Add(-2 * time.Hour).Unix()
	store.On("Get", "commits:acme/widgets#6").Return(data, 1, stale, nil)
	store.On("Set", "commits:acme/widgets#6", mock.Anything, 1, mock.Anything).Return(nil)
	source.On("ListPullRequestCommits", mock.Anything, "acme", "widgets", 6).
		Return(commits, nil)

	_, err = cachedListPullRequestCommits(context.Background(), source, mgr, cfg, pr)
	require.NoError(t, err)
	source.AssertExpectations(t)
}

func TestRankPRs(t *testing.T) {
	estimates := []schema.PREstimate{
		{Number: 1, Hours: 2.0},
		{Number: 2, Hours: 8.0},
		{Number: 3, Hours: 4.0},
	}

	ranked := rankPRs(estimates, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, 2, ranked[0].Number)
	assert.Equal(t, 3, ranked[1].Number)
}

func TestFilterByWindowUsesUpdatedAtForUnmerged(t *testing.T) {
	cfg := testConfig()
	open := schema.PullRequest{Number: 4, State: "open", UpdatedAt: baseTime}
	old := schema.PullRequest{Number: 5, State: "open", UpdatedAt: baseTime.Add(-365 * 24 * time.Hour)}

	filtered := filterByWindow([]schema.PullRequest{open, old}, cfg)
	require.Len(t, filtered, 1)
	assert.Equal(t, 4, filtered[0].Number)
}
