package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/prtime/schema"
)

func newSQLiteRunStore(t *testing.T) *RunStoreImpl {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store.(*RunStoreImpl)
}

func TestRunStoreLifecycle(t *testing.T) {
	store := newSQLiteRunStore(t)

	startTime := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun("acme/widgets", startTime, map[string]any{"limit": 50})
	require.NoError(t, err)
	require.Positive(t, runID)

	require.NoError(t, store.RecordPREstimate(runID, schema.PREstimate{
		Number: 7, Title: "Add retry logic", Author: "alice",
		Commits: 4, Sessions: 2, Hours: 4.5, TestHours: 1.0,
	}))
	require.NoError(t, store.RecordPREstimate(runID, schema.PREstimate{
		Number: 9, Title: "Fix flaky timeout", Author: "bob",
		Commits: 1, Sessions: 1, Hours: 2.0, TestHours: 2.0,
	}))

	endTime := startTime.Add(90 * time.Second)
	require.NoError(t, store.EndRun(runID, endTime, 2, 6.5))

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "acme/widgets", run.Repo)
	assert.True(t, run.StartTime.Equal(startTime))
	require.NotNil(t, run.EndTime)
	assert.True(t, run.EndTime.Equal(endTime))
	require.NotNil(t, run.DurationMs)
	assert.Equal(t, int32(90000), *run.DurationMs)
	assert.Equal(t, int32(2), run.TotalPRs)
	assert.InDelta(t, 6.5, run.TotalHours, 1e-9)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"limit":50}`, *run.ConfigParams)

	estimates, err := store.ListPREstimates(runID)
	require.NoError(t, err)
	require.Len(t, estimates, 2)
	assert.Equal(t, int32(7), estimates[0].PRNumber)
	assert.Equal(t, "alice", estimates[0].Author)
	assert.Equal(t, int32(2), estimates[0].Sessions)
	assert.Equal(t, int32(9), estimates[1].PRNumber)
	assert.InDelta(t, 2.0, estimates[1].TestHours, 1e-9)
}

func TestRunStoreListRunsOrder(t *testing.T) {
	store := newSQLiteRunStore(t)

	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	var ids []int64
	for i := range 3 {
		runID, err := store.BeginRun("acme/widgets", base.Add(time.Duration(i)*time.Hour), nil)
		require.NoError(t, err)
		ids = append(ids, runID)
	}

	// ListRuns is newest first, GetAllRuns is oldest first.
	recent, err := store.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[2], recent[0].RunID)
	assert.Equal(t, ids[1], recent[1].RunID)

	all, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[0], all[0].RunID)
	assert.Equal(t, ids[2], all[2].RunID)
}

func TestRunStoreUnfinishedRun(t *testing.T) {
	store := newSQLiteRunStore(t)

	startTime := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun("acme/widgets", startTime, nil)
	require.NoError(t, err)

	runs, err := store.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	// A run that never reached EndRun has no completion data.
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Nil(t, run.EndTime)
	assert.Nil(t, run.DurationMs)
	assert.Zero(t, run.TotalPRs)
	assert.Zero(t, run.TotalHours)
}

func TestRunStoreGetAllPREstimates(t *testing.T) {
	store := newSQLiteRunStore(t)

	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	firstRun, err := store.BeginRun("acme/widgets", base, nil)
	require.NoError(t, err)
	secondRun, err := store.BeginRun("acme/widgets", base.Add(time.Hour), nil)
	require.NoError(t, err)

	require.NoError(t, store.RecordPREstimate(secondRun, schema.PREstimate{Number: 3, Title: "b", Author: "bob", Commits: 1, Sessions: 1, Hours: 2.0}))
	require.NoError(t, store.RecordPREstimate(firstRun, schema.PREstimate{Number: 5, Title: "a", Author: "alice", Commits: 2, Sessions: 1, Hours: 3.0}))

	all, err := store.GetAllPREstimates()
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Ordered by run then PR number.
	assert.Equal(t, firstRun, all[0].RunID)
	assert.Equal(t, int32(5), all[0].PRNumber)
	assert.Equal(t, secondRun, all[1].RunID)
	assert.Equal(t, int32(3), all[1].PRNumber)
}

func TestRunStoreStatus(t *testing.T) {
	store := newSQLiteRunStore(t)

	empty, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", empty.Backend)
	assert.True(t, empty.Connected)
	assert.Zero(t, empty.TotalRuns)

	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	firstRun, err := store.BeginRun("acme/widgets", base, nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordPREstimate(firstRun, schema.PREstimate{Number: 1, Title: "x", Author: "alice", Commits: 1, Sessions: 1, Hours: 2.0}))
	require.NoError(t, store.EndRun(firstRun, base.Add(time.Minute), 1, 2.0))

	lastRun, err := store.BeginRun("acme/widgets", base.Add(time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(lastRun, base.Add(2*time.Hour), 3, 9.0))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, lastRun, status.LastRunID)
	assert.True(t, status.LastRunTime.Equal(base.Add(time.Hour)))
	assert.True(t, status.OldestRunTime.Equal(base))
	assert.Equal(t, 4, status.TotalPRsEstimated)
	assert.Equal(t, int64(2), status.TableSizes[runsTable])
	assert.Equal(t, int64(1), status.TableSizes[prEstimatesTable])
}

func TestRunStoreNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun("acme/widgets", time.Now(), nil)
	require.NoError(t, err)
	assert.Zero(t, runID)

	assert.NoError(t, store.EndRun(runID, time.Now(), 0, 0))
	assert.NoError(t, store.RecordPREstimate(runID, schema.PREstimate{}))

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}
