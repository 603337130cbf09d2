//go:build database

// Package integration contains integration tests for prtime.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags database ./integration
package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/prtime/internal/iocache"
	"github.com/huangsam/prtime/schema"
)

// TestStoreRoundTripMySQL verifies the cache and run stores against a real MySQL server.
func TestStoreRoundTripMySQL(t *testing.T) {
	connStr := startMySQL(t)
	verifyStores(t, schema.MySQLBackend, connStr)
}

// TestStoreRoundTripPostgres verifies the cache and run stores against a real PostgreSQL server.
func TestStoreRoundTripPostgres(t *testing.T) {
	connStr := startPostgres(t)
	verifyStores(t, schema.PostgreSQLBackend, connStr)
}

// verifyStores runs a write/read cycle through both stores on the given backend.
func verifyStores(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	cacheStore, err := iocache.NewCacheStore("commit_cache", backend, connStr)
	require.NoError(t, err)
	defer func() { _ = cacheStore.Close() }()

	// Cache round trip
	now := time.Now().Unix()
	require.NoError(t, cacheStore.Set("commits:acme/widgets#7", []byte(`[{"sha":"abc"}]`), 1, now))
	data, version, ts, err := cacheStore.Get("commits:acme/widgets#7")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"sha":"abc"}]`), data)
	assert.Equal(t, 1, version)
	assert.Equal(t, now, ts)

	cacheStatus, err := cacheStore.GetStatus()
	require.NoError(t, err)
	assert.True(t, cacheStatus.Connected)
	assert.Equal(t, 1, cacheStatus.TotalEntries)

	// Run history round trip
	runStore, err := iocache.NewRunStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = runStore.Close() }()

	start := time.Now().Add(-time.Minute)
	runID, err := runStore.BeginRun("acme/widgets", start, map[string]any{"limit": 50})
	require.NoError(t, err)
	require.Positive(t, runID)

	require.NoError(t, runStore.RecordPREstimate(runID, schema.PREstimate{
		Number:   7,
		Title:    "Add frobnicator",
		Author:   "alice",
		Commits:  3,
		Sessions: 2,
		Hours:    5.0,
	}))
	require.NoError(t, runStore.EndRun(runID, time.Now(), 1, 5.0))

	runs, err := runStore.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "acme/widgets", runs[0].Repo)
	assert.Equal(t, int32(1), runs[0].TotalPRs)

	estimates, err := runStore.ListPREstimates(runID)
	require.NoError(t, err)
	require.Len(t, estimates, 1)
	assert.Equal(t, int32(7), estimates[0].PRNumber)
	assert.InDelta(t, 5.0, estimates[0].Hours, 0.001)
}
