package iocache

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/schema"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetCommitStore implements the CacheManager interface.
func (m *MockCacheManager) GetCommitStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetRunStore implements the CacheManager interface.
func (m *MockCacheManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	value, _ := args.Get(0).([]byte)
	return value, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(repo string, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(repo, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalPRs int, totalHours float64) error {
	args := m.Called(runID, endTime, totalPRs, totalHours)
	return args.Error(0)
}

// RecordPREstimate implements the RunStore interface.
func (m *MockRunStore) RecordPREstimate(runID int64, estimate schema.PREstimate) error {
	args := m.Called(runID, estimate)
	return args.Error(0)
}

// ListRuns implements the RunStore interface.
func (m *MockRunStore) ListRuns(limit int) ([]schema.RunRecord, error) {
	args := m.Called(limit)
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// ListPREstimates implements the RunStore interface.
func (m *MockRunStore) ListPREstimates(runID int64) ([]schema.PREstimateRecord, error) {
	args := m.Called(runID)
	records, _ := args.Get(0).([]schema.PREstimateRecord)
	return records, args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllPREstimates implements the RunStore interface.
func (m *MockRunStore) GetAllPREstimates() ([]schema.PREstimateRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.PREstimateRecord)
	return records, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}
