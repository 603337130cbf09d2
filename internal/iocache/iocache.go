package iocache

import (
	"sync"

	"github.com/huangsam/prtime/internal/contract"
)

// CacheStoreManager manages the commit cache and run history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	commits      contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetCommitStore returns the commit CacheStore.
func (mgr *CacheStoreManager) GetCommitStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.commits
}

// GetRunStore returns the run history RunStore.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
