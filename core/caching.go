package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// Cache staleness windows. Commits on a merged or closed PR never change, so
// those entries live long; open PRs keep accumulating commits and expire fast.
// File lists are keyed by SHA and are immutable.
const (
	closedPRCacheTTL = 30 * 24 * time.Hour
	openPRCacheTTL   = time.Hour
	commitFileTTL    = 30 * 24 * time.Hour
)

// cachedListPullRequestCommits returns the commits for a pull request, going
// through the commit cache when one is configured.
func cachedListPullRequestCommits(ctx context.Context, source contract.CommitSource, mgr contract.CacheManager, cfg *contract.Config, pr schema.PullRequest) ([]schema.Commit, error) {
	store := cacheStoreFor(mgr)
	if store == nil {
		// Fallback to direct fetch
		return source.ListPullRequestCommits(ctx, cfg.Owner, cfg.Repo, pr.Number)
	}

	ttl := openPRCacheTTL
	if pr.MergedAt != nil || pr.ClosedAt != nil {
		ttl = closedPRCacheTTL
	}

	key := fmt.Sprintf("commits:%s/%s#%d", cfg.Owner, cfg.Repo, pr.Number)
	if commits := checkCommitCacheHit(store, key, ttl); commits != nil {
		return commits, nil
	}

	commits, err := source.ListPullRequestCommits(ctx, cfg.Owner, cfg.Repo, pr.Number)
	if err != nil {
		return nil, err
	}
	storeCacheEntry(store, key, commits)
	return commits, nil
}

// cachedListCommitFiles returns the file paths touched by a commit, going
// through the commit cache when one is configured.
func cachedListCommitFiles(ctx context.Context, source contract.CommitSource, mgr contract.CacheManager, cfg *contract.Config, sha string) ([]string, error) {
	store := cacheStoreFor(mgr)
	if store == nil {
		return source.ListCommitFiles(ctx, cfg.Owner, cfg.Repo, sha)
	}

	key := fmt.Sprintf("files:%s/%s:%s", cfg.Owner, cfg.Repo, sha)
	data, version, ts, err := store.Get(key)
	if err == nil && version == currentCacheVersion && time.Since(time.Unix(ts, 0)) <= commitFileTTL {
		var files []string
		if err := json.Unmarshal(data, &files); err == nil {
			return files, nil
		}
	}

	files, err := source.ListCommitFiles(ctx, cfg.Owner, cfg.Repo, sha)
	if err != nil {
		return nil, err
	}
	storeCacheEntry(store, key, files)
	return files, nil
}

// cacheStoreFor unwraps the commit store, tolerating a nil manager.
func cacheStoreFor(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetCommitStore()
}

// checkCommitCacheHit attempts to retrieve and validate a cached commit list.
func checkCommitCacheHit(store contract.CacheStore, key string, ttl time.Duration) []schema.Commit {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion && time.Since(time.Unix(ts, 0)) <= ttl {
		var commits []schema.Commit
		if err := json.Unmarshal(data, &commits); err == nil {
			return commits // Cache hit
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// storeCacheEntry writes a value to the cache, ignoring failures. A broken
// cache should never fail the estimation run.
func storeCacheEntry(store contract.CacheStore, key string, value any) {
	if data, err := json.Marshal(value); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
}
