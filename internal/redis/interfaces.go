package redis

import (
	"context"
	"time"
)

// SearchCacheInterface defines the interface for search result caching.
type SearchCacheInterface interface {
	GetSearch(ctx context.Context, key string) (*CachedSearch, error)
	SetSearch(ctx context.Context, key string, result *CachedSearch, ttl time.Duration) error
	InvalidateSearches(ctx context.Context) (int, error)
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name string) error
}

// IdempotencyStoreInterface defines the interface for idempotent replay.
type IdempotencyStoreInterface interface {
	Get(ctx context.Context, key string) (*CachedResponse, error)
	Set(ctx context.Context, key string, response *CachedResponse, ttl time.Duration) error
}

// Ensure concrete types implement interfaces.
var (
	_ SearchCacheInterface      = (*CacheStore)(nil)
	_ LockStoreInterface        = (*LockStore)(nil)
	_ IdempotencyStoreInterface = (*IdempotencyStore)(nil)
)
