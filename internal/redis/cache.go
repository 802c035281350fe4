package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore caches search results in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// DefaultSearchCacheTTL bounds how long a result list is served from cache.
const DefaultSearchCacheTTL = 5 * time.Minute

const searchCachePrefix = "cache:search:"

// CachedSearch is a cached result list. Trips are stored by ID and rebuilt
// from the catalog on read.
type CachedSearch struct {
	TripIDs  []string  `json:"trip_ids"`
	SortKey  string    `json:"sort_key"`
	CachedAt time.Time `json:"cached_at"`
}

// SearchKey derives a cache key from a normalized query string.
func SearchKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return searchCachePrefix + hex.EncodeToString(sum[:16])
}

// GetSearch retrieves a cached search. A miss returns nil, nil.
func (s *CacheStore) GetSearch(ctx context.Context, key string) (*CachedSearch, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var cached CachedSearch
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// SetSearch stores a search result under key.
func (s *CacheStore) SetSearch(ctx context.Context, key string, result *CachedSearch, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultSearchCacheTTL
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// InvalidateSearches drops every cached search, e.g. after a catalog reload.
// It returns the number of keys removed.
func (s *CacheStore) InvalidateSearches(ctx context.Context) (int, error) {
	var removed int
	iter := s.client.Scan(ctx, 0, searchCachePrefix+"*", 100).Iterator()

	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.client.Del(ctx, batch...).Result()
		removed += int(n)
		batch = batch[:0]
		return err
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	return removed, flush()
}
