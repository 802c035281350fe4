package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalRedis "rail/internal/redis"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCacheStore_SearchRoundTrip(t *testing.T) {
	mr, client := newTestClient(t)
	store := internalRedis.NewCacheStore(client)
	ctx := context.Background()

	key := internalRedis.SearchKey("from=Paris&to=Berlin")
	assert.Equal(t, key, internalRedis.SearchKey("from=Paris&to=Berlin"))
	assert.NotEqual(t, key, internalRedis.SearchKey("from=Paris&to=Rome"))

	miss, err := store.GetSearch(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, miss)

	in := &internalRedis.CachedSearch{TripIDs: []string{"PC1+CB1", "PC1+CB2"}, SortKey: "DURATION", CachedAt: time.Now().UTC()}
	require.NoError(t, store.SetSearch(ctx, key, in, time.Minute))

	out, err := store.GetSearch(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.TripIDs, out.TripIDs)
	assert.Equal(t, "DURATION", out.SortKey)

	mr.FastForward(2 * time.Minute)
	expired, err := store.GetSearch(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestCacheStore_InvalidateSearches(t *testing.T) {
	mr, client := newTestClient(t)
	store := internalRedis.NewCacheStore(client)
	ctx := context.Background()

	for _, q := range []string{"a", "b", "c"} {
		require.NoError(t, store.SetSearch(ctx, internalRedis.SearchKey(q), &internalRedis.CachedSearch{}, 0))
	}
	require.NoError(t, mr.Set("unrelated", "keep"))

	n, err := store.InvalidateSearches(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, mr.Exists("unrelated"))
}

func TestLockStore(t *testing.T) {
	mr, client := newTestClient(t)
	locks := internalRedis.NewLockStore(client)
	ctx := context.Background()

	ok, err := locks.AcquireLock(ctx, "catalog-import", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = locks.AcquireLock(ctx, "catalog-import", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "lock is held")

	require.NoError(t, locks.ReleaseLock(ctx, "catalog-import"))
	ok, err = locks.AcquireLock(ctx, "catalog-import", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)
	ok, err = locks.AcquireLock(ctx, "catalog-import", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock can be taken")
}

func TestIdempotencyStore(t *testing.T) {
	_, client := newTestClient(t)
	store := internalRedis.NewIdempotencyStore(client)
	ctx := context.Background()

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, got)

	resp := &internalRedis.CachedResponse{StatusCode: 201, Body: []byte(`{"id":"b1"}`)}
	require.NoError(t, store.Set(ctx, "k1", resp, time.Hour))

	got, err = store.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.StatusCode)
	assert.JSONEq(t, `{"id":"b1"}`, string(got.Body))
}
