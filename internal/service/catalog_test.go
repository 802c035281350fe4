package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail/internal/domain"
	"rail/internal/redis"
	"rail/internal/service"
	"rail/internal/tests"
)

const seedCSV = `Route ID,Departure City,Arrival City,Departure Time,Arrival Time,Train Type,Days of Operation,First Class ticket rate (in euro),Second Class ticket rate (in euro)
S1,Paris,Cologne,10:00,14:00,Thalys,Daily,89.00,49.00
S2,Cologne,Berlin,14:30,19:00,ICE,Daily,99.50,59.50
`

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "connections.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCatalogLoader_SeedsEmptyStore(t *testing.T) {
	store := tests.NewMockStore()
	locks := tests.NewMockLockStore()
	cache := tests.NewMockSearchCache()
	require.NoError(t, cache.SetSearch(context.Background(), redis.SearchKey("stale"), &redis.CachedSearch{}, 0))
	search := service.NewSearchService(nil, 3, nil)

	loader := service.NewCatalogLoader(store, locks, cache, search, nil, writeSeed(t, seedCSV), nil)
	cat, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, cat.Len())
	assert.Same(t, cat, search.Catalog())
	assert.Equal(t, 2, mustCount(t, store))
	assert.False(t, locks.IsLocked("catalog-import"))
	assert.Zero(t, cache.Len())

	trips, err := search.Search(context.Background(), domain.SearchCriteria{DepartureCity: "Paris", ArrivalCity: "Berlin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"S1+S2"}, tripIDs(trips))
}

func TestCatalogLoader_PrefersStoredConnections(t *testing.T) {
	store := tests.NewMockStore()
	store.AddConnections(tests.Europe(t).Connections()...)
	search := service.NewSearchService(nil, 3, nil)

	loader := service.NewCatalogLoader(store, nil, nil, search, nil, writeSeed(t, seedCSV), nil)
	cat, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, cat.Len())
	_, ok := cat.Route("S1")
	assert.False(t, ok)
}

func TestCatalogLoader_ImportMergesByRoute(t *testing.T) {
	store := tests.NewMockStore()
	store.AddConnections(tests.Europe(t).Connections()...)
	search := service.NewSearchService(nil, 3, nil)
	loader := service.NewCatalogLoader(store, tests.NewMockLockStore(), nil, search, nil, "", nil)

	res, err := loader.Import(context.Background(), writeSeed(t, seedCSV+"PC1,Paris,Cologne,11:00,15:00,Thalys,Daily,79.00,39.00\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 8, res.Total)

	pc1, ok := search.Catalog().Route("PC1")
	require.True(t, ok)
	assert.Equal(t, domain.MustClock(11, 0), pc1.Departure.Time)
}

func TestCatalogLoader_ImportLocked(t *testing.T) {
	locks := tests.NewMockLockStore()
	locks.ForceAcquireFailure = true
	loader := service.NewCatalogLoader(tests.NewMockStore(), locks, nil, service.NewSearchService(nil, 3, nil), nil, "", nil)

	_, err := loader.Import(context.Background(), writeSeed(t, seedCSV))
	assert.ErrorIs(t, err, service.ErrImportInProgress)
}

func TestCatalogLoader_MalformedSeedLeavesStoreEmpty(t *testing.T) {
	store := tests.NewMockStore()
	search := service.NewSearchService(nil, 3, nil)
	loader := service.NewCatalogLoader(store, nil, nil, search, nil, writeSeed(t, seedCSV+"S3,Berlin,Prague,25:00,10:00,EC,Daily,10,5\n"), nil)

	_, err := loader.Load(context.Background())
	assert.Error(t, err)
	assert.Zero(t, mustCount(t, store))
	assert.Nil(t, search.Catalog())
}

func TestCatalogLoader_NoSource(t *testing.T) {
	loader := service.NewCatalogLoader(tests.NewMockStore(), nil, nil, service.NewSearchService(nil, 3, nil), nil, "", nil)
	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, service.ErrCatalogNotLoaded)
}

func TestCatalogLoader_OfflineFromCSV(t *testing.T) {
	search := service.NewSearchService(nil, 3, nil)
	loader := service.NewCatalogLoader(nil, nil, nil, search, nil, writeSeed(t, seedCSV), nil)

	cat, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Berlin", "Cologne", "Paris"}, cat.Cities())
}

func mustCount(t *testing.T, store *tests.MockStore) int {
	t.Helper()
	n, err := store.Connections().Count(context.Background())
	require.NoError(t, err)
	return n
}
