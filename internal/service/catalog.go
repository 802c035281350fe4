package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"rail/internal/catalog"
	"rail/internal/domain"
	"rail/internal/ingest"
	"rail/internal/redis"
	"rail/internal/repository"
)

const (
	importLockName = "catalog-import"
	importLockTTL  = 2 * time.Minute
)

// CatalogLoader builds the schedule catalog from the store or a CSV seed and
// installs it into the search service.
type CatalogLoader struct {
	store         repository.Store
	locks         redis.LockStoreInterface
	cache         redis.SearchCacheInterface
	search        *SearchService
	notifications *NotificationService
	csvPath       string
	logger        *zap.Logger
}

// NewCatalogLoader creates a CatalogLoader. store, locks, cache and
// notifications may be nil; without a store the CSV seed is the only source.
func NewCatalogLoader(
	store repository.Store,
	locks redis.LockStoreInterface,
	cache redis.SearchCacheInterface,
	search *SearchService,
	notifications *NotificationService,
	csvPath string,
	logger *zap.Logger,
) *CatalogLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogLoader{
		store:         store,
		locks:         locks,
		cache:         cache,
		search:        search,
		notifications: notifications,
		csvPath:       csvPath,
		logger:        logger,
	}
}

// ImportResult reports the outcome of an import.
type ImportResult struct {
	Imported    int
	Total       int
	Invalidated int
}

// Load installs the stored catalog. An empty store is seeded from the CSV
// path first.
func (l *CatalogLoader) Load(ctx context.Context) (*catalog.Catalog, error) {
	defer newrelic.FromContext(ctx).StartSegment("service.CatalogLoader.Load").End()

	if l.store == nil {
		if l.csvPath == "" {
			return nil, ErrCatalogNotLoaded
		}
		conns, err := ingest.LoadFile(l.csvPath, domain.NewRegistry())
		if err != nil {
			return nil, err
		}
		return l.install(ctx, conns)
	}

	count, err := l.store.Connections().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count connections: %w", err)
	}
	if count == 0 {
		if l.csvPath == "" {
			return nil, ErrCatalogNotLoaded
		}
		l.logger.Info("connection store empty, seeding from csv", zap.String("path", l.csvPath))
		if _, err := l.Import(ctx, l.csvPath); err != nil {
			if !errors.Is(err, ErrImportInProgress) {
				return nil, err
			}
			// Another instance is seeding; serve whatever it has committed.
			l.logger.Warn("catalog seed running elsewhere")
		}
		if cat := l.search.Catalog(); cat != nil {
			return cat, nil
		}
	}

	return l.Reload(ctx)
}

// Reload rebuilds the catalog from the store and installs it.
func (l *CatalogLoader) Reload(ctx context.Context) (*catalog.Catalog, error) {
	if l.store == nil {
		return l.Load(ctx)
	}
	conns, err := l.store.Connections().LoadAll(ctx, domain.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}
	if len(conns) == 0 {
		return nil, ErrCatalogNotLoaded
	}
	return l.install(ctx, conns)
}

// Import reads the CSV file at path, upserts its connections into the store
// under a cluster-wide lock, and installs the resulting catalog.
func (l *CatalogLoader) Import(ctx context.Context, path string) (*ImportResult, error) {
	defer newrelic.FromContext(ctx).StartSegment("service.CatalogLoader.Import").End()

	if l.locks != nil {
		locked, err := l.locks.AcquireLock(ctx, importLockName, importLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrImportInProgress
		}
		defer func() {
			if err := l.locks.ReleaseLock(ctx, importLockName); err != nil {
				l.logger.Warn("release import lock", zap.Error(err))
			}
		}()
	}

	conns, err := ingest.LoadFile(path, domain.NewRegistry())
	if err != nil {
		return nil, err
	}
	result := &ImportResult{Imported: len(conns)}

	if l.store == nil {
		if _, err := l.install(ctx, conns); err != nil {
			return nil, err
		}
		result.Total = len(conns)
		return result, nil
	}

	err = l.store.WithinTx(ctx, func(tx repository.Store) error {
		return tx.Connections().SaveAll(ctx, conns)
	})
	if err != nil {
		return nil, fmt.Errorf("save connections: %w", err)
	}

	cat, err := l.Reload(ctx)
	if err != nil {
		return nil, err
	}
	result.Total = cat.Len()

	if l.cache != nil {
		n, err := l.cache.InvalidateSearches(ctx)
		if err != nil {
			l.logger.Warn("invalidate search cache", zap.Error(err))
		}
		result.Invalidated = n
	}
	if l.notifications != nil {
		l.notifications.NotifyCatalogReloaded(ctx, result.Total, result.Invalidated)
	}

	l.logger.Info("catalog imported",
		zap.String("path", path),
		zap.Int("imported", result.Imported),
		zap.Int("total", result.Total))
	return result, nil
}

func (l *CatalogLoader) install(_ context.Context, conns []*domain.Connection) (*catalog.Catalog, error) {
	cat, err := catalog.New(conns)
	if err != nil {
		return nil, err
	}
	l.search.SetCatalog(cat)
	l.logger.Info("catalog installed",
		zap.Int("connections", cat.Len()),
		zap.Int("cities", len(cat.Cities())))
	return cat, nil
}
