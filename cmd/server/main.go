package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"rail/internal/app"
	"rail/internal/config"
	"rail/internal/handler"
	"rail/internal/logger"
	internalRedis "rail/internal/redis"
	"rail/internal/repository/postgres"
	"rail/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Warn("failed to initialize New Relic", zap.Error(err))
		} else {
			log.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	log.Info("connected to PostgreSQL", zap.String("host", cfg.Database.Host))

	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// Wire dependencies.
	server, loader := wireServer(db, redisClient, nrApp, cfg, log)

	if _, err := loader.Load(ctx); err != nil {
		if !errors.Is(err, service.ErrCatalogNotLoaded) {
			return fmt.Errorf("load catalog: %w", err)
		}
		log.Warn("starting without a schedule catalog", zap.String("csv", cfg.Catalog.CSVPath))
	}

	// Start server in goroutine.
	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Info("server exited")
	return nil
}

// wireServer wires all dependencies and returns the HTTP server together
// with the catalog loader that feeds it.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log *zap.Logger) (*http.Server, *service.CatalogLoader) {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)
	idempotencyStore := internalRedis.NewIdempotencyStore(redisClient)

	// Initialize repositories.
	store := postgres.NewStore(db)

	// Initialize services.
	notificationService := service.NewNotificationService(log.Named("notify"))
	searchService := service.NewSearchService(nil, cfg.Search.MaxLegs, log.Named("search"))
	bookingService := service.NewBookingService(store, searchService, notificationService, log.Named("booking"))
	loader := service.NewCatalogLoader(store, lockStore, cacheStore, searchService, notificationService, cfg.Catalog.CSVPath, log.Named("catalog"))

	// Initialize handlers.
	var searchCache internalRedis.SearchCacheInterface
	if cfg.Search.CacheEnabled {
		searchCache = cacheStore
	}
	searchHandler := handler.NewSearchHandler(searchService, searchCache, cfg.Search.CacheTTL, log.Named("http"))
	catalogHandler := handler.NewCatalogHandler(searchService)
	bookingHandler := handler.NewBookingHandler(bookingService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		SearchHandler:  searchHandler,
		CatalogHandler: catalogHandler,
		BookingHandler: bookingHandler,
		Idempotency:    idempotencyStore,
		NewRelicApp:    nrApp,
		Logger:         log,
		CORSOrigins:    cfg.CORS.AllowedOrigins,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, loader
}
