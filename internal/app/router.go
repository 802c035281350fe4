package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"rail/internal/handler"
	"rail/internal/middleware"
	"rail/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	SearchHandler  *handler.SearchHandler
	CatalogHandler *handler.CatalogHandler
	BookingHandler *handler.BookingHandler
	Idempotency    redis.IdempotencyStoreInterface
	NewRelicApp    *newrelic.Application
	Logger         *zap.Logger
	CORSOrigins    []string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	handler.RegisterValidators()

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORSMiddleware(deps.CORSOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.Idempotency, logger))

	// Health check.
	router.GET("/health", deps.CatalogHandler.Health)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Catalog routes.
		v1.GET("/cities", deps.CatalogHandler.Cities)
		v1.GET("/connections", deps.CatalogHandler.Connections)

		// Search routes.
		trips := v1.Group("/trips")
		{
			trips.GET("/search", deps.SearchHandler.Search)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
		}

		v1.GET("/travellers/:id/tickets", deps.BookingHandler.TravellerTickets)
	}

	return router
}
