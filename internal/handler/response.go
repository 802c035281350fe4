package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rail/internal/catalog"
	"rail/internal/domain"
	"rail/internal/repository"
	"rail/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidSortKey),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidTravellerID),
		errors.Is(err, service.ErrNoTravellers),
		errors.Is(err, service.ErrTooManyTravellers),
		errors.Is(err, service.ErrInvalidTravellerName),
		errors.Is(err, service.ErrInvalidServiceClass),
		errors.Is(err, service.ErrInvalidFareCap),
		errors.Is(err, catalog.ErrUnknownRoute),
		errors.Is(err, domain.ErrInvalidClock),
		errors.Is(err, domain.ErrUnknownWeekday),
		errors.Is(err, domain.ErrUnknownServiceClass),
		errors.Is(err, domain.ErrNegativeFare):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrImportInProgress):
		return http.StatusConflict

	// Service unavailable
	case errors.Is(err, service.ErrCatalogNotLoaded):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
