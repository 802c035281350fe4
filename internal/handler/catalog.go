package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rail/internal/domain"
	"rail/internal/service"
)

// CatalogHandler serves the schedule catalog.
type CatalogHandler struct {
	search *service.SearchService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(search *service.SearchService) *CatalogHandler {
	return &CatalogHandler{search: search}
}

// CitiesResponse lists the served cities.
type CitiesResponse struct {
	Cities     []string `json:"cities"`
	TrainTypes []string `json:"train_types"`
}

// ConnectionsResponse lists catalog connections.
type ConnectionsResponse struct {
	Total       int           `json:"total"`
	Connections []LegResponse `json:"connections"`
}

// Cities handles GET /v1/cities
func (h *CatalogHandler) Cities(c *gin.Context) {
	cat := h.search.Catalog()
	if cat == nil {
		respondError(c, service.ErrCatalogNotLoaded)
		return
	}
	respondJSON(c, http.StatusOK, CitiesResponse{Cities: cat.Cities(), TrainTypes: cat.TrainTypes()})
}

// Connections handles GET /v1/connections. Optional from, to and train query
// parameters narrow the list.
func (h *CatalogHandler) Connections(c *gin.Context) {
	cat := h.search.Catalog()
	if cat == nil {
		respondError(c, service.ErrCatalogNotLoaded)
		return
	}

	conns := cat.Match(domain.SearchCriteria{
		DepartureCity:  strings.TrimSpace(c.Query("from")),
		ArrivalCity:    strings.TrimSpace(c.Query("to")),
		PreferredTrain: strings.TrimSpace(c.Query("train")),
	})
	resp := ConnectionsResponse{Total: len(conns), Connections: make([]LegResponse, len(conns))}
	for i, conn := range conns {
		resp.Connections[i] = toLegResponse(conn)
	}
	respondJSON(c, http.StatusOK, resp)
}

// Health handles GET /health. The service is degraded until a catalog is
// installed.
func (h *CatalogHandler) Health(c *gin.Context) {
	cat := h.search.Catalog()
	if cat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "catalog_loaded": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "catalog_loaded": true, "connections": cat.Len()})
}
