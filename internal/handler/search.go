package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rail/internal/domain"
	"rail/internal/redis"
	"rail/internal/service"
)

// SearchHandler handles itinerary search requests.
type SearchHandler struct {
	search   *service.SearchService
	cache    redis.SearchCacheInterface
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewSearchHandler creates a new SearchHandler. cache may be nil to disable
// result caching.
func NewSearchHandler(search *service.SearchService, cache redis.SearchCacheInterface, cacheTTL time.Duration, logger *zap.Logger) *SearchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchHandler{search: search, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// SearchQuery is the query string of GET /v1/trips/search.
type SearchQuery struct {
	From         string `form:"from" binding:"omitempty,max=64"`
	To           string `form:"to" binding:"omitempty,max=64"`
	DepartAfter  string `form:"depart_after" binding:"omitempty,hhmm"`
	ArriveBefore string `form:"arrive_before" binding:"omitempty,hhmm"`
	NextDay      *bool  `form:"next_day"`
	Days         string `form:"days" binding:"omitempty,weekdays"`
	Train        string `form:"train" binding:"omitempty,max=64"`
	MaxFirst     string `form:"max_first" binding:"omitempty,fare"`
	MaxSecond    string `form:"max_second" binding:"omitempty,fare"`
	Sort         string `form:"sort" binding:"omitempty,sortkey"`
	Format       string `form:"format" binding:"omitempty,oneof=json text"`
}

// Criteria converts the query into search criteria and a sort key.
func (q SearchQuery) Criteria() (domain.SearchCriteria, service.SortKey, error) {
	criteria := domain.SearchCriteria{
		DepartureCity:  strings.TrimSpace(q.From),
		ArrivalCity:    strings.TrimSpace(q.To),
		NextDay:        q.NextDay,
		PreferredTrain: strings.TrimSpace(q.Train),
	}
	if q.DepartAfter != "" {
		t, err := domain.ParseClock(q.DepartAfter)
		if err != nil {
			return criteria, "", err
		}
		criteria.EarliestDeparture = &t
	}
	if q.ArriveBefore != "" {
		t, err := domain.ParseClock(q.ArriveBefore)
		if err != nil {
			return criteria, "", err
		}
		criteria.LatestArrival = &t
	}
	if q.Days != "" {
		days, err := domain.ParseDaySet(q.Days)
		if err != nil {
			return criteria, "", err
		}
		criteria.TravelDays = days
	}
	var err error
	if criteria.MaxFirstClass, err = parseCap(q.MaxFirst); err != nil {
		return criteria, "", err
	}
	if criteria.MaxSecondClass, err = parseCap(q.MaxSecond); err != nil {
		return criteria, "", err
	}
	key, err := service.ParseSortKey(q.Sort)
	if err != nil {
		return criteria, "", err
	}
	return criteria, key, nil
}

func parseCap(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q", service.ErrInvalidFareCap, s)
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, domain.ErrNegativeFare
	}
	return domain.Cap(d), nil
}

// cacheKey renders criteria in a canonical form. The sort key is not part of
// the key; cached lists are kept in duration order and re-sorted on read.
func cacheKey(c domain.SearchCriteria) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "from=%s|to=%s|train=%s|days=%s",
		c.DepartureCity, c.ArrivalCity, c.PreferredTrain, c.TravelDays)
	if c.EarliestDeparture != nil {
		fmt.Fprintf(&sb, "|after=%s", *c.EarliestDeparture)
	}
	if c.LatestArrival != nil {
		fmt.Fprintf(&sb, "|before=%s", *c.LatestArrival)
	}
	if c.NextDay != nil {
		fmt.Fprintf(&sb, "|nextday=%t", *c.NextDay)
	}
	if c.MaxFirstClass.Valid {
		fmt.Fprintf(&sb, "|first=%s", c.MaxFirstClass.Decimal.String())
	}
	if c.MaxSecondClass.Valid {
		fmt.Fprintf(&sb, "|second=%s", c.MaxSecondClass.Decimal.String())
	}
	return redis.SearchKey(sb.String())
}

// SearchResponse is the HTTP response for an itinerary search.
type SearchResponse struct {
	Sort        string          `json:"sort"`
	Description string          `json:"sort_description"`
	Summary     SummaryResponse `json:"summary"`
	Trips       []TripResponse  `json:"trips"`
}

// Search handles GET /v1/trips/search
func (h *SearchHandler) Search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}
	criteria, sortKey, err := q.Criteria()
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	key := cacheKey(criteria)

	trips, hit := h.fromCache(c, key)
	if !hit {
		trips, err = h.search.Search(ctx, criteria)
		if err != nil {
			respondError(c, err)
			return
		}
		h.store(c, key, trips)
	}
	if hit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}

	service.SortTrips(trips, sortKey)

	if q.Format == "text" {
		var sb strings.Builder
		sb.WriteString(service.FormatSummary(trips, sortKey))
		for _, t := range trips {
			sb.WriteString("\n")
			sb.WriteString(service.FormatTrip(t))
		}
		c.String(http.StatusOK, sb.String())
		return
	}

	resp := SearchResponse{
		Sort:        string(sortKey),
		Description: sortKey.Description(),
		Summary:     toSummaryResponse(trips),
		Trips:       make([]TripResponse, len(trips)),
	}
	for i, t := range trips {
		resp.Trips[i] = toTripResponse(t)
	}
	respondJSON(c, http.StatusOK, resp)
}

// fromCache rebuilds a cached result list. Entries naming routes that are no
// longer in the catalog count as misses.
func (h *SearchHandler) fromCache(c *gin.Context, key string) ([]*domain.Trip, bool) {
	if h.cache == nil {
		return nil, false
	}
	cached, err := h.cache.GetSearch(c.Request.Context(), key)
	if err != nil {
		h.logger.Warn("search cache read failed", zap.Error(err))
		return nil, false
	}
	if cached == nil {
		return nil, false
	}
	trips := make([]*domain.Trip, 0, len(cached.TripIDs))
	for _, id := range cached.TripIDs {
		trip, err := h.search.ResolveTrip(id)
		if err != nil {
			h.logger.Debug("stale search cache entry", zap.String("trip_id", id), zap.Error(err))
			return nil, false
		}
		trips = append(trips, trip)
	}
	return trips, true
}

func (h *SearchHandler) store(c *gin.Context, key string, trips []*domain.Trip) {
	if h.cache == nil {
		return
	}
	ids := make([]string, len(trips))
	for i, t := range trips {
		ids[i] = t.ID()
	}
	err := h.cache.SetSearch(c.Request.Context(), key, &redis.CachedSearch{
		TripIDs:  ids,
		SortKey:  string(service.SortByDuration),
		CachedAt: time.Now(),
	}, h.cacheTTL)
	if err != nil {
		h.logger.Warn("search cache write failed", zap.Error(err))
	}
}
