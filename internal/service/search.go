package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"rail/internal/catalog"
	"rail/internal/domain"
)

// Leg bounds for itinerary search.
const (
	DefaultMaxLegs = 3
	MaxSearchLegs  = 3
)

// SearchService finds itineraries over the installed catalog. The catalog
// can be swapped at runtime; in-flight searches keep the snapshot they
// started with.
type SearchService struct {
	catalog atomic.Pointer[catalog.Catalog]
	maxLegs int
	logger  *zap.Logger
}

// NewSearchService creates a SearchService. cat may be nil until SetCatalog
// is called. maxLegs outside 1..MaxSearchLegs falls back to DefaultMaxLegs.
func NewSearchService(cat *catalog.Catalog, maxLegs int, logger *zap.Logger) *SearchService {
	if maxLegs < 1 || maxLegs > MaxSearchLegs {
		maxLegs = DefaultMaxLegs
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SearchService{maxLegs: maxLegs, logger: logger}
	if cat != nil {
		s.catalog.Store(cat)
	}
	return s
}

// SetCatalog installs cat for subsequent searches.
func (s *SearchService) SetCatalog(cat *catalog.Catalog) {
	s.catalog.Store(cat)
}

// Catalog returns the installed catalog, or nil.
func (s *SearchService) Catalog() *catalog.Catalog {
	return s.catalog.Load()
}

// MaxLegs returns the longest itinerary the service will build.
func (s *SearchService) MaxLegs() int { return s.maxLegs }

// ResolveTrip rebuilds the trip identified by tripID from the installed
// catalog.
func (s *SearchService) ResolveTrip(tripID string) (*domain.Trip, error) {
	cat := s.catalog.Load()
	if cat == nil {
		return nil, ErrCatalogNotLoaded
	}
	ids, err := SplitTripID(tripID)
	if err != nil {
		return nil, err
	}
	trip, err := cat.Trip(ids...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTripID, err)
	}
	return trip, nil
}

// SplitTripID breaks a trip ID into its route IDs.
func SplitTripID(tripID string) ([]string, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	ids := strings.Split(tripID, domain.TripIDSeparator)
	if len(ids) > MaxSearchLegs {
		return nil, ErrInvalidTripID
	}
	for _, id := range ids {
		if id == "" {
			return nil, ErrInvalidTripID
		}
	}
	return ids, nil
}

// Search returns every itinerary satisfying criteria, ordered by duration.
// Direct connections win outright: when any exist, no transfer itinerary is
// built. Transfer search needs both endpoints. An empty result is not an
// error.
func (s *SearchService) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Trip, error) {
	defer newrelic.FromContext(ctx).StartSegment("service.Search").End()

	cat := s.catalog.Load()
	if cat == nil {
		return nil, ErrCatalogNotLoaded
	}

	direct := cat.Match(criteria)
	if len(direct) > 0 {
		trips := make([]*domain.Trip, 0, len(direct))
		for _, c := range direct {
			trip, err := domain.NewTrip(c)
			if err != nil {
				return nil, err
			}
			trips = append(trips, trip)
		}
		SortTrips(trips, SortByDuration)
		s.logger.Debug("direct connections found",
			zap.String("from", criteria.DepartureCity),
			zap.String("to", criteria.ArrivalCity),
			zap.Int("count", len(trips)))
		return trips, nil
	}

	if !criteria.HasEndpoints() || s.maxLegs < 2 {
		return []*domain.Trip{}, nil
	}

	f := &finder{cat: cat, criteria: criteria, maxLegs: s.maxLegs}
	first := cat.Match(domain.SearchCriteria{
		DepartureCity:     criteria.DepartureCity,
		EarliestDeparture: criteria.EarliestDeparture,
		PreferredTrain:    criteria.PreferredTrain,
		TravelDays:        criteria.TravelDays,
		MaxFirstClass:     criteria.MaxFirstClass,
		MaxSecondClass:    criteria.MaxSecondClass,
	})
	for _, leg := range first {
		if leg.Arrival.City == leg.Departure.City || leg.Arrival.City.Name == criteria.ArrivalCity {
			continue
		}
		if err := f.extend([]*domain.Connection{leg}); err != nil {
			return nil, err
		}
	}

	SortTrips(f.trips, SortByDuration)
	s.logger.Debug("transfer search finished",
		zap.String("from", criteria.DepartureCity),
		zap.String("to", criteria.ArrivalCity),
		zap.Int("first_legs", len(first)),
		zap.Int("count", len(f.trips)))
	return f.trips, nil
}

// finder accumulates multi-leg itineraries for one query.
type finder struct {
	cat      *catalog.Catalog
	criteria domain.SearchCriteria
	maxLegs  int
	trips    []*domain.Trip
}

func (f *finder) extend(chain []*domain.Connection) error {
	last := chain[len(chain)-1]
	nextCriteria := domain.SearchCriteria{
		DepartureCity:  last.Arrival.City.Name,
		PreferredTrain: f.criteria.PreferredTrain,
		TravelDays:     ShiftDaysForNextLeg(last.Days(), last.Arrival.NextDay),
		MaxFirstClass:  f.criteria.MaxFirstClass,
		MaxSecondClass: f.criteria.MaxSecondClass,
	}
	final := len(chain)+1 == f.maxLegs
	if final {
		nextCriteria.ArrivalCity = f.criteria.ArrivalCity
	}

	for _, next := range f.cat.Match(nextCriteria) {
		if !LegsCompatible(last, next) || visits(chain, next.Arrival.City) {
			continue
		}

		if next.Arrival.City.Name == f.criteria.ArrivalCity {
			if f.criteria.LatestArrival != nil && next.Arrival.Time > *f.criteria.LatestArrival {
				continue
			}
			trip, err := domain.NewTrip(append(chain[:len(chain):len(chain)], next)...)
			if err != nil {
				return err
			}
			f.trips = append(f.trips, trip)
			continue
		}

		if !final {
			if err := f.extend(append(chain[:len(chain):len(chain)], next)); err != nil {
				return err
			}
		}
	}
	return nil
}

func visits(chain []*domain.Connection, city domain.City) bool {
	if chain[0].Departure.City == city {
		return true
	}
	for _, c := range chain {
		if c.Arrival.City == city {
			return true
		}
	}
	return false
}
