package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"rail/internal/domain"
	"rail/internal/repository"
)

// MaxTravellersPerBooking caps the party size of one booking.
const MaxTravellersPerBooking = 9

// BookingService books tickets on itineraries found by the search.
type BookingService struct {
	store         repository.Store
	search        *SearchService
	notifications *NotificationService
	logger        *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	store repository.Store,
	search *SearchService,
	notifications *NotificationService,
	logger *zap.Logger,
) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		store:         store,
		search:        search,
		notifications: notifications,
		logger:        logger,
	}
}

// CreateBookingRequest contains the parameters for booking a trip.
type CreateBookingRequest struct {
	TripID     string
	Class      domain.ServiceClass
	Travellers []string
}

// BookingResult is a booking together with the itinerary it covers. Trip is
// nil when the booked routes are no longer in the catalog.
type BookingResult struct {
	Booking  *domain.Booking
	// RouteIDs are the stored legs, in order. They survive catalog reloads
	// that drop a route; Trip is nil in that case.
	RouteIDs []string
	Trip     *domain.Trip
}

// CreateBooking issues one ticket per traveller on the requested trip. The
// trip, travellers, booking and tickets are written in one transaction.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error) {
	defer newrelic.FromContext(ctx).StartSegment("service.CreateBooking").End()

	names, err := validateBookingRequest(req)
	if err != nil {
		return nil, err
	}

	trip, err := s.search.ResolveTrip(req.TripID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:        uuid.New().String(),
		TripID:    trip.ID(),
		Class:     req.Class,
		CreatedAt: now,
	}
	for _, name := range names {
		traveller := domain.Traveller{ID: uuid.New().String(), Name: name, CreatedAt: now}
		ticket := domain.NewTicket(uuid.New().String(), trip, traveller, req.Class)
		ticket.BookingID = booking.ID
		ticket.CreatedAt = now
		booking.Travellers = append(booking.Travellers, traveller)
		booking.Tickets = append(booking.Tickets, ticket)
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Trips().Save(ctx, trip); err != nil {
			return err
		}
		for i := range booking.Travellers {
			if err := tx.Travellers().Create(ctx, &booking.Travellers[i]); err != nil {
				return err
			}
		}
		return tx.Bookings().Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("trip_id", booking.TripID),
		zap.String("class", booking.Class.String()),
		zap.Int("tickets", len(booking.Tickets)),
		zap.String("total", booking.TotalCost().StringFixed(2)))

	if s.notifications != nil {
		s.notifications.NotifyBookingConfirmed(ctx, booking, trip)
	}

	return &BookingResult{Booking: booking, RouteIDs: trip.RouteIDs(), Trip: trip}, nil
}

// GetBooking retrieves a booking and rebuilds its itinerary.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*BookingResult, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	routeIDs, err := s.store.Trips().RouteIDs(ctx, booking.TripID)
	if err != nil {
		return nil, fmt.Errorf("booked trip %s: %w", booking.TripID, err)
	}

	result := &BookingResult{Booking: booking, RouteIDs: routeIDs}
	trip, err := s.search.ResolveTrip(booking.TripID)
	if err != nil {
		s.logger.Warn("booked trip not in current catalog",
			zap.String("booking_id", booking.ID),
			zap.String("trip_id", booking.TripID),
			zap.Error(err))
		return result, nil
	}
	result.Trip = trip
	return result, nil
}

// TravellerTickets returns a traveller and their tickets, newest first.
func (s *BookingService) TravellerTickets(ctx context.Context, travellerID string) (*domain.Traveller, []domain.Ticket, error) {
	if strings.TrimSpace(travellerID) == "" {
		return nil, nil, ErrInvalidTravellerID
	}

	traveller, err := s.store.Travellers().GetByID(ctx, travellerID)
	if err != nil {
		return nil, nil, err
	}
	tickets, err := s.store.Bookings().TicketsByTraveller(ctx, travellerID)
	if err != nil {
		return nil, nil, err
	}
	return traveller, tickets, nil
}

func validateBookingRequest(req CreateBookingRequest) ([]string, error) {
	if strings.TrimSpace(req.TripID) == "" {
		return nil, ErrInvalidTripID
	}
	if !req.Class.Valid() {
		return nil, ErrInvalidServiceClass
	}
	if len(req.Travellers) == 0 {
		return nil, ErrNoTravellers
	}
	if len(req.Travellers) > MaxTravellersPerBooking {
		return nil, ErrTooManyTravellers
	}
	names := make([]string, len(req.Travellers))
	for i, n := range req.Travellers {
		names[i] = strings.TrimSpace(n)
		if names[i] == "" {
			return nil, ErrInvalidTravellerName
		}
	}
	return names, nil
}
