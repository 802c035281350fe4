package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rail/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationTicketIssued     NotificationType = "TICKET_ISSUED"
	NotificationCatalogReloaded  NotificationType = "CATALOG_RELOADED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string // traveller ID, empty for operator notices
	Title       string
	Body        string
	Data        map[string]any
	CreatedAt   time.Time
}

// NotificationService delivers notifications as structured log lines. A sink
// registered with OnSend observes each one.
type NotificationService struct {
	logger *zap.Logger
	sink   func(Notification)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger}
}

// OnSend registers fn to observe every delivered notification.
func (s *NotificationService) OnSend(fn func(Notification)) {
	s.sink = fn
}

// NotifyBookingConfirmed sends one ticket notice per traveller of booking.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking, trip *domain.Trip) {
	for _, t := range booking.Tickets {
		s.send(ctx, Notification{
			Type:        NotificationTicketIssued,
			RecipientID: t.TravellerID,
			Title:       "Ticket issued",
			Data: map[string]any{
				"booking_id": booking.ID,
				"ticket_id":  t.ID,
				"trip_id":    t.TripID,
				"class":      t.Class.String(),
				"cost":       t.Cost.StringFixed(2),
			},
			CreatedAt: time.Now(),
		})
	}
	s.send(ctx, Notification{
		Type:  NotificationBookingConfirmed,
		Title: "Booking confirmed",
		Body:  FormatBooking(booking, trip),
		Data: map[string]any{
			"booking_id":  booking.ID,
			"trip_id":     booking.TripID,
			"origin":      trip.Origin().Name,
			"destination": trip.Destination().Name,
			"tickets":     len(booking.Tickets),
			"total":       booking.TotalCost().StringFixed(2),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyCatalogReloaded announces that a new schedule is being served.
func (s *NotificationService) NotifyCatalogReloaded(ctx context.Context, connections, invalidated int) {
	s.send(ctx, Notification{
		Type:  NotificationCatalogReloaded,
		Title: "Schedule catalog reloaded",
		Data: map[string]any{
			"connections":         connections,
			"invalidated_entries": invalidated,
		},
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(_ context.Context, n Notification) {
	s.logger.Info("notification",
		zap.String("type", string(n.Type)),
		zap.String("recipient", n.RecipientID),
		zap.String("title", n.Title),
		zap.Any("data", n.Data))
	if s.sink != nil {
		s.sink(n)
	}
}
