package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rail/internal/domain"
	"rail/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for booking a trip.
type CreateBookingRequest struct {
	TripID     string   `json:"trip_id" binding:"required"`
	Class      string   `json:"class" binding:"required,serviceclass"`
	Travellers []string `json:"travellers" binding:"required,min=1,max=9,dive,required,max=128"`
}

// TicketResponse is a ticket in an API response.
type TicketResponse struct {
	ID          string `json:"id"`
	BookingID   string `json:"booking_id"`
	TripID      string `json:"trip_id"`
	TravellerID string `json:"traveller_id"`
	Traveller   string `json:"traveller,omitempty"`
	Class       string `json:"class"`
	Cost        string `json:"cost"`
	CreatedAt   string `json:"created_at"`
}

// BookingResponse is the HTTP response for a booking.
type BookingResponse struct {
	ID        string           `json:"id"`
	TripID    string           `json:"trip_id"`
	RouteIDs  []string         `json:"route_ids"`
	Class     string           `json:"class"`
	Total     string           `json:"total"`
	CreatedAt string           `json:"created_at"`
	Tickets   []TicketResponse `json:"tickets"`
	Trip      *TripResponse    `json:"trip,omitempty"`
}

// TravellerTicketsResponse lists a traveller's tickets.
type TravellerTicketsResponse struct {
	TravellerID string           `json:"traveller_id"`
	Name        string           `json:"name"`
	Tickets     []TicketResponse `json:"tickets"`
}

func toTicketResponse(t domain.Ticket, name string) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		BookingID:   t.BookingID,
		TripID:      t.TripID,
		TravellerID: t.TravellerID,
		Traveller:   name,
		Class:       t.Class.String(),
		Cost:        t.Cost.StringFixed(2),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func toBookingResponse(res *service.BookingResult) BookingResponse {
	b := res.Booking
	names := make(map[string]string, len(b.Travellers))
	for _, tr := range b.Travellers {
		names[tr.ID] = tr.Name
	}
	resp := BookingResponse{
		ID:        b.ID,
		TripID:    b.TripID,
		RouteIDs:  res.RouteIDs,
		Class:     b.Class.String(),
		Total:     b.TotalCost().StringFixed(2),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		Tickets:   make([]TicketResponse, len(b.Tickets)),
	}
	for i, t := range b.Tickets {
		resp.Tickets[i] = toTicketResponse(t, names[t.TravellerID])
	}
	if res.Trip != nil {
		trip := toTripResponse(res.Trip)
		resp.Trip = &trip
	}
	return resp
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	class, err := domain.ParseServiceClass(req.Class)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		TripID:     req.TripID,
		Class:      class,
		Travellers: req.Travellers,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(result))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	result, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(result))
}

// TravellerTickets handles GET /v1/travellers/:id/tickets
func (h *BookingHandler) TravellerTickets(c *gin.Context) {
	traveller, tickets, err := h.bookingService.TravellerTickets(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := TravellerTicketsResponse{
		TravellerID: traveller.ID,
		Name:        traveller.Name,
		Tickets:     make([]TicketResponse, len(tickets)),
	}
	for i, t := range tickets {
		resp.Tickets[i] = toTicketResponse(t, traveller.Name)
	}
	respondJSON(c, http.StatusOK, resp)
}
