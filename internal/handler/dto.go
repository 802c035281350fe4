package handler

import (
	"time"

	"rail/internal/domain"
	"rail/internal/service"
)

// LegResponse is one connection in an API response.
type LegResponse struct {
	RouteID         string   `json:"route_id"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	Departure       string   `json:"departure"`
	Arrival         string   `json:"arrival"`
	ArrivalNextDay  bool     `json:"arrival_next_day"`
	Train           string   `json:"train"`
	Days            []string `json:"days"`
	OperatingDays   string   `json:"operating_days"`
	Duration        string   `json:"duration"`
	FirstClassFare  string   `json:"first_class_fare"`
	SecondClassFare string   `json:"second_class_fare"`
}

// TripResponse is an itinerary in an API response.
type TripResponse struct {
	ID               string        `json:"id"`
	Origin           string        `json:"origin"`
	Destination      string        `json:"destination"`
	Departure        string        `json:"departure"`
	Arrival          string        `json:"arrival"`
	ArrivalDayOffset int           `json:"arrival_day_offset"`
	Duration         string        `json:"duration"`
	DurationMinutes  int           `json:"duration_minutes"`
	Transfers        int           `json:"transfers"`
	TransferTimes    []string      `json:"transfer_times"`
	FirstClassFare   string        `json:"first_class_fare"`
	SecondClassFare  string        `json:"second_class_fare"`
	Legs             []LegResponse `json:"legs"`
}

// SummaryResponse describes a result list.
type SummaryResponse struct {
	Total          int    `json:"total"`
	Direct         int    `json:"direct"`
	WithTransfers  int    `json:"with_transfers"`
	Fastest        string `json:"fastest,omitempty"`
	CheapestFirst  string `json:"cheapest_first_class,omitempty"`
	CheapestSecond string `json:"cheapest_second_class,omitempty"`
}

func toLegResponse(c *domain.Connection) LegResponse {
	return LegResponse{
		RouteID:         c.RouteID,
		From:            c.Departure.City.Name,
		To:              c.Arrival.City.Name,
		Departure:       c.Departure.Time.String(),
		Arrival:         c.Arrival.Time.String(),
		ArrivalNextDay:  c.Arrival.NextDay,
		Train:           c.Train.Name,
		Days:            c.Days().Tokens(),
		OperatingDays:   c.Days().Describe(),
		Duration:        domain.FormatDuration(c.Duration()),
		FirstClassFare:  c.Rates.FirstClass.StringFixed(2),
		SecondClassFare: c.Rates.SecondClass.StringFixed(2),
	}
}

func toTripResponse(t *domain.Trip) TripResponse {
	legs := t.Legs()
	resp := TripResponse{
		ID:               t.ID(),
		Origin:           t.Origin().Name,
		Destination:      t.Destination().Name,
		Departure:        t.First().Departure.Time.String(),
		Arrival:          t.Last().Arrival.Time.String(),
		Duration:         domain.FormatDuration(t.Duration()),
		DurationMinutes:  int(t.Duration() / time.Minute),
		ArrivalDayOffset: t.ArrivalDayOffset(),
		Transfers:        t.Transfers(),
		TransferTimes:    make([]string, 0, t.Transfers()),
		FirstClassFare:   t.FirstClassFare().StringFixed(2),
		SecondClassFare:  t.SecondClassFare().StringFixed(2),
		Legs:             make([]LegResponse, len(legs)),
	}
	for _, d := range t.TransferTimes() {
		resp.TransferTimes = append(resp.TransferTimes, domain.FormatDuration(d))
	}
	for i, c := range legs {
		resp.Legs[i] = toLegResponse(c)
	}
	return resp
}

func toSummaryResponse(trips []*domain.Trip) SummaryResponse {
	s := service.Summarize(trips)
	resp := SummaryResponse{Total: s.Total, Direct: s.Direct, WithTransfers: s.WithTransfers}
	if s.Fastest != nil {
		resp.Fastest = s.Fastest.ID()
		resp.CheapestFirst = s.CheapestFirst.ID()
		resp.CheapestSecond = s.CheapestSecond.ID()
	}
	return resp
}
