package service

import (
	"fmt"
	"strings"

	"rail/internal/domain"
)

const (
	heavyRule = "════════════════════════════════════════════════════════════════"
	lightRule = "────────────────────────────────────────────────────────────────"
)

// FormatTrip renders a trip as a multi-line text block.
func FormatTrip(trip *domain.Trip) string {
	var sb strings.Builder
	legs := trip.Legs()
	first, last := trip.First(), trip.Last()

	sb.WriteString(heavyRule + "\n")
	fmt.Fprintf(&sb, "TRIP %s (%d Connection%s)\n", trip.ID(), len(legs), plural(len(legs)))
	sb.WriteString(lightRule + "\n")
	fmt.Fprintf(&sb, "  Journey: %s → %s\n", trip.Origin(), trip.Destination())
	fmt.Fprintf(&sb, "  Departure: %s\n", first.Departure.Time)
	fmt.Fprintf(&sb, "  Arrival: %s", last.Arrival.Time)
	if offset := trip.ArrivalDayOffset(); offset > 0 {
		fmt.Fprintf(&sb, " (+%dd)", offset)
	}
	fmt.Fprintf(&sb, "\n  Total Duration: %s\n", domain.FormatDuration(trip.Duration()))
	sb.WriteString(lightRule + "\n")
	sb.WriteString("CONNECTION DETAILS:\n\n")

	transfers := trip.TransferTimes()
	for i, c := range legs {
		fmt.Fprintf(&sb, "  [Leg %d] %s → %s\n", i+1, c.Departure.City, c.Arrival.City)
		fmt.Fprintf(&sb, "    Route: %s | Train: %s\n", c.RouteID, c.Train)
		fmt.Fprintf(&sb, "    Operating Days: %s\n", c.Days().Describe())
		fmt.Fprintf(&sb, "    Depart: %s → Arrive: %s", c.Departure.Time, c.Arrival.Time)
		if c.Arrival.NextDay {
			sb.WriteString(" (+1d)")
		}
		fmt.Fprintf(&sb, "\n    Duration: %s\n", domain.FormatDuration(c.Duration()))
		if i < len(transfers) {
			fmt.Fprintf(&sb, "    Transfer Time in %s: %s\n", c.Arrival.City, domain.FormatDuration(transfers[i]))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(lightRule + "\n")
	sb.WriteString("FARE INFORMATION:\n")
	fmt.Fprintf(&sb, "  First Class:  €%s\n", trip.FirstClassFare().StringFixed(2))
	fmt.Fprintf(&sb, "  Second Class: €%s\n", trip.SecondClassFare().StringFixed(2))
	sb.WriteString(heavyRule + "\n")
	return sb.String()
}

// FormatSummary renders the header shown above a result list.
func FormatSummary(trips []*domain.Trip, key SortKey) string {
	var sb strings.Builder
	sb.WriteString("SEARCH RESULTS SUMMARY\n")
	sb.WriteString(lightRule + "\n")

	if len(trips) == 0 {
		sb.WriteString("  No trips found matching your criteria.\n")
		return sb.String()
	}

	s := Summarize(trips)
	fmt.Fprintf(&sb, "  Total trips found: %d\n", s.Total)
	fmt.Fprintf(&sb, "  ├─ Direct connections: %d\n", s.Direct)
	fmt.Fprintf(&sb, "  └─ With transfers: %d\n", s.WithTransfers)
	fmt.Fprintf(&sb, "\n  Currently sorted by: %s\n", key.Description())
	sb.WriteString("\n  Quick Stats:\n")
	fmt.Fprintf(&sb, "    Fastest trip: %s\n", domain.FormatDuration(s.Fastest.Duration()))
	fmt.Fprintf(&sb, "    Cheapest 1st class: €%s\n", s.CheapestFirst.FirstClassFare().StringFixed(2))
	fmt.Fprintf(&sb, "    Cheapest 2nd class: €%s\n", s.CheapestSecond.SecondClassFare().StringFixed(2))
	return sb.String()
}

// FormatBooking renders a booking confirmation (for email/print).
func FormatBooking(b *domain.Booking, trip *domain.Trip) string {
	var sb strings.Builder
	sb.WriteString("=====================================\n")
	sb.WriteString("        BOOKING CONFIRMATION\n")
	sb.WriteString("=====================================\n")
	fmt.Fprintf(&sb, "Booking ID: %s\n", b.ID)
	fmt.Fprintf(&sb, "Trip: %s\n", b.TripID)
	fmt.Fprintf(&sb, "Date: %s\n", b.CreatedAt.Format("Jan 02, 2006 3:04 PM"))
	if trip != nil {
		fmt.Fprintf(&sb, "Journey: %s → %s, departs %s, %s\n",
			trip.Origin(), trip.Destination(), trip.First().Departure.Time, domain.FormatDuration(trip.Duration()))
	}
	fmt.Fprintf(&sb, "Class: %s\n\n", b.Class)

	sb.WriteString("TICKETS\n")
	sb.WriteString("-------------------------------------\n")
	names := make(map[string]string, len(b.Travellers))
	for _, tr := range b.Travellers {
		names[tr.ID] = tr.Name
	}
	for _, t := range b.Tickets {
		name := names[t.TravellerID]
		if name == "" {
			name = t.TravellerID
		}
		fmt.Fprintf(&sb, "%-24s €%s\n", name, t.Cost.StringFixed(2))
	}
	sb.WriteString("-------------------------------------\n")
	fmt.Fprintf(&sb, "TOTAL:                   €%s\n", b.TotalCost().StringFixed(2))
	sb.WriteString("=====================================\n")
	return sb.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
