package service

import "rail/internal/domain"

// Transfer window policy, in minutes.
const (
	MinTransferMinutes = 20
	MaxLayoverMinutes  = domain.MinutesPerDay
)

// ShiftDaysForNextLeg returns the days on which a follow-up leg must operate
// to meet an arrival that happens on days, or the day after when
// arrivalIsNextDay.
func ShiftDaysForNextLeg(days domain.DaySet, arrivalIsNextDay bool) domain.DaySet {
	if !arrivalIsNextDay {
		return days
	}
	return days.Shift()
}

// LegsCompatible reports whether next can be boarded after previous on at
// least one pairing of their operating days. The layover must be between
// MinTransferMinutes and MaxLayoverMinutes, either on the same calendar day
// or across one midnight.
func LegsCompatible(previous, next *domain.Connection) bool {
	arr := int(previous.Arrival.Time)
	dep := int(next.Departure.Time)

	for _, pd := range previous.Days().Days() {
		arrDay := pd
		if previous.Arrival.NextDay {
			arrDay = arrDay.Next()
		}
		for _, nd := range next.Days().Days() {
			depDay := nd
			if next.Departure.NextDay {
				depDay = depDay.Next()
			}

			switch {
			case depDay == arrDay:
				gap := dep - arr
				if gap >= MinTransferMinutes && gap <= MaxLayoverMinutes && dep > arr+MinTransferMinutes-1 {
					return true
				}
			case depDay == arrDay.Next():
				gap := (domain.MinutesPerDay - arr) + dep
				if gap >= MinTransferMinutes && gap <= MaxLayoverMinutes {
					return true
				}
			}
		}
	}
	return false
}
