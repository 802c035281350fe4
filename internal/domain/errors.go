package domain

import "errors"

var (
	// ErrEmptySchedule is returned when a schedule has no operating days.
	ErrEmptySchedule = errors.New("schedule must have at least one operating day")

	// ErrEmptyCityName is returned when a stop references an unnamed city.
	ErrEmptyCityName = errors.New("city name is empty")

	// ErrEmptyTrainType is returned when a connection has no train type.
	ErrEmptyTrainType = errors.New("train type is empty")

	// ErrEmptyRouteID is returned when a connection has no route identifier.
	ErrEmptyRouteID = errors.New("route id is empty")

	// ErrNegativeFare is returned when a ticket rate is below zero.
	ErrNegativeFare = errors.New("fare must not be negative")

	// ErrInvalidClock is returned for times outside 00:00-23:59.
	ErrInvalidClock = errors.New("invalid wall-clock time")

	// ErrUnknownWeekday is returned when a day token cannot be parsed.
	ErrUnknownWeekday = errors.New("unknown day of week")

	// ErrUnknownServiceClass is returned when a class token cannot be parsed.
	ErrUnknownServiceClass = errors.New("unknown service class")

	// ErrNoLegs is returned when a trip is built without connections.
	ErrNoLegs = errors.New("trip must have at least one leg")

	// ErrBrokenChain is returned when a leg does not depart where the previous one arrived.
	ErrBrokenChain = errors.New("legs do not form a continuous chain")

	// ErrLoop is returned when a trip visits the same city twice.
	ErrLoop = errors.New("trip revisits a city")
)
