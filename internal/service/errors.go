package service

import "errors"

var (
	// ErrCatalogNotLoaded is returned when a search runs before any catalog was installed.
	ErrCatalogNotLoaded = errors.New("schedule catalog not loaded")

	// ErrInvalidSortKey is returned when a sort key cannot be parsed.
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrInvalidTripID is returned when a trip reference is empty or malformed.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidFareCap is returned when a fare cap is not a decimal number.
	ErrInvalidFareCap = errors.New("invalid fare cap")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidTravellerID is returned when traveller ID is empty.
	ErrInvalidTravellerID = errors.New("invalid traveller id")

	// ErrNoTravellers is returned when a booking names nobody.
	ErrNoTravellers = errors.New("booking needs at least one traveller")

	// ErrTooManyTravellers is returned when a booking exceeds the party size limit.
	ErrTooManyTravellers = errors.New("too many travellers")

	// ErrInvalidTravellerName is returned when a traveller name is blank.
	ErrInvalidTravellerName = errors.New("invalid traveller name")

	// ErrInvalidServiceClass is returned when the requested class is unknown.
	ErrInvalidServiceClass = errors.New("invalid service class")

	// ErrImportInProgress is returned when another instance is seeding the catalog.
	ErrImportInProgress = errors.New("catalog import already in progress")
)
