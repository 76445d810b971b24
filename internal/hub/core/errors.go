package core

import "errors"

var (
	// ErrNotFound is returned by repositories when an entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSlotUnavailable is returned by SlotRepository.Book when the slot is
	// missing or already booked. The scheduling service converts it into a
	// typed BookingResult rather than surfacing it to callers.
	ErrSlotUnavailable = errors.New("slot unavailable")
)
