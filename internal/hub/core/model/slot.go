package model

// SlotStatus is the availability state of an appointment slot.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// PriorityEmergency is the priority level assigned to reserved slots at
// pool generation time.
const PriorityEmergency = "emergency"

// Slot is a bookable (date, time, center) triple. Created once at pool
// initialization, booked at most once, never deleted.
type Slot struct {
	ID       string `json:"slot_id"`
	Date     string `json:"date"` // YYYY-MM-DD
	Time     string `json:"time"` // HH:MM
	CenterID string `json:"center"`

	// VehicleID is the occupying vehicle, empty while available.
	VehicleID string     `json:"vehicle_id,omitempty"`
	Status    SlotStatus `json:"status"`

	// Reserved marks membership in the high-priority reserve withheld from
	// normal booking.
	Reserved bool `json:"reserved"`

	// PriorityLevel is "emergency" for reserved slots, and takes the booking
	// priority when a slot is assigned.
	PriorityLevel string `json:"priority_level,omitempty"`

	// DistanceKM is filled in by listing relative to the customer location.
	// Not persisted.
	DistanceKM float64 `json:"distance_km,omitempty"`
}

// Center is static reference data for a service center.
type Center struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// BookingStatus classifies the outcome of a booking attempt.
type BookingStatus string

const (
	// BookingReserved means the slot is held without explicit confirmation
	// (emergency auto-reserve path).
	BookingReserved BookingStatus = "reserved"

	// BookingConfirmed means the customer confirmed the slot.
	BookingConfirmed BookingStatus = "confirmed"

	// BookingUnavailable means the requested slot is missing or already
	// booked. This is a result value, not an error.
	BookingUnavailable BookingStatus = "unavailable"
)

// BookingResult is the typed outcome of Book, BookWithPreferences and
// AutoReserve.
type BookingResult struct {
	Status      BookingStatus `json:"status"`
	VehicleName string        `json:"vehicle_name"`
	SlotID      string        `json:"slot_id,omitempty"`
	Center      string        `json:"center,omitempty"`
	Date        string        `json:"date,omitempty"`
	Time        string        `json:"time,omitempty"`
	Priority    RiskLevel     `json:"priority,omitempty"`

	// Diagnosis is the re-derived diagnosis summary attached to successful
	// bookings.
	Diagnosis *Diagnosis `json:"diagnosis,omitempty"`

	// Preferences echoes the free-text preferences of a preference-based
	// booking. They are not matched against slot contents.
	Preferences []string `json:"preferences,omitempty"`

	// Message is a human-readable confirmation or failure line.
	Message string `json:"message"`
}

// Unavailable reports whether the booking failed because the slot was
// missing or taken.
func (r *BookingResult) Unavailable() bool {
	return r != nil && r.Status == BookingUnavailable
}
