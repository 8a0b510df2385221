package domain

import "time"

// Trip is a scheduled departure with a fixed seat inventory and an
// escrow balance accumulating one unit price per booked seat.
type Trip struct {
	ID            int64
	Origin        string
	Destination   string
	DepartureAt   time.Time
	VehicleModel  string
	TotalSeats    int
	SeatsBooked   int
	UnitPrice     int64
	EscrowBalance int64
	CreatedAt     time.Time
}

// SeatsLeft reports remaining capacity.
func (t Trip) SeatsLeft() int {
	return t.TotalSeats - t.SeatsBooked
}

// BookingDeadline is the instant after which booking and cancellation
// are no longer permitted.
func (t Trip) BookingDeadline() time.Time {
	return t.DepartureAt.Add(-BookingCutoff)
}

// Open reports whether the trip still accepts bookings at the given instant.
func (t Trip) Open(now time.Time) bool {
	return now.Before(t.BookingDeadline())
}

// Departed reports whether the departure instant has passed.
func (t Trip) Departed(now time.Time) bool {
	return !now.Before(t.DepartureAt)
}
