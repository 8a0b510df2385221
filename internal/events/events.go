// Package events defines the ledger records emitted for every committed
// state transition. Records are written to the ledger_events outbox in
// the same transaction as the mutation they describe, then relayed to
// the message broker by the Relay.
package events

import "time"

// Kinds of ledger records.
const (
	KindTripCreated     = "trip.created"
	KindSeatBooked      = "seat.booked"
	KindTicketCancelled = "ticket.cancelled"
	KindBalanceClaimed  = "balance.claimed"
	KindFundsWithdrawn  = "funds.withdrawn"
)

// TripCreated is recorded when the operator registers a new trip. It
// carries every field of the trip, including the id later lookups will
// return.
type TripCreated struct {
	TripID      int64     `json:"trip_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DepartureAt time.Time `json:"departure_at"`
	Model       string    `json:"model"`
	TotalSeats  int       `json:"total_seats"`
	UnitPrice   int64     `json:"unit_price_cents"`
}

// SeatBooked is recorded when a holder books one seat.
type SeatBooked struct {
	Holder string `json:"holder"`
	TripID int64  `json:"trip_id"`
}

// TicketCancelled is recorded when a holder cancels a held seat.
type TicketCancelled struct {
	Holder string `json:"holder"`
	TripID int64  `json:"trip_id"`
}

// BalanceClaimed is recorded when a holder claims their full balance.
type BalanceClaimed struct {
	Holder string `json:"holder"`
	Amount int64  `json:"amount_cents"`
}

// FundsWithdrawn is recorded when the operator releases a trip's escrow.
type FundsWithdrawn struct {
	TripID int64 `json:"trip_id"`
	Amount int64 `json:"amount_cents"`
}
