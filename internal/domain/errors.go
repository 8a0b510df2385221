package domain

import "errors"

// Validation errors carry the offending values when wrapped with %w at
// the rejection site; transport matches them with errors.Is.
var (
	ErrInvalidCode = errors.New("invalid airport code")
	ErrTooSoon     = errors.New("departure too soon")
	ErrEmptyModel  = errors.New("vehicle model required")
	ErrZeroSeats   = errors.New("total seats must be positive")
	ErrWrongAmount = errors.New("payment must equal unit price")
	// ErrInvalidAmount rejects non-positive deposit or payment inputs
	// before they reach any balance arithmetic.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// State-precondition errors: retriable by the caller once the
// precondition changes, never retried by the ledger itself.
var (
	ErrTripNotFound        = errors.New("trip not found")
	ErrBookingClosed       = errors.New("booking closed")
	ErrSeatsExhausted      = errors.New("seats exhausted")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoTicketHeld        = errors.New("no ticket held")
	ErrAlreadyDeparted     = errors.New("trip already departed")
	ErrCancelTooLate       = errors.New("too late to cancel")
	ErrNotYetDeparted      = errors.New("trip not yet departed")
	ErrNoBalance           = errors.New("no balance")
	ErrEscrowEmpty         = errors.New("escrow already withdrawn")
)

// Invariant-protection errors: unreachable in correct operation.
// Surfaced as defects, never clamped.
var (
	ErrEscrowOverflow  = errors.New("escrow balance overflow")
	ErrBalanceOverflow = errors.New("wallet balance overflow")
	ErrTicketUnderflow = errors.New("ticket unit underflow")
)

var ErrUnauthorized = errors.New("caller is not the operator")
