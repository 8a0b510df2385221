package domain

import "time"

// Wallet is a holder's balance, credited by deposits and cancellation
// refunds and emptied by a claim. A zero balance is modeled as absent:
// reads of an empty wallet fail with ErrNoBalance.
type Wallet struct {
	Holder    string
	Balance   int64
	UpdatedAt time.Time
}

// Ticket is the ownership-ledger entry for one (trip, holder) pair:
// a non-negative count of held seat units.
type Ticket struct {
	TripID int64
	Holder string
	Units  int
}
