package domain

import (
	"math"
	"time"
)

// Amounts are integer cents. MaxAmount is the representable ceiling for
// any escrow or wallet balance; credits beyond it are rejected, never
// clamped.
const MaxAmount int64 = math.MaxInt64

// UnitPrice is the fixed price of one seat, in cents. Pricing is not
// per-trip: every trip is created with this constant.
const UnitPrice int64 = 15000

// MinDepartureLead is the minimum interval between trip creation and
// departure. A departure exactly MinDepartureLead away is accepted.
const MinDepartureLead = 7 * 24 * time.Hour

// BookingCutoff is the interval before departure after which booking
// and cancellation close.
const BookingCutoff = time.Hour

// AddAmount returns a+b, or ok=false when the sum would exceed MaxAmount.
// Both operands must be non-negative.
func AddAmount(a, b int64) (sum int64, ok bool) {
	if b > MaxAmount-a {
		return 0, false
	}
	return a + b, true
}
