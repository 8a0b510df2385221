package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Payout moves funds out of the ledger. Implementations must be safe to
// call inside the operation's transaction: the ledger invokes Transfer
// as the last step of claim and withdrawal, after all internal state is
// committed to the transaction, so a transfer error aborts the whole
// operation.
type Payout interface {
	Transfer(ctx context.Context, recipient string, amount int64, reference string) error
}

// newReference returns an opaque payout reference like "claim-3f9c2a1b".
func newReference(prefix string) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return prefix
	}
	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(b))
}
