package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/grossitech/FlyChain/internal/app"
)

// EscrowManager is the minimal interface for the operator's escrow
// endpoints.
type EscrowManager interface {
	Withdraw(ctx context.Context, in app.WithdrawInput) (int64, error)
	Escrow(ctx context.Context, in app.EscrowInput) (int64, error)
}

func handleEscrow(w http.ResponseWriter, r *http.Request, custody EscrowManager, tripID int64) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	amount, err := custody.Escrow(r.Context(), app.EscrowInput{Caller: caller, TripID: tripID})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(escrowResponse{TripID: tripID, EscrowCents: amount})
}

func handleWithdraw(w http.ResponseWriter, r *http.Request, custody EscrowManager, tripID int64) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	amount, err := custody.Withdraw(r.Context(), app.WithdrawInput{Caller: caller, TripID: tripID})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(withdrawResponse{TripID: tripID, AmountCents: amount})
}

type escrowResponse struct {
	TripID      int64 `json:"trip_id"`
	EscrowCents int64 `json:"escrow_cents"`
}

type withdrawResponse struct {
	TripID      int64 `json:"trip_id"`
	AmountCents int64 `json:"amount_cents"`
}
