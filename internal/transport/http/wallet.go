package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/grossitech/FlyChain/internal/app"
	"github.com/grossitech/FlyChain/internal/domain"
)

// WalletService is the minimal interface for the holder wallet
// endpoints.
type WalletService interface {
	Deposit(ctx context.Context, in app.DepositInput) (domain.Wallet, error)
	BalanceOf(ctx context.Context, holder string) (int64, error)
	Claim(ctx context.Context, in app.ClaimInput) (int64, error)
}

// HandleWalletBalance returns the caller's balance. A zero balance is
// absent by design and reads as 404.
func HandleWalletBalance(svc WalletService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}

		balance, err := svc.BalanceOf(r.Context(), caller.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(balanceResponse{Holder: caller.ID, BalanceCents: balance})
	}
}

// HandleDeposit credits the caller's wallet.
func HandleDeposit(svc WalletService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}

		var req depositRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		wallet, err := svc.Deposit(r.Context(), app.DepositInput{
			Holder: caller.ID,
			Amount: req.AmountCents,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(balanceResponse{Holder: wallet.Holder, BalanceCents: wallet.Balance})
	}
}

// HandleClaim empties the caller's wallet and pays the amount out.
func HandleClaim(svc WalletService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}

		amount, err := svc.Claim(r.Context(), app.ClaimInput{Holder: caller.ID})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(claimResponse{Holder: caller.ID, AmountCents: amount})
	}
}

type depositRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type balanceResponse struct {
	Holder       string `json:"holder"`
	BalanceCents int64  `json:"balance_cents"`
}

type claimResponse struct {
	Holder      string `json:"holder"`
	AmountCents int64  `json:"amount_cents"`
}
