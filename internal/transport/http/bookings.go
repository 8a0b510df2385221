package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/grossitech/FlyChain/internal/app"
	"github.com/grossitech/FlyChain/internal/cache"
	"github.com/grossitech/FlyChain/internal/domain"
)

// SeatBooker is the minimal interface needed to book and cancel seats.
type SeatBooker interface {
	Book(ctx context.Context, in app.BookInput) (domain.Trip, error)
	BookWithBalance(ctx context.Context, in app.BookWithBalanceInput) (domain.Trip, error)
	Cancel(ctx context.Context, in app.CancelInput) (domain.Trip, error)
}

type bookRequest struct {
	PaymentCents int64 `json:"payment_cents"`
	UseBalance   bool  `json:"use_balance"`
}

func handleBook(w http.ResponseWriter, r *http.Request, booker SeatBooker, seats *cache.SeatCache, tripID int64) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req bookRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if req.UseBalance && req.PaymentCents != 0 {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "payment_cents and use_balance are mutually exclusive")
		return
	}

	var (
		trip domain.Trip
		err  error
	)
	if req.UseBalance {
		trip, err = booker.BookWithBalance(r.Context(), app.BookWithBalanceInput{
			TripID: tripID,
			Holder: caller.ID,
		})
	} else {
		trip, err = booker.Book(r.Context(), app.BookInput{
			TripID:  tripID,
			Holder:  caller.ID,
			Payment: req.PaymentCents,
		})
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	seats.Invalidate(r.Context(), tripID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(newTripResponse(trip))
}

func handleCancel(w http.ResponseWriter, r *http.Request, booker SeatBooker, seats *cache.SeatCache, tripID int64) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	trip, err := booker.Cancel(r.Context(), app.CancelInput{
		TripID: tripID,
		Holder: caller.ID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	seats.Invalidate(r.Context(), tripID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(newTripResponse(trip))
}
