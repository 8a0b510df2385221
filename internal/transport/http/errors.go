package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grossitech/FlyChain/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeUnauthenticated     = "unauthenticated"
	codeUnauthorized        = "unauthorized"
	codeInvalidCode         = "invalid_airport_code"
	codeTooSoon             = "departure_too_soon"
	codeEmptyModel          = "vehicle_model_required"
	codeZeroSeats           = "zero_seats"
	codeInvalidAmount       = "invalid_amount"
	codeWrongAmount         = "wrong_amount"
	codeTripNotFound        = "trip_not_found"
	codeBookingClosed       = "booking_closed"
	codeSeatsExhausted      = "seats_exhausted"
	codeInsufficientBalance = "insufficient_balance"
	codeNoTicketHeld        = "no_ticket_held"
	codeAlreadyDeparted     = "already_departed"
	codeCancelTooLate       = "cancel_too_late"
	codeNotYetDeparted      = "not_yet_departed"
	codeNoBalance           = "no_balance"
	codeEscrowEmpty         = "escrow_empty"
	codeLedgerDefect        = "ledger_defect"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps a ledger error to its HTTP status and code.
func writeDomainError(w http.ResponseWriter, err error) {
	for _, m := range domainErrorMap {
		if errors.Is(err, m.target) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

var domainErrorMap = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrUnauthorized, http.StatusForbidden, codeUnauthorized},
	{domain.ErrInvalidCode, http.StatusBadRequest, codeInvalidCode},
	{domain.ErrTooSoon, http.StatusBadRequest, codeTooSoon},
	{domain.ErrEmptyModel, http.StatusBadRequest, codeEmptyModel},
	{domain.ErrZeroSeats, http.StatusBadRequest, codeZeroSeats},
	{domain.ErrInvalidAmount, http.StatusBadRequest, codeInvalidAmount},
	{domain.ErrWrongAmount, http.StatusBadRequest, codeWrongAmount},
	{domain.ErrTripNotFound, http.StatusNotFound, codeTripNotFound},
	{domain.ErrBookingClosed, http.StatusConflict, codeBookingClosed},
	{domain.ErrSeatsExhausted, http.StatusConflict, codeSeatsExhausted},
	{domain.ErrInsufficientBalance, http.StatusConflict, codeInsufficientBalance},
	{domain.ErrNoTicketHeld, http.StatusConflict, codeNoTicketHeld},
	{domain.ErrAlreadyDeparted, http.StatusConflict, codeAlreadyDeparted},
	{domain.ErrCancelTooLate, http.StatusConflict, codeCancelTooLate},
	{domain.ErrNotYetDeparted, http.StatusConflict, codeNotYetDeparted},
	{domain.ErrNoBalance, http.StatusNotFound, codeNoBalance},
	{domain.ErrEscrowEmpty, http.StatusConflict, codeEscrowEmpty},
	{domain.ErrEscrowOverflow, http.StatusInternalServerError, codeLedgerDefect},
	{domain.ErrBalanceOverflow, http.StatusInternalServerError, codeLedgerDefect},
	{domain.ErrTicketUnderflow, http.StatusInternalServerError, codeLedgerDefect},
}
