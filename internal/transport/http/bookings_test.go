package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grossitech/FlyChain/internal/app"
	"github.com/grossitech/FlyChain/internal/auth"
	"github.com/grossitech/FlyChain/internal/domain"
)

type stubBooker struct {
	trip        domain.Trip
	err         error
	lastBook    *app.BookInput
	lastBalance *app.BookWithBalanceInput
	lastCancel  *app.CancelInput
}

func (s *stubBooker) Book(_ context.Context, in app.BookInput) (domain.Trip, error) {
	s.lastBook = &in
	return s.trip, s.err
}

func (s *stubBooker) BookWithBalance(_ context.Context, in app.BookWithBalanceInput) (domain.Trip, error) {
	s.lastBalance = &in
	return s.trip, s.err
}

func (s *stubBooker) Cancel(_ context.Context, in app.CancelInput) (domain.Trip, error) {
	s.lastCancel = &in
	return s.trip, s.err
}

func TestHandleBook(t *testing.T) {
	t.Parallel()

	holder := auth.Caller{ID: "h1", Role: "holder"}

	tests := []struct {
		name           string
		body           string
		caller         *auth.Caller
		serviceErr     error
		expectedStatus int
		expectedSubstr string
		wantBalance    bool
	}{
		{
			name:           "direct payment",
			body:           `{"payment_cents":15000}`,
			caller:         &holder,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"seats_booked":12`,
		},
		{
			name:           "balance funded",
			body:           `{"use_balance":true}`,
			caller:         &holder,
			expectedStatus: http.StatusCreated,
			wantBalance:    true,
		},
		{
			name:           "no caller",
			body:           `{"payment_cents":15000}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid json",
			body:           `{"payment_cents":`,
			caller:         &holder,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "payment and balance together",
			body:           `{"payment_cents":15000,"use_balance":true}`,
			caller:         &holder,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wrong amount",
			body:           `{"payment_cents":1}`,
			caller:         &holder,
			serviceErr:     domain.ErrWrongAmount,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeWrongAmount,
		},
		{
			name:           "seats exhausted",
			body:           `{"payment_cents":15000}`,
			caller:         &holder,
			serviceErr:     domain.ErrSeatsExhausted,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "booking closed",
			body:           `{"payment_cents":15000}`,
			caller:         &holder,
			serviceErr:     domain.ErrBookingClosed,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "insufficient balance",
			body:           `{"use_balance":true}`,
			caller:         &holder,
			serviceErr:     domain.ErrInsufficientBalance,
			expectedStatus: http.StatusConflict,
			wantBalance:    true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			booker := &stubBooker{trip: sampleTrip, err: tt.serviceErr}
			handler := HandleTrip(&stubTripService{trip: sampleTrip}, booker, &stubCustody{}, nil)

			req := httptest.NewRequest(http.MethodPost, "/trips/0/bookings", bytes.NewBufferString(tt.body))
			if tt.caller != nil {
				req = withCaller(req, *tt.caller)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
			if tt.expectedStatus == http.StatusCreated {
				if tt.wantBalance && booker.lastBalance == nil {
					t.Fatal("expected the balance-funded path")
				}
				if !tt.wantBalance && booker.lastBook == nil {
					t.Fatal("expected the direct-payment path")
				}
			}
		})
	}
}

func TestHandleBook_UsesCallerAsHolder(t *testing.T) {
	t.Parallel()

	booker := &stubBooker{trip: sampleTrip}
	handler := HandleTrip(&stubTripService{trip: sampleTrip}, booker, &stubCustody{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/trips/3/bookings", bytes.NewBufferString(`{"payment_cents":15000}`))
	req = withCaller(req, auth.Caller{ID: "h7", Role: "holder"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if booker.lastBook == nil || booker.lastBook.Holder != "h7" || booker.lastBook.TripID != 3 {
		t.Fatalf("unexpected booking input %+v", booker.lastBook)
	}
}

func TestHandleCancel(t *testing.T) {
	t.Parallel()

	holder := auth.Caller{ID: "h1", Role: "holder"}

	tests := []struct {
		name           string
		caller         *auth.Caller
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			caller:         &holder,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"seats_booked":12`,
		},
		{
			name:           "no caller",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "no ticket held",
			caller:         &holder,
			serviceErr:     domain.ErrNoTicketHeld,
			expectedStatus: http.StatusConflict,
			expectedSubstr: codeNoTicketHeld,
		},
		{
			name:           "already departed",
			caller:         &holder,
			serviceErr:     domain.ErrAlreadyDeparted,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "too late",
			caller:         &holder,
			serviceErr:     domain.ErrCancelTooLate,
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			booker := &stubBooker{trip: sampleTrip, err: tt.serviceErr}
			handler := HandleTrip(&stubTripService{trip: sampleTrip}, booker, &stubCustody{}, nil)

			req := httptest.NewRequest(http.MethodPost, "/trips/0/cancellation", nil)
			if tt.caller != nil {
				req = withCaller(req, *tt.caller)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}
