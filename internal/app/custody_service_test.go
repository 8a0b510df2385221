package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/grossitech/FlyChain/internal/auth"
	"github.com/grossitech/FlyChain/internal/clock"
	"github.com/grossitech/FlyChain/internal/domain"
	"github.com/grossitech/FlyChain/internal/events"
)

func TestCustodyService_Withdraw(t *testing.T) {
	t.Parallel()

	departure := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	afterDeparture := departure.Add(time.Minute)

	departedTrip := func(escrow int64) domain.Trip {
		trip := openTrip(0, departure, 5)
		trip.SeatsBooked = 2
		trip.EscrowBalance = escrow
		return trip
	}

	t.Run("releases the full escrow to the operator", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addTrip(departedTrip(2 * domain.UnitPrice))
		payout := &fakePayout{}
		svc := NewCustodyService(repo, auth.RoleAccess{}, payout, clock.NewFixed(afterDeparture))

		amount, err := svc.Withdraw(context.Background(), WithdrawInput{Caller: operator, TripID: 0})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if amount != 2*domain.UnitPrice {
			t.Fatalf("expected amount %d, got %d", 2*domain.UnitPrice, amount)
		}
		if repo.trips[0].EscrowBalance != 0 {
			t.Fatalf("expected escrow zeroed, got %d", repo.trips[0].EscrowBalance)
		}
		if repo.trips[0].SeatsBooked != 2 {
			t.Fatalf("expected seats untouched, got %d", repo.trips[0].SeatsBooked)
		}
		if len(payout.transfers) != 1 {
			t.Fatalf("expected one transfer, got %d", len(payout.transfers))
		}
		tr := payout.transfers[0]
		if tr.recipient != operator.ID || tr.amount != 2*domain.UnitPrice {
			t.Fatalf("unexpected transfer %+v", tr)
		}
		if !strings.HasPrefix(tr.reference, "withdrawal-") {
			t.Fatalf("expected withdrawal reference, got %q", tr.reference)
		}
		if len(repo.records) != 1 || repo.records[0].kind != events.KindFundsWithdrawn {
			t.Fatalf("expected one funds.withdrawn record, got %+v", repo.records)
		}
	})

	t.Run("before departure fails", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addTrip(departedTrip(domain.UnitPrice))
		svc := NewCustodyService(repo, auth.RoleAccess{}, &fakePayout{}, clock.NewFixed(departure.Add(-time.Hour)))

		_, err := svc.Withdraw(context.Background(), WithdrawInput{Caller: operator, TripID: 0})
		if !errors.Is(err, domain.ErrNotYetDeparted) {
			t.Fatalf("expected ErrNotYetDeparted, got %v", err)
		}
		if repo.trips[0].EscrowBalance != domain.UnitPrice {
			t.Fatalf("expected escrow untouched, got %d", repo.trips[0].EscrowBalance)
		}
	})

	t.Run("second withdrawal fails with escrow empty", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addTrip(departedTrip(domain.UnitPrice))
		svc := NewCustodyService(repo, auth.RoleAccess{}, &fakePayout{}, clock.NewFixed(afterDeparture))

		if _, err := svc.Withdraw(context.Background(), WithdrawInput{Caller: operator, TripID: 0}); err != nil {
			t.Fatalf("first withdrawal: %v", err)
		}
		_, err := svc.Withdraw(context.Background(), WithdrawInput{Caller: operator, TripID: 0})
		if !errors.Is(err, domain.ErrEscrowEmpty) {
			t.Fatalf("expected ErrEscrowEmpty, got %v", err)
		}
	})

	t.Run("non-operator is rejected before any read", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addTrip(departedTrip(domain.UnitPrice))
		payout := &fakePayout{}
		svc := NewCustodyService(repo, auth.RoleAccess{}, payout, clock.NewFixed(afterDeparture))

		caller := auth.Caller{ID: "rider-9", Role: "holder"}
		_, err := svc.Withdraw(context.Background(), WithdrawInput{Caller: caller, TripID: 0})
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if !strings.Contains(err.Error(), "rider-9") {
			t.Fatalf("expected error to name the caller, got %v", err)
		}
		if len(payout.transfers) != 0 || repo.trips[0].EscrowBalance != domain.UnitPrice {
			t.Fatalf("expected no side effects")
		}
	})

	t.Run("unknown trip fails", func(t *testing.T) {
		svc := NewCustodyService(newFakeLedger(), auth.RoleAccess{}, &fakePayout{}, clock.NewFixed(afterDeparture))
		if _, err := svc.Withdraw(context.Background(), WithdrawInput{Caller: operator, TripID: 9}); !errors.Is(err, domain.ErrTripNotFound) {
			t.Fatalf("expected ErrTripNotFound, got %v", err)
		}
	})

	t.Run("failed transfer restores the escrow", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addTrip(departedTrip(domain.UnitPrice))
		payout := &fakePayout{err: errors.New("gateway down")}
		svc := NewCustodyService(repo, auth.RoleAccess{}, payout, clock.NewFixed(afterDeparture))

		_, err := svc.Withdraw(context.Background(), WithdrawInput{Caller: operator, TripID: 0})
		if err == nil || !strings.Contains(err.Error(), "gateway down") {
			t.Fatalf("expected transfer error, got %v", err)
		}
		if repo.trips[0].EscrowBalance != domain.UnitPrice {
			t.Fatalf("expected escrow restored, got %d", repo.trips[0].EscrowBalance)
		}
		if len(repo.records) != 0 {
			t.Fatalf("expected record rolled back, got %+v", repo.records)
		}
	})
}

func TestCustodyService_Escrow(t *testing.T) {
	t.Parallel()

	departure := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("reads the current escrow", func(t *testing.T) {
		repo := newFakeLedger()
		trip := openTrip(0, departure, 5)
		trip.EscrowBalance = 3 * domain.UnitPrice
		repo.addTrip(trip)
		svc := NewCustodyService(repo, auth.RoleAccess{}, &fakePayout{}, clock.NewFixed(departure))

		amount, err := svc.Escrow(context.Background(), EscrowInput{Caller: operator, TripID: 0})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if amount != 3*domain.UnitPrice {
			t.Fatalf("expected %d, got %d", 3*domain.UnitPrice, amount)
		}
	})

	t.Run("non-operator is rejected", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addTrip(openTrip(0, departure, 5))
		svc := NewCustodyService(repo, auth.RoleAccess{}, &fakePayout{}, clock.NewFixed(departure))

		caller := auth.Caller{ID: "rider-9", Role: "holder"}
		if _, err := svc.Escrow(context.Background(), EscrowInput{Caller: caller, TripID: 0}); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("unknown trip fails", func(t *testing.T) {
		svc := NewCustodyService(newFakeLedger(), auth.RoleAccess{}, &fakePayout{}, clock.NewFixed(departure))
		if _, err := svc.Escrow(context.Background(), EscrowInput{Caller: operator, TripID: 9}); !errors.Is(err, domain.ErrTripNotFound) {
			t.Fatalf("expected ErrTripNotFound, got %v", err)
		}
	})
}
