package app

import (
	"context"
	"fmt"
	"time"

	"github.com/grossitech/FlyChain/internal/auth"
	"github.com/grossitech/FlyChain/internal/clock"
	"github.com/grossitech/FlyChain/internal/domain"
	"github.com/grossitech/FlyChain/internal/events"
)

// CustodyRepository is the storage surface needed to release escrow.
type CustodyRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetTrip(ctx context.Context, id int64) (domain.Trip, error)
	GetTripForUpdate(ctx context.Context, id int64) (domain.Trip, error)
	UpdateTripBalances(ctx context.Context, id int64, seatsBooked int, escrow int64) error
	AppendRecord(ctx context.Context, kind string, payload any, at time.Time) error
}

// CustodyService releases a trip's accumulated escrow to the operator
// once the trip has departed. The escrow is zeroed before the outward
// transfer; a failed transfer rolls everything back.
type CustodyService struct {
	repo   CustodyRepository
	access auth.AccessControl
	payout Payout
	clock  clock.Clock
}

func NewCustodyService(repo CustodyRepository, access auth.AccessControl, payout Payout, clk clock.Clock) *CustodyService {
	return &CustodyService{
		repo:   repo,
		access: access,
		payout: payout,
		clock:  clk,
	}
}

type WithdrawInput struct {
	Caller auth.Caller
	TripID int64
}

func (s *CustodyService) Withdraw(ctx context.Context, in WithdrawInput) (int64, error) {
	if !s.access.IsOperator(in.Caller) {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnauthorized, in.Caller.ID)
	}

	now := s.clock.Now()
	var amount int64

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		trip, err := s.repo.GetTripForUpdate(txCtx, in.TripID)
		if err != nil {
			return err
		}
		if !trip.Departed(now) {
			return fmt.Errorf("%w: trip %d departs %s",
				domain.ErrNotYetDeparted, trip.ID, trip.DepartureAt.Format(time.RFC3339))
		}
		if trip.EscrowBalance == 0 {
			return fmt.Errorf("%w: trip %d", domain.ErrEscrowEmpty, trip.ID)
		}
		amount = trip.EscrowBalance

		if err := s.repo.UpdateTripBalances(txCtx, trip.ID, trip.SeatsBooked, 0); err != nil {
			return err
		}
		record := events.FundsWithdrawn{TripID: trip.ID, Amount: amount}
		if err := s.repo.AppendRecord(txCtx, events.KindFundsWithdrawn, record, now); err != nil {
			return err
		}
		return s.payout.Transfer(txCtx, in.Caller.ID, amount, newReference("withdrawal"))
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

type EscrowInput struct {
	Caller auth.Caller
	TripID int64
}

// Escrow reads a trip's current escrow balance, operator only.
func (s *CustodyService) Escrow(ctx context.Context, in EscrowInput) (int64, error) {
	if !s.access.IsOperator(in.Caller) {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnauthorized, in.Caller.ID)
	}
	trip, err := s.repo.GetTrip(ctx, in.TripID)
	if err != nil {
		return 0, err
	}
	return trip.EscrowBalance, nil
}
