package app

import (
	"context"
	"fmt"
	"time"

	"github.com/grossitech/FlyChain/internal/clock"
	"github.com/grossitech/FlyChain/internal/domain"
	"github.com/grossitech/FlyChain/internal/events"
)

// BookingRepository is the storage surface needed to book and cancel
// seats. GetTripForUpdate, GetWalletForUpdate and GetTicketForUpdate
// lock their rows for the duration of the surrounding transaction,
// serializing concurrent calls on the same trip or holder.
type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetTripForUpdate(ctx context.Context, id int64) (domain.Trip, error)
	UpdateTripBalances(ctx context.Context, id int64, seatsBooked int, escrow int64) error
	GetWalletForUpdate(ctx context.Context, holder string) (domain.Wallet, error)
	UpsertWallet(ctx context.Context, holder string, balance int64, at time.Time) error
	GetTicketForUpdate(ctx context.Context, tripID int64, holder string) (domain.Ticket, error)
	UpsertTicket(ctx context.Context, tripID int64, holder string, units int) error
	AppendRecord(ctx context.Context, kind string, payload any, at time.Time) error
}

// BookingService mutates seat counts, escrow, wallet balances and
// ticket ownership in response to booking and cancellation. Each call
// is atomic: a failed check rolls back everything.
type BookingService struct {
	repo  BookingRepository
	clock clock.Clock
}

func NewBookingService(repo BookingRepository, clk clock.Clock) *BookingService {
	return &BookingService{
		repo:  repo,
		clock: clk,
	}
}

type BookInput struct {
	TripID  int64
	Holder  string
	Payment int64
}

// Book purchases one seat against a direct payment, which must equal
// the unit price exactly.
func (s *BookingService) Book(ctx context.Context, in BookInput) (domain.Trip, error) {
	now := s.clock.Now()
	var trip domain.Trip

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		t, err := s.bookableTrip(txCtx, in.TripID, now)
		if err != nil {
			return err
		}
		if in.Payment != t.UnitPrice {
			return fmt.Errorf("%w: payment %d, unit price %d", domain.ErrWrongAmount, in.Payment, t.UnitPrice)
		}
		trip, err = s.commitBooking(txCtx, t, in.Holder, in.Payment, now)
		return err
	})
	if err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}

type BookWithBalanceInput struct {
	TripID int64
	Holder string
}

// BookWithBalance purchases one seat funded from the holder's wallet.
func (s *BookingService) BookWithBalance(ctx context.Context, in BookWithBalanceInput) (domain.Trip, error) {
	now := s.clock.Now()
	var trip domain.Trip

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		t, err := s.bookableTrip(txCtx, in.TripID, now)
		if err != nil {
			return err
		}

		wallet, err := s.repo.GetWalletForUpdate(txCtx, in.Holder)
		if err != nil {
			return err
		}
		if wallet.Balance < t.UnitPrice {
			return fmt.Errorf("%w: balance %d, unit price %d",
				domain.ErrInsufficientBalance, wallet.Balance, t.UnitPrice)
		}
		if err := s.repo.UpsertWallet(txCtx, in.Holder, wallet.Balance-t.UnitPrice, now); err != nil {
			return err
		}
		trip, err = s.commitBooking(txCtx, t, in.Holder, t.UnitPrice, now)
		return err
	})
	if err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}

type CancelInput struct {
	TripID int64
	Holder string
}

// Cancel returns one held seat: frees it, refunds the unit price to the
// holder's wallet and burns the ownership unit.
func (s *BookingService) Cancel(ctx context.Context, in CancelInput) (domain.Trip, error) {
	now := s.clock.Now()
	var trip domain.Trip

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		t, err := s.repo.GetTripForUpdate(txCtx, in.TripID)
		if err != nil {
			return err
		}
		ticket, err := s.repo.GetTicketForUpdate(txCtx, in.TripID, in.Holder)
		if err != nil {
			return err
		}
		if ticket.Units == 0 {
			return fmt.Errorf("%w: holder %s, trip %d", domain.ErrNoTicketHeld, in.Holder, in.TripID)
		}
		if t.Departed(now) {
			return fmt.Errorf("%w: departure was %s", domain.ErrAlreadyDeparted, t.DepartureAt.Format(time.RFC3339))
		}
		if !t.Open(now) {
			return fmt.Errorf("%w: cutoff was %s", domain.ErrCancelTooLate, t.BookingDeadline().Format(time.RFC3339))
		}

		t.SeatsBooked--
		t.EscrowBalance -= t.UnitPrice
		if err := s.repo.UpdateTripBalances(txCtx, t.ID, t.SeatsBooked, t.EscrowBalance); err != nil {
			return err
		}

		wallet, err := s.repo.GetWalletForUpdate(txCtx, in.Holder)
		if err != nil {
			return err
		}
		balance, ok := domain.AddAmount(wallet.Balance, t.UnitPrice)
		if !ok {
			return fmt.Errorf("%w: holder %s", domain.ErrBalanceOverflow, in.Holder)
		}
		if err := s.repo.UpsertWallet(txCtx, in.Holder, balance, now); err != nil {
			return err
		}

		if err := s.repo.UpsertTicket(txCtx, in.TripID, in.Holder, ticket.Units-1); err != nil {
			return err
		}

		record := events.TicketCancelled{Holder: in.Holder, TripID: in.TripID}
		if err := s.repo.AppendRecord(txCtx, events.KindTicketCancelled, record, now); err != nil {
			return err
		}
		trip = t
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}

// bookableTrip loads and locks a trip, enforcing the eligibility and
// capacity checks shared by both booking paths.
func (s *BookingService) bookableTrip(ctx context.Context, tripID int64, now time.Time) (domain.Trip, error) {
	t, err := s.repo.GetTripForUpdate(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if !t.Open(now) {
		return domain.Trip{}, fmt.Errorf("%w: cutoff was %s",
			domain.ErrBookingClosed, t.BookingDeadline().Format(time.RFC3339))
	}
	if t.SeatsBooked >= t.TotalSeats {
		return domain.Trip{}, fmt.Errorf("%w: %d/%d booked", domain.ErrSeatsExhausted, t.SeatsBooked, t.TotalSeats)
	}
	return t, nil
}

// commitBooking applies the shared tail of both booking paths: seat and
// escrow mutation, the booking record, and the ownership mint last.
func (s *BookingService) commitBooking(ctx context.Context, t domain.Trip, holder string, payment int64, now time.Time) (domain.Trip, error) {
	escrow, ok := domain.AddAmount(t.EscrowBalance, payment)
	if !ok {
		return domain.Trip{}, fmt.Errorf("%w: trip %d", domain.ErrEscrowOverflow, t.ID)
	}
	t.SeatsBooked++
	t.EscrowBalance = escrow
	if err := s.repo.UpdateTripBalances(ctx, t.ID, t.SeatsBooked, t.EscrowBalance); err != nil {
		return domain.Trip{}, err
	}

	record := events.SeatBooked{Holder: holder, TripID: t.ID}
	if err := s.repo.AppendRecord(ctx, events.KindSeatBooked, record, now); err != nil {
		return domain.Trip{}, err
	}

	ticket, err := s.repo.GetTicketForUpdate(ctx, t.ID, holder)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := s.repo.UpsertTicket(ctx, t.ID, holder, ticket.Units+1); err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}
