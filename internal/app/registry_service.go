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

// RegistryRepository is the storage surface needed by the trip registry.
type RegistryRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	NextTripID(ctx context.Context) (int64, error)
	AdvanceTripID(ctx context.Context, next int64) error
	InsertTrip(ctx context.Context, trip domain.Trip) error
	GetTrip(ctx context.Context, id int64) (domain.Trip, error)
	AppendRecord(ctx context.Context, kind string, payload any, at time.Time) error
}

// RegistryService owns the canonical set of trips: creation (operator
// only) and read access.
type RegistryService struct {
	repo   RegistryRepository
	access auth.AccessControl
	clock  clock.Clock
}

func NewRegistryService(repo RegistryRepository, access auth.AccessControl, clk clock.Clock) *RegistryService {
	return &RegistryService{
		repo:   repo,
		access: access,
		clock:  clk,
	}
}

type CreateTripInput struct {
	Caller       auth.Caller
	Origin       string
	Destination  string
	DepartureAt  time.Time
	VehicleModel string
	TotalSeats   int
}

func (s *RegistryService) CreateTrip(ctx context.Context, in CreateTripInput) (domain.Trip, error) {
	if !s.access.IsOperator(in.Caller) {
		return domain.Trip{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, in.Caller.ID)
	}
	if !validCode(in.Origin) || !validCode(in.Destination) || in.Origin == in.Destination {
		return domain.Trip{}, fmt.Errorf("%w: origin %q, destination %q",
			domain.ErrInvalidCode, in.Origin, in.Destination)
	}

	now := s.clock.Now()
	if in.DepartureAt.Before(now.Add(domain.MinDepartureLead)) {
		return domain.Trip{}, fmt.Errorf("%w: departure %s, now %s",
			domain.ErrTooSoon, in.DepartureAt.UTC().Format(time.RFC3339), now.Format(time.RFC3339))
	}
	if in.VehicleModel == "" {
		return domain.Trip{}, domain.ErrEmptyModel
	}
	if in.TotalSeats <= 0 {
		return domain.Trip{}, fmt.Errorf("%w: got %d", domain.ErrZeroSeats, in.TotalSeats)
	}

	var trip domain.Trip
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		id, err := s.repo.NextTripID(txCtx)
		if err != nil {
			return err
		}

		trip = domain.Trip{
			ID:           id,
			Origin:       in.Origin,
			Destination:  in.Destination,
			DepartureAt:  in.DepartureAt.UTC(),
			VehicleModel: in.VehicleModel,
			TotalSeats:   in.TotalSeats,
			UnitPrice:    domain.UnitPrice,
			CreatedAt:    now,
		}
		if err := s.repo.InsertTrip(txCtx, trip); err != nil {
			return err
		}

		// The creation record carries the id that subsequent lookups
		// return; it is written before the counter advances.
		record := events.TripCreated{
			TripID:      trip.ID,
			Origin:      trip.Origin,
			Destination: trip.Destination,
			DepartureAt: trip.DepartureAt,
			Model:       trip.VehicleModel,
			TotalSeats:  trip.TotalSeats,
			UnitPrice:   trip.UnitPrice,
		}
		if err := s.repo.AppendRecord(txCtx, events.KindTripCreated, record, now); err != nil {
			return err
		}
		return s.repo.AdvanceTripID(txCtx, id+1)
	})
	if err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}

func (s *RegistryService) GetTrip(ctx context.Context, id int64) (domain.Trip, error) {
	return s.repo.GetTrip(ctx, id)
}

// SeatStatus returns the number of seats still available on a trip.
func (s *RegistryService) SeatStatus(ctx context.Context, id int64) (int, error) {
	trip, err := s.repo.GetTrip(ctx, id)
	if err != nil {
		return 0, err
	}
	return trip.SeatsLeft(), nil
}

// validCode accepts exactly three ASCII letters (airport-code shape).
func validCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('A' <= c && c <= 'Z') && !('a' <= c && c <= 'z') {
			return false
		}
	}
	return true
}
