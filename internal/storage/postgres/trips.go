package postgres

import (
	"context"
	"fmt"

	"github.com/grossitech/FlyChain/internal/domain"
	"github.com/jackc/pgx/v5"
)

const tripColumns = `id, origin, destination, departure_at, vehicle_model,
total_seats, seats_booked, unit_price, escrow_balance, created_at`

type rowFunc func(ctx context.Context, sql string, args ...any) pgx.Row

func getTrip(ctx context.Context, queryRow rowFunc, id int64, forUpdate bool) (domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var t domain.Trip
	err := queryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Origin,
		&t.Destination,
		&t.DepartureAt,
		&t.VehicleModel,
		&t.TotalSeats,
		&t.SeatsBooked,
		&t.UnitPrice,
		&t.EscrowBalance,
		&t.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Trip{}, fmt.Errorf("%w: id %d", domain.ErrTripNotFound, id)
		}
		return domain.Trip{}, fmt.Errorf("get trip: %w", err)
	}
	return t, nil
}

func updateTripBalances(ctx context.Context, exec execFunc, id int64, seatsBooked int, escrow int64) error {
	const stmt = `UPDATE trips SET seats_booked = $2, escrow_balance = $3 WHERE id = $1`
	tag, err := exec(ctx, stmt, id, seatsBooked, escrow)
	if err != nil {
		return fmt.Errorf("update trip balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrTripNotFound, id)
	}
	return nil
}
