package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/grossitech/FlyChain/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistryRepository struct {
	pool *pgxpool.Pool
}

func NewRegistryRepository(pool *pgxpool.Pool) *RegistryRepository {
	return &RegistryRepository{pool: pool}
}

func (r *RegistryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// NextTripID locks the counter row and returns the id the next trip
// will carry. The lock serializes concurrent creations.
func (r *RegistryRepository) NextTripID(ctx context.Context) (int64, error) {
	const query = `SELECT next_id FROM trip_counter WHERE id = 0 FOR UPDATE`
	var next int64
	if err := r.queryRow(ctx, query).Scan(&next); err != nil {
		return 0, fmt.Errorf("next trip id: %w", err)
	}
	return next, nil
}

func (r *RegistryRepository) AdvanceTripID(ctx context.Context, next int64) error {
	const stmt = `UPDATE trip_counter SET next_id = $1 WHERE id = 0`
	if _, err := r.exec(ctx, stmt, next); err != nil {
		return fmt.Errorf("advance trip id: %w", err)
	}
	return nil
}

func (r *RegistryRepository) InsertTrip(ctx context.Context, trip domain.Trip) error {
	const stmt = `
INSERT INTO trips (id, origin, destination, departure_at, vehicle_model,
	total_seats, seats_booked, unit_price, escrow_balance, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		trip.ID,
		trip.Origin,
		trip.Destination,
		trip.DepartureAt,
		trip.VehicleModel,
		trip.TotalSeats,
		trip.SeatsBooked,
		trip.UnitPrice,
		trip.EscrowBalance,
		trip.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert trip: duplicate id %d: %w", trip.ID, err)
		}
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

func (r *RegistryRepository) GetTrip(ctx context.Context, id int64) (domain.Trip, error) {
	return getTrip(ctx, r.queryRow, id, false)
}

func (r *RegistryRepository) AppendRecord(ctx context.Context, kind string, payload any, at time.Time) error {
	return appendRecord(ctx, r.exec, kind, payload, at)
}

func (r *RegistryRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *RegistryRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
