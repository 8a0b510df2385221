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

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *BookingRepository) GetTripForUpdate(ctx context.Context, id int64) (domain.Trip, error) {
	return getTrip(ctx, r.queryRow, id, true)
}

func (r *BookingRepository) UpdateTripBalances(ctx context.Context, id int64, seatsBooked int, escrow int64) error {
	return updateTripBalances(ctx, r.exec, id, seatsBooked, escrow)
}

// GetWalletForUpdate locks the holder's wallet row, creating it with a
// zero balance first when absent so there is always a row to lock.
func (r *BookingRepository) GetWalletForUpdate(ctx context.Context, holder string) (domain.Wallet, error) {
	return getWalletForUpdate(ctx, r.exec, r.queryRow, holder)
}

func (r *BookingRepository) UpsertWallet(ctx context.Context, holder string, balance int64, at time.Time) error {
	return upsertWallet(ctx, r.exec, holder, balance, at)
}

// GetTicketForUpdate locks the (trip, holder) ownership row, creating
// it with zero units first when absent.
func (r *BookingRepository) GetTicketForUpdate(ctx context.Context, tripID int64, holder string) (domain.Ticket, error) {
	const ensure = `
INSERT INTO tickets (trip_id, holder, units) VALUES ($1, $2, 0)
ON CONFLICT (trip_id, holder) DO NOTHING`
	if _, err := r.exec(ctx, ensure, tripID, holder); err != nil {
		return domain.Ticket{}, fmt.Errorf("ensure ticket row: %w", err)
	}

	const query = `SELECT trip_id, holder, units FROM tickets WHERE trip_id = $1 AND holder = $2 FOR UPDATE`
	var t domain.Ticket
	if err := r.queryRow(ctx, query, tripID, holder).Scan(&t.TripID, &t.Holder, &t.Units); err != nil {
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (r *BookingRepository) UpsertTicket(ctx context.Context, tripID int64, holder string, units int) error {
	if units < 0 {
		return fmt.Errorf("%w: trip %d, holder %s", domain.ErrTicketUnderflow, tripID, holder)
	}
	const stmt = `
INSERT INTO tickets (trip_id, holder, units) VALUES ($1, $2, $3)
ON CONFLICT (trip_id, holder) DO UPDATE SET units = EXCLUDED.units`
	if _, err := r.exec(ctx, stmt, tripID, holder, units); err != nil {
		return fmt.Errorf("upsert ticket: %w", err)
	}
	return nil
}

func (r *BookingRepository) AppendRecord(ctx context.Context, kind string, payload any, at time.Time) error {
	return appendRecord(ctx, r.exec, kind, payload, at)
}

func (r *BookingRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *BookingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
