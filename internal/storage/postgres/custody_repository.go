package postgres

import (
	"context"
	"time"

	"github.com/grossitech/FlyChain/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustodyRepository struct {
	pool *pgxpool.Pool
}

func NewCustodyRepository(pool *pgxpool.Pool) *CustodyRepository {
	return &CustodyRepository{pool: pool}
}

func (r *CustodyRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *CustodyRepository) GetTrip(ctx context.Context, id int64) (domain.Trip, error) {
	return getTrip(ctx, r.queryRow, id, false)
}

func (r *CustodyRepository) GetTripForUpdate(ctx context.Context, id int64) (domain.Trip, error) {
	return getTrip(ctx, r.queryRow, id, true)
}

func (r *CustodyRepository) UpdateTripBalances(ctx context.Context, id int64, seatsBooked int, escrow int64) error {
	return updateTripBalances(ctx, r.exec, id, seatsBooked, escrow)
}

func (r *CustodyRepository) AppendRecord(ctx context.Context, kind string, payload any, at time.Time) error {
	return appendRecord(ctx, r.exec, kind, payload, at)
}

func (r *CustodyRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *CustodyRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
