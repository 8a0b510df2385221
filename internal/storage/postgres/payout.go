package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PayoutRecorder is the default outward-transfer collaborator: it
// records the transfer as a payout row in the same transaction as the
// ledger mutation, handing settlement to a downstream processor. A
// failed insert aborts the whole operation, so funds are never marked
// moved without a committed payout.
type PayoutRecorder struct {
	pool *pgxpool.Pool
}

func NewPayoutRecorder(pool *pgxpool.Pool) *PayoutRecorder {
	return &PayoutRecorder{pool: pool}
}

func (p *PayoutRecorder) Transfer(ctx context.Context, recipient string, amount int64, reference string) error {
	if amount <= 0 {
		return fmt.Errorf("payout amount must be positive, got %d", amount)
	}
	const stmt = `
INSERT INTO payouts (recipient, amount, reference, created_at)
VALUES ($1, $2, $3, NOW())`
	if _, err := p.exec(ctx, stmt, recipient, amount, reference); err != nil {
		return fmt.Errorf("record payout: %w", err)
	}
	return nil
}

func (p *PayoutRecorder) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return p.pool.Exec(ctx, sql, args...)
}
