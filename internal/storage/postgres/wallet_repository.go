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

type WalletRepository struct {
	pool *pgxpool.Pool
}

func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

func (r *WalletRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetWallet reads a wallet without locking; an absent wallet reads as a
// zero balance (the service layer maps zero to ErrNoBalance).
func (r *WalletRepository) GetWallet(ctx context.Context, holder string) (domain.Wallet, error) {
	const query = `SELECT holder, balance, updated_at FROM wallets WHERE holder = $1`
	var w domain.Wallet
	err := r.queryRow(ctx, query, holder).Scan(&w.Holder, &w.Balance, &w.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Wallet{Holder: holder}, nil
		}
		return domain.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

func (r *WalletRepository) GetWalletForUpdate(ctx context.Context, holder string) (domain.Wallet, error) {
	return getWalletForUpdate(ctx, r.exec, r.queryRow, holder)
}

func (r *WalletRepository) UpsertWallet(ctx context.Context, holder string, balance int64, at time.Time) error {
	return upsertWallet(ctx, r.exec, holder, balance, at)
}

func (r *WalletRepository) AppendRecord(ctx context.Context, kind string, payload any, at time.Time) error {
	return appendRecord(ctx, r.exec, kind, payload, at)
}

func (r *WalletRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *WalletRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

// getWalletForUpdate ensures the wallet row exists, then locks it for
// the remainder of the transaction. Creating the row first means two
// concurrent first-time operations on the same holder serialize on the
// row lock rather than racing the insert.
func getWalletForUpdate(ctx context.Context, exec execFunc, queryRow rowFunc, holder string) (domain.Wallet, error) {
	const ensure = `
INSERT INTO wallets (holder, balance, updated_at) VALUES ($1, 0, NOW())
ON CONFLICT (holder) DO NOTHING`
	if _, err := exec(ctx, ensure, holder); err != nil {
		return domain.Wallet{}, fmt.Errorf("ensure wallet row: %w", err)
	}

	const query = `SELECT holder, balance, updated_at FROM wallets WHERE holder = $1 FOR UPDATE`
	var w domain.Wallet
	if err := queryRow(ctx, query, holder).Scan(&w.Holder, &w.Balance, &w.UpdatedAt); err != nil {
		return domain.Wallet{}, fmt.Errorf("lock wallet: %w", err)
	}
	return w, nil
}

func upsertWallet(ctx context.Context, exec execFunc, holder string, balance int64, at time.Time) error {
	const stmt = `
INSERT INTO wallets (holder, balance, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (holder) DO UPDATE SET balance = EXCLUDED.balance, updated_at = EXCLUDED.updated_at`
	if _, err := exec(ctx, stmt, holder, balance, at); err != nil {
		return fmt.Errorf("upsert wallet: %w", err)
	}
	return nil
}
