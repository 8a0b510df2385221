package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/grossitech/FlyChain/internal/domain"
	"github.com/grossitech/FlyChain/internal/testutil"
)

func TestCustodyRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewCustodyRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	departure := time.Now().UTC().Add(10 * 24 * time.Hour).Truncate(time.Microsecond)

	t.Run("zeroing escrow keeps seats booked", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertTrip(t, ctx, pool, 0, departure, 40, domain.UnitPrice)
		if err := repo.UpdateTripBalances(ctx, 0, 5, 5*domain.UnitPrice); err != nil {
			t.Fatalf("seed balances: %v", err)
		}

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			trip, err := repo.GetTripForUpdate(txCtx, 0)
			if err != nil {
				return err
			}
			return repo.UpdateTripBalances(txCtx, trip.ID, trip.SeatsBooked, 0)
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		trip, err := repo.GetTrip(ctx, 0)
		if err != nil {
			t.Fatalf("get trip: %v", err)
		}
		if trip.SeatsBooked != 5 || trip.EscrowBalance != 0 {
			t.Fatalf("unexpected trip: %+v", trip)
		}
	})

	t.Run("payout row commits with the transaction", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		payout := NewPayoutRecorder(pool)

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return payout.Transfer(txCtx, "op-1", 30000, "withdrawal-test")
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		var count int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM payouts WHERE recipient = 'op-1'`).Scan(&count); err != nil {
			t.Fatalf("count payouts: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected one payout row, got %d", count)
		}
	})

	t.Run("payout row rolls back with the transaction", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		payout := NewPayoutRecorder(pool)

		sentinel := errors.New("abort")
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			if err := payout.Transfer(txCtx, "op-1", 30000, "withdrawal-test"); err != nil {
				return err
			}
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}

		var count int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM payouts`).Scan(&count); err != nil {
			t.Fatalf("count payouts: %v", err)
		}
		if count != 0 {
			t.Fatalf("expected no payout rows, got %d", count)
		}
	})

	t.Run("payout rejects non-positive amounts", func(t *testing.T) {
		ctx := context.Background()
		payout := NewPayoutRecorder(pool)
		if err := payout.Transfer(ctx, "op-1", 0, "withdrawal-test"); err == nil {
			t.Fatal("expected an error")
		}
	})
}
