package app

import (
	"context"
	"fmt"
	"time"

	"github.com/grossitech/FlyChain/internal/clock"
	"github.com/grossitech/FlyChain/internal/domain"
	"github.com/grossitech/FlyChain/internal/events"
)

// WalletRepository is the storage surface needed by the holder wallet.
type WalletRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetWallet(ctx context.Context, holder string) (domain.Wallet, error)
	GetWalletForUpdate(ctx context.Context, holder string) (domain.Wallet, error)
	UpsertWallet(ctx context.Context, holder string, balance int64, at time.Time) error
	AppendRecord(ctx context.Context, kind string, payload any, at time.Time) error
}

// WalletService maintains per-holder balances. A zero balance reads as
// absent: BalanceOf and Claim both fail with ErrNoBalance.
type WalletService struct {
	repo   WalletRepository
	payout Payout
	clock  clock.Clock
}

func NewWalletService(repo WalletRepository, payout Payout, clk clock.Clock) *WalletService {
	return &WalletService{
		repo:   repo,
		payout: payout,
		clock:  clk,
	}
}

type DepositInput struct {
	Holder string
	Amount int64
}

// Deposit credits the holder's balance, creating the wallet on first use.
func (s *WalletService) Deposit(ctx context.Context, in DepositInput) (domain.Wallet, error) {
	if in.Amount <= 0 {
		return domain.Wallet{}, fmt.Errorf("%w: got %d", domain.ErrInvalidAmount, in.Amount)
	}

	now := s.clock.Now()
	var wallet domain.Wallet

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		w, err := s.repo.GetWalletForUpdate(txCtx, in.Holder)
		if err != nil {
			return err
		}
		balance, ok := domain.AddAmount(w.Balance, in.Amount)
		if !ok {
			return fmt.Errorf("%w: holder %s", domain.ErrBalanceOverflow, in.Holder)
		}
		if err := s.repo.UpsertWallet(txCtx, in.Holder, balance, now); err != nil {
			return err
		}
		wallet = domain.Wallet{Holder: in.Holder, Balance: balance, UpdatedAt: now}
		return nil
	})
	if err != nil {
		return domain.Wallet{}, err
	}
	return wallet, nil
}

// BalanceOf reads a holder's balance; zero is reported as ErrNoBalance.
func (s *WalletService) BalanceOf(ctx context.Context, holder string) (int64, error) {
	wallet, err := s.repo.GetWallet(ctx, holder)
	if err != nil {
		return 0, err
	}
	if wallet.Balance == 0 {
		return 0, fmt.Errorf("%w: holder %s", domain.ErrNoBalance, holder)
	}
	return wallet.Balance, nil
}

type ClaimInput struct {
	Holder string
}

// Claim empties the holder's wallet and transfers the amount outward.
// The balance is zeroed before the transfer; a failed transfer rolls
// the whole operation back.
func (s *WalletService) Claim(ctx context.Context, in ClaimInput) (int64, error) {
	now := s.clock.Now()
	var amount int64

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		wallet, err := s.repo.GetWalletForUpdate(txCtx, in.Holder)
		if err != nil {
			return err
		}
		if wallet.Balance == 0 {
			return fmt.Errorf("%w: holder %s", domain.ErrNoBalance, in.Holder)
		}
		amount = wallet.Balance

		if err := s.repo.UpsertWallet(txCtx, in.Holder, 0, now); err != nil {
			return err
		}
		record := events.BalanceClaimed{Holder: in.Holder, Amount: amount}
		if err := s.repo.AppendRecord(txCtx, events.KindBalanceClaimed, record, now); err != nil {
			return err
		}
		return s.payout.Transfer(txCtx, in.Holder, amount, newReference("claim"))
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}
