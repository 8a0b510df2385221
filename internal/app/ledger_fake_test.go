package app

import (
	"context"
	"fmt"
	"time"

	"github.com/grossitech/FlyChain/internal/domain"
)

// fakeLedger backs all service repo interfaces in memory. WithTx
// snapshots state before the closure and restores it on error, so
// rollback semantics are observable in tests.
type fakeLedger struct {
	trips   map[int64]domain.Trip
	nextID  int64
	wallets map[string]domain.Wallet
	tickets map[string]int
	records []fakeRecord
}

type fakeRecord struct {
	kind    string
	payload any
	at      time.Time
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		trips:   make(map[int64]domain.Trip),
		wallets: make(map[string]domain.Wallet),
		tickets: make(map[string]int),
	}
}

func ticketKey(tripID int64, holder string) string {
	return fmt.Sprintf("%d/%s", tripID, holder)
}

func (f *fakeLedger) addTrip(t domain.Trip) {
	f.trips[t.ID] = t
	if t.ID >= f.nextID {
		f.nextID = t.ID + 1
	}
}

func (f *fakeLedger) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := f.snapshot()
	if err := fn(ctx); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeLedger) snapshot() *fakeLedger {
	s := newFakeLedger()
	for k, v := range f.trips {
		s.trips[k] = v
	}
	for k, v := range f.wallets {
		s.wallets[k] = v
	}
	for k, v := range f.tickets {
		s.tickets[k] = v
	}
	s.nextID = f.nextID
	s.records = append([]fakeRecord{}, f.records...)
	return s
}

func (f *fakeLedger) restore(s *fakeLedger) {
	f.trips = s.trips
	f.wallets = s.wallets
	f.tickets = s.tickets
	f.nextID = s.nextID
	f.records = s.records
}

func (f *fakeLedger) NextTripID(_ context.Context) (int64, error) {
	return f.nextID, nil
}

func (f *fakeLedger) AdvanceTripID(_ context.Context, next int64) error {
	f.nextID = next
	return nil
}

func (f *fakeLedger) InsertTrip(_ context.Context, trip domain.Trip) error {
	if _, exists := f.trips[trip.ID]; exists {
		return fmt.Errorf("duplicate trip id %d", trip.ID)
	}
	f.trips[trip.ID] = trip
	return nil
}

func (f *fakeLedger) GetTrip(_ context.Context, id int64) (domain.Trip, error) {
	t, ok := f.trips[id]
	if !ok {
		return domain.Trip{}, fmt.Errorf("%w: id %d", domain.ErrTripNotFound, id)
	}
	return t, nil
}

func (f *fakeLedger) GetTripForUpdate(ctx context.Context, id int64) (domain.Trip, error) {
	return f.GetTrip(ctx, id)
}

func (f *fakeLedger) UpdateTripBalances(_ context.Context, id int64, seatsBooked int, escrow int64) error {
	t, ok := f.trips[id]
	if !ok {
		return fmt.Errorf("%w: id %d", domain.ErrTripNotFound, id)
	}
	t.SeatsBooked = seatsBooked
	t.EscrowBalance = escrow
	f.trips[id] = t
	return nil
}

func (f *fakeLedger) GetWallet(_ context.Context, holder string) (domain.Wallet, error) {
	w, ok := f.wallets[holder]
	if !ok {
		return domain.Wallet{Holder: holder}, nil
	}
	return w, nil
}

func (f *fakeLedger) GetWalletForUpdate(ctx context.Context, holder string) (domain.Wallet, error) {
	return f.GetWallet(ctx, holder)
}

func (f *fakeLedger) UpsertWallet(_ context.Context, holder string, balance int64, at time.Time) error {
	f.wallets[holder] = domain.Wallet{Holder: holder, Balance: balance, UpdatedAt: at}
	return nil
}

func (f *fakeLedger) GetTicketForUpdate(_ context.Context, tripID int64, holder string) (domain.Ticket, error) {
	return domain.Ticket{TripID: tripID, Holder: holder, Units: f.tickets[ticketKey(tripID, holder)]}, nil
}

func (f *fakeLedger) UpsertTicket(_ context.Context, tripID int64, holder string, units int) error {
	if units < 0 {
		return fmt.Errorf("%w: trip %d, holder %s", domain.ErrTicketUnderflow, tripID, holder)
	}
	f.tickets[ticketKey(tripID, holder)] = units
	return nil
}

func (f *fakeLedger) AppendRecord(_ context.Context, kind string, payload any, at time.Time) error {
	f.records = append(f.records, fakeRecord{kind: kind, payload: payload, at: at})
	return nil
}

// unitsTotal sums held units across holders for one trip.
func (f *fakeLedger) unitsTotal(tripID int64) int {
	total := 0
	prefix := fmt.Sprintf("%d/", tripID)
	for k, v := range f.tickets {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			total += v
		}
	}
	return total
}

// fakePayout records outward transfers and can be told to fail.
type fakePayout struct {
	transfers []fakeTransfer
	err       error
}

type fakeTransfer struct {
	recipient string
	amount    int64
	reference string
}

func (p *fakePayout) Transfer(_ context.Context, recipient string, amount int64, reference string) error {
	if p.err != nil {
		return p.err
	}
	p.transfers = append(p.transfers, fakeTransfer{recipient: recipient, amount: amount, reference: reference})
	return nil
}
