// Package memstore keeps the vesting state in memory, for tests and
// development.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	sdkmath "cosmossdk.io/math"

	"github.com/screwyprof/vesting/service"
	"github.com/screwyprof/vesting/vesting"
)

// ErrReadOnly is returned by writes attempted in View.
var ErrReadOnly = errors.New("write in read-only transaction")

type state struct {
	manager   *vesting.ManagerState
	claims    vesting.Ledger
	splitter  *vesting.SplitterState
	balances  map[vesting.Address]sdkmath.Int
	transfers []vesting.Transfer
}

// clone copies everything but the transfer journal, which is append-only
// and only grows on commit.
func (st state) clone() state {
	out := state{
		claims:    st.claims.Clone(),
		balances:  maps.Clone(st.balances),
		transfers: st.transfers,
	}
	if st.manager != nil {
		m := cloneManager(*st.manager)
		out.manager = &m
	}
	if st.splitter != nil {
		sp := *st.splitter
		sp.Config = sp.Config.Clone()
		out.splitter = &sp
	}
	if out.balances == nil {
		out.balances = make(map[vesting.Address]sdkmath.Int)
	}
	return out
}

func cloneManager(m vesting.ManagerState) vesting.ManagerState {
	if m.Schedule != nil {
		s := m.Schedule.Clone()
		m.Schedule = &s
	}
	return m
}

// Store implements service.Store. Updates work on a copy of the state that
// replaces it only when the unit of work succeeds.
type Store struct {
	mu    sync.RWMutex
	state state
}

// New creates an empty store.
func New() *Store {
	return &Store{state: state{}.clone()}
}

// View runs fn with read access.
func (s *Store) View(ctx context.Context, fn func(service.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&tx{st: &s.state, readOnly: true})
}

// Update runs fn with write access, committing its writes only on success.
func (s *Store) Update(ctx context.Context, fn func(service.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	t := &tx{st: &work}
	if err := fn(t); err != nil {
		return err
	}
	s.state = work
	s.state.transfers = append(s.state.transfers, t.pending...)
	return nil
}

// Transfers returns the journal of committed transfers, oldest first.
func (s *Store) Transfers() []vesting.Transfer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.state.transfers)
}

type tx struct {
	st       *state
	readOnly bool
	pending  []vesting.Transfer
}

func (t *tx) write() error {
	if t.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (t *tx) LoadManager(context.Context) (vesting.ManagerState, error) {
	if t.st.manager == nil {
		return vesting.ManagerState{}, service.ErrNotInstantiated
	}
	return cloneManager(*t.st.manager), nil
}

func (t *tx) SaveManager(_ context.Context, m vesting.ManagerState) error {
	if err := t.write(); err != nil {
		return err
	}
	t.st.manager = &m
	return nil
}

func (t *tx) LoadClaims(context.Context) (vesting.Ledger, error) {
	return t.st.claims.Clone(), nil
}

func (t *tx) SaveClaim(_ context.Context, addr vesting.Address, rec vesting.ClaimRecord) error {
	if err := t.write(); err != nil {
		return err
	}
	t.st.claims[addr] = rec
	return nil
}

func (t *tx) LoadSplitter(context.Context) (vesting.SplitterState, error) {
	if t.st.splitter == nil {
		return vesting.SplitterState{}, service.ErrNotInstantiated
	}
	sp := *t.st.splitter
	sp.Config = sp.Config.Clone()
	return sp, nil
}

func (t *tx) SaveSplitter(_ context.Context, sp vesting.SplitterState) error {
	if err := t.write(); err != nil {
		return err
	}
	t.st.splitter = &sp
	return nil
}

func (t *tx) ApplyTransfer(_ context.Context, tr vesting.Transfer) error {
	if err := t.write(); err != nil {
		return err
	}

	if tr.Kind != vesting.TransferMint {
		from := t.balance(tr.From)
		if from.LT(tr.Amount) {
			return fmt.Errorf("%w: %s has %s, needs %s", service.ErrInsufficientFunds, tr.From, from, tr.Amount)
		}
		t.st.balances[tr.From] = from.Sub(tr.Amount)
	}
	t.st.balances[tr.To] = t.balance(tr.To).Add(tr.Amount)
	t.pending = append(t.pending, tr)
	return nil
}

func (t *tx) Balance(_ context.Context, addr vesting.Address) (sdkmath.Int, error) {
	return t.balance(addr), nil
}

func (t *tx) balance(addr vesting.Address) sdkmath.Int {
	if b, ok := t.st.balances[addr]; ok {
		return b
	}
	return sdkmath.ZeroInt()
}
