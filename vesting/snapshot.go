package vesting

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

type accountRef struct {
	pool    int
	account int
}

// Snapshot is a validated, immutable schedule indexed for lookups by pool,
// by account and by address. Changes produce a new Snapshot.
type Snapshot struct {
	schedule  Schedule
	pools     map[string]int
	accounts  []map[string]int
	byAddress map[Address][]accountRef
}

// NewSnapshot validates the schedule and indexes a private copy of it.
func NewSnapshot(s Schedule) (*Snapshot, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	s = s.Clone()
	snap := &Snapshot{
		schedule:  s,
		pools:     make(map[string]int, len(s.Pools)),
		accounts:  make([]map[string]int, len(s.Pools)),
		byAddress: make(map[Address][]accountRef),
	}

	for i, p := range s.Pools {
		snap.pools[p.Name] = i
		snap.accounts[i] = make(map[string]int, len(p.Accounts))
		for j, a := range p.Accounts {
			snap.accounts[i][a.Name] = j
			if !a.Address.IsPlaceholder() {
				snap.byAddress[a.Address] = append(snap.byAddress[a.Address], accountRef{pool: i, account: j})
			}
		}
	}

	return snap, nil
}

// Schedule returns a copy of the indexed schedule.
func (s *Snapshot) Schedule() Schedule {
	return s.schedule.Clone()
}

// Supply returns the amount needed to fund the schedule.
func (s *Snapshot) Supply() sdkmath.Int {
	return s.schedule.Supply()
}

// Account looks up an account by pool and account name.
func (s *Snapshot) Account(pool, name string) (Account, error) {
	ref, err := s.find(pool, name)
	if err != nil {
		return Account{}, err
	}
	return s.at(ref), nil
}

// AllocationOf returns the sum of amounts of all accounts bound to addr.
func (s *Snapshot) AllocationOf(addr Address) sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, ref := range s.byAddress[addr] {
		total = total.Add(s.at(ref).Amount)
	}
	return total
}

// UnlockedOf returns how much addr may have received once elapsed seconds
// have passed since launch, summed over all its accounts.
func (s *Snapshot) UnlockedOf(addr Address, elapsed Seconds) sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, ref := range s.byAddress[addr] {
		total = total.Add(s.at(ref).Unlocked(elapsed))
	}
	return total
}

// WithAccount returns a new snapshot with a appended to the named pool.
func (s *Snapshot) WithAccount(pool string, a Account) (*Snapshot, error) {
	i, ok := s.pools[pool]
	if !ok {
		return nil, errorsmod.Wrapf(ErrNotFound, "pool %s", pool)
	}
	if _, exists := s.accounts[i][a.Name]; exists {
		return nil, errorsmod.Wrapf(ErrConflict, "account %s already exists in pool %s", a.Name, pool)
	}

	next := s.schedule.Clone()
	next.Pools[i].Accounts = append(next.Pools[i].Accounts, a)
	return NewSnapshot(next)
}

// WithAddress returns a new snapshot where the named account, which must
// still have the placeholder address, is bound to addr.
func (s *Snapshot) WithAddress(pool, name string, addr Address) (*Snapshot, error) {
	if addr.IsPlaceholder() {
		return nil, errorsmod.Wrap(ErrValidation, "address can't be empty")
	}

	ref, err := s.find(pool, name)
	if err != nil {
		return nil, err
	}
	if current := s.at(ref).Address; !current.IsPlaceholder() {
		return nil, errorsmod.Wrapf(ErrConflict, "account %s in pool %s is already bound to %s", name, pool, current)
	}

	next := s.schedule.Clone()
	next.Pools[ref.pool].Accounts[ref.account].Address = addr
	return NewSnapshot(next)
}

func (s *Snapshot) find(pool, name string) (accountRef, error) {
	i, ok := s.pools[pool]
	if !ok {
		return accountRef{}, errorsmod.Wrapf(ErrNotFound, "pool %s", pool)
	}
	j, ok := s.accounts[i][name]
	if !ok {
		return accountRef{}, errorsmod.Wrapf(ErrNotFound, "account %s in pool %s", name, pool)
	}
	return accountRef{pool: i, account: j}, nil
}

func (s *Snapshot) at(ref accountRef) Account {
	return s.schedule.Pools[ref.pool].Accounts[ref.account]
}
