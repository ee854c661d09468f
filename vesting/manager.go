package vesting

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// State is the lifecycle stage of a Manager.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateConfigured    State = "configured"
	StateLaunched      State = "launched"
)

// ManagerState is the persisted form of a Manager, without its ledger.
type ManagerState struct {
	Address    Address     `json:"address"`
	Owner      Address     `json:"owner"`
	LaunchedAt *time.Time  `json:"launched_at,omitempty"`
	Minted     sdkmath.Int `json:"minted"`
	Schedule   *Schedule   `json:"schedule,omitempty"`
}

// ManagerStatus is the public summary of a Manager.
type ManagerStatus struct {
	Address    Address     `json:"address"`
	Owner      Address     `json:"owner"`
	State      State       `json:"state"`
	LaunchedAt *time.Time  `json:"launched_at,omitempty"`
	Minted     sdkmath.Int `json:"minted"`
}

// Manager holds the vesting schedule and pays out what unlocks.
//
// Every method either fails without changes or applies all of them.
type Manager struct {
	address    Address
	owner      Address
	launchedAt time.Time
	minted     sdkmath.Int
	schedule   *Snapshot
	ledger     Ledger
}

// NewManager creates an unconfigured manager paying out from address.
func NewManager(address, owner Address) (*Manager, error) {
	if address.IsPlaceholder() {
		return nil, errorsmod.Wrap(ErrValidation, "manager address can't be empty")
	}
	if err := checkNewOwner(owner); err != nil {
		return nil, err
	}

	return &Manager{
		address: address,
		owner:   owner,
		minted:  sdkmath.ZeroInt(),
		ledger:  Ledger{},
	}, nil
}

// RestoreManager rebuilds a manager from its persisted state and ledger.
func RestoreManager(state ManagerState, ledger Ledger) (*Manager, error) {
	m := &Manager{
		address: state.Address,
		owner:   state.Owner,
		minted:  orZero(state.Minted),
		ledger:  ledger.Clone(),
	}
	if state.LaunchedAt != nil {
		m.launchedAt = *state.LaunchedAt
	}
	if state.Schedule != nil {
		snap, err := NewSnapshot(*state.Schedule)
		if err != nil {
			return nil, errorsmod.Wrap(err, "restore schedule")
		}
		m.schedule = snap
	}
	return m, nil
}

// State returns the persisted form of the manager.
func (m *Manager) State() ManagerState {
	state := ManagerState{
		Address: m.address,
		Owner:   m.owner,
		Minted:  m.minted,
	}
	if m.IsLaunched() {
		launchedAt := m.launchedAt
		state.LaunchedAt = &launchedAt
	}
	if m.schedule != nil {
		s := m.schedule.Schedule()
		state.Schedule = &s
	}
	return state
}

// Ledger returns a copy of the claim records.
func (m *Manager) Ledger() Ledger {
	return m.ledger.Clone()
}

// Address returns the address the manager pays out from.
func (m *Manager) Address() Address {
	return m.address
}

// IsLaunched reports whether vesting has started.
func (m *Manager) IsLaunched() bool {
	return !m.launchedAt.IsZero()
}

// Status reports the lifecycle stage and ownership.
func (m *Manager) Status() ManagerStatus {
	state := m.State()
	status := ManagerStatus{
		Address:    state.Address,
		Owner:      state.Owner,
		State:      StateUninitialized,
		LaunchedAt: state.LaunchedAt,
		Minted:     state.Minted,
	}
	switch {
	case m.IsLaunched():
		status.State = StateLaunched
	case m.schedule != nil:
		status.State = StateConfigured
	}
	return status
}

// Schedule returns the current schedule.
func (m *Manager) Schedule() (Schedule, error) {
	if m.schedule == nil {
		return Schedule{}, errorsmod.Wrap(ErrNotFound, "no schedule configured")
	}
	return m.schedule.Schedule(), nil
}

// Account returns an account of the current schedule.
func (m *Manager) Account(pool, name string) (Account, error) {
	if m.schedule == nil {
		return Account{}, errorsmod.Wrapf(ErrNotFound, "pool %s", pool)
	}
	return m.schedule.Account(pool, name)
}

// Configure replaces the whole schedule.
func (m *Manager) Configure(sender Address, s Schedule) error {
	if err := requireOwner(m.owner, sender); err != nil {
		return err
	}

	snap, err := NewSnapshot(s)
	if err != nil {
		return err
	}
	return m.replaceSchedule(snap)
}

// AddAccount appends an account to an existing pool.
func (m *Manager) AddAccount(sender Address, pool string, a Account) error {
	if err := requireOwner(m.owner, sender); err != nil {
		return err
	}
	if m.schedule == nil {
		return errorsmod.Wrapf(ErrNotFound, "pool %s", pool)
	}

	snap, err := m.schedule.WithAccount(pool, a)
	if err != nil {
		return err
	}
	return m.replaceSchedule(snap)
}

// RebindAccountAddress binds an account created with the placeholder
// address to its real address. It can only be done once per account.
func (m *Manager) RebindAccountAddress(sender Address, pool, name string, addr Address) error {
	if err := requireOwner(m.owner, sender); err != nil {
		return err
	}
	if m.schedule == nil {
		return errorsmod.Wrapf(ErrNotFound, "pool %s", pool)
	}

	snap, err := m.schedule.WithAddress(pool, name, addr)
	if err != nil {
		return err
	}
	return m.replaceSchedule(snap)
}

// replaceSchedule installs snap once it is compatible with what was
// already minted and claimed.
func (m *Manager) replaceSchedule(snap *Snapshot) error {
	if m.IsLaunched() {
		if supply := snap.Supply(); supply.GT(m.minted) {
			return errorsmod.Wrapf(ErrValidation, "schedule needs %s but only %s was minted", supply, m.minted)
		}
		for addr, rec := range m.ledger {
			if allocation := snap.AllocationOf(addr); allocation.LT(orZero(rec.Claimed)) {
				return errorsmod.Wrapf(ErrValidation, "%s already claimed %s, more than the new allocation %s", addr, rec.Claimed, allocation)
			}
		}
	}

	m.schedule = snap
	return nil
}

// SetOwner hands the manager over to newOwner.
func (m *Manager) SetOwner(sender, newOwner Address) error {
	if err := requireOwner(m.owner, sender); err != nil {
		return err
	}
	if err := checkNewOwner(newOwner); err != nil {
		return err
	}

	m.owner = newOwner
	return nil
}

// Disown clears the owner, leaving the schedule as it is forever.
func (m *Manager) Disown(sender Address) error {
	if err := requireOwner(m.owner, sender); err != nil {
		return err
	}

	m.owner = Placeholder
	return nil
}

// Launch starts vesting and mints the schedule's supply to the manager.
func (m *Manager) Launch(sender Address, now time.Time) (Transfer, error) {
	if err := requireOwner(m.owner, sender); err != nil {
		return Transfer{}, err
	}
	if m.schedule == nil {
		return Transfer{}, errorsmod.Wrap(ErrValidation, "can't launch without a schedule")
	}
	if m.IsLaunched() {
		return Transfer{}, errorsmod.Wrapf(ErrConflict, "already launched at %s", m.launchedAt.Format(time.RFC3339))
	}

	supply := m.schedule.Supply()
	m.launchedAt = now.UTC().Truncate(time.Second)
	m.minted = supply

	return newTransfer(TransferMint, Placeholder, m.address, supply, m.launchedAt), nil
}

// Progress reports how much addr can claim at the given time.
func (m *Manager) Progress(addr Address, at time.Time) (Progress, error) {
	if !m.IsLaunched() {
		return Progress{}, errorsmod.Wrap(ErrNotLaunched, "vesting hasn't started")
	}

	p := Progress{
		Address:   addr,
		Time:      at.UTC().Truncate(time.Second),
		Launched:  m.launchedAt,
		Unlocked:  sdkmath.ZeroInt(),
		Claimed:   m.ledger.Claimed(addr),
		Claimable: sdkmath.ZeroInt(),
	}
	if at.Unix() >= m.launchedAt.Unix() {
		p.Elapsed = Seconds(at.Unix() - m.launchedAt.Unix())
		p.Unlocked = m.schedule.UnlockedOf(addr, p.Elapsed)
	}
	if p.Unlocked.GT(p.Claimed) {
		p.Claimable = p.Unlocked.Sub(p.Claimed)
	}
	return p, nil
}

// Claim pays addr everything unlocked and not yet claimed.
func (m *Manager) Claim(addr Address, now time.Time) (Transfer, ClaimRecord, error) {
	if addr.IsPlaceholder() {
		return Transfer{}, ClaimRecord{}, errorsmod.Wrap(ErrValidation, "claimant can't be empty")
	}

	p, err := m.Progress(addr, now)
	if err != nil {
		return Transfer{}, ClaimRecord{}, err
	}
	if !p.Claimable.IsPositive() {
		return Transfer{}, ClaimRecord{}, errorsmod.Wrapf(ErrNothingToClaim, "%s has claimed %s of %s unlocked", addr, p.Claimed, p.Unlocked)
	}

	rec := m.ledger.record(addr, p.Claimable, p.Time)
	return newTransfer(TransferClaim, m.address, addr, p.Claimable, p.Time), rec, nil
}
