package vesting

import (
	"slices"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"sigs.k8s.io/yaml"
)

// Schedule is the vesting configuration: pools of accounts.
// When Total is set, the pools must add up to it.
type Schedule struct {
	Total *sdkmath.Int `json:"total,omitempty"`
	Pools []Pool       `json:"pools"`
}

// Pool is a named group of accounts sharing a budget.
// When Total is set and Partial is false, accounts must add up to exactly
// Total; a partial pool may be filled up later with AddAccount.
type Pool struct {
	Name     string       `json:"name"`
	Total    *sdkmath.Int `json:"total,omitempty"`
	Partial  bool         `json:"partial"`
	Accounts []Account    `json:"accounts"`
}

// Account is an address entitled to a scheduled allocation.
//
// Immediate release is the special case Duration == Interval == 0: the whole
// Amount unlocks at StartAt. Otherwise Amount-Cliff is released in
// Duration/Interval equal portions, the last one carrying the remainder.
type Account struct {
	// Name is unique within the pool.
	Name string `json:"name"`
	// Address of the recipient, possibly the Placeholder.
	Address Address `json:"address"`
	// Amount is the total allocation of this account.
	Amount sdkmath.Int `json:"amount"`
	// Cliff, if positive, is released first and pushes the regular
	// portions back by one interval.
	Cliff *sdkmath.Int `json:"cliff,omitempty"`
	// StartAt is how many seconds after launch vesting begins.
	StartAt Seconds `json:"start_at"`
	// Interval is how many seconds pass between portions.
	Interval Seconds `json:"interval"`
	// Duration is how many seconds it takes to release the whole amount.
	Duration Seconds `json:"duration"`
}

// ParseSchedule decodes a JSON or YAML schedule document.
// Amounts must be given as strings.
func ParseSchedule(data []byte) (Schedule, error) {
	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schedule{}, errorsmod.Wrapf(ErrValidation, "decode schedule: %v", err)
	}
	return s, nil
}

// Clone returns a deep copy of the schedule.
func (s Schedule) Clone() Schedule {
	s.Pools = slices.Clone(s.Pools)
	for i, p := range s.Pools {
		s.Pools[i] = p.Clone()
	}
	return s
}

// CliffAmount returns the cliff, zero when unset.
func (a Account) CliffAmount() sdkmath.Int {
	if a.Cliff == nil {
		return sdkmath.ZeroInt()
	}
	return orZero(*a.Cliff)
}

// Clone returns a deep copy of the pool.
func (p Pool) Clone() Pool {
	p.Accounts = slices.Clone(p.Accounts)
	return p
}

// Allocated returns the sum of the pool's account amounts.
func (p Pool) Allocated() sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, a := range p.Accounts {
		total = total.Add(orZero(a.Amount))
	}
	return total
}

// Budget returns the pool's total if set, otherwise what is allocated.
func (p Pool) Budget() sdkmath.Int {
	if p.Total == nil {
		return p.Allocated()
	}
	return *p.Total
}
