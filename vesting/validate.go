package vesting

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/samber/lo"
)

// Validation happens in layers:
//
//  1. decoding into the structs of this package rejects malformed input;
//  2. Validate checks names, amounts, vesting parameters and that sums
//     don't exceed budgets;
//  3. the Manager rejects reconfigurations of a launched schedule that
//     would need more than was minted or take back what was claimed.

// Validate checks the whole schedule.
func (s Schedule) Validate() error {
	if dup := lo.FindDuplicates(lo.Map(s.Pools, func(p Pool, _ int) string { return p.Name })); len(dup) > 0 {
		return errorsmod.Wrapf(ErrValidation, "schedule: duplicate pool name %q", dup[0])
	}

	for _, p := range s.Pools {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	if s.Total == nil {
		if reason := checkAmount(s.Supply()); reason != "" {
			return errorsmod.Wrapf(ErrValidation, "schedule: supply %s", reason)
		}
		return nil
	}
	if reason := checkAmount(*s.Total); reason != "" {
		return errorsmod.Wrapf(ErrValidation, "schedule: total %s", reason)
	}
	if supply := s.Supply(); !supply.Equal(*s.Total) {
		return errorsmod.Wrapf(ErrValidation, "schedule: pools add up to %s, expected %s", supply, s.Total)
	}
	return nil
}

// Supply returns how many tokens the schedule needs to be funded:
// its total if set, otherwise the sum of pool budgets.
func (s Schedule) Supply() sdkmath.Int {
	if s.Total != nil {
		return *s.Total
	}
	return sumInts(lo.Map(s.Pools, func(p Pool, _ int) sdkmath.Int { return p.Budget() })...)
}

// Validate checks the pool's accounts and its budget.
func (p Pool) Validate() error {
	if p.Name == "" {
		return errorsmod.Wrap(ErrValidation, "pool name can't be empty")
	}
	if dup := lo.FindDuplicates(lo.Map(p.Accounts, func(a Account, _ int) string { return a.Name })); len(dup) > 0 {
		return errorsmod.Wrapf(ErrValidation, "pool %s: duplicate account name %q", p.Name, dup[0])
	}

	for _, a := range p.Accounts {
		if err := a.Validate(); err != nil {
			return errorsmod.Wrapf(err, "pool %s", p.Name)
		}
	}

	if p.Total == nil {
		return nil
	}
	if reason := checkAmount(*p.Total); reason != "" {
		return errorsmod.Wrapf(ErrValidation, "pool %s: total %s", p.Name, reason)
	}

	allocated := p.Allocated()
	invalid := allocated.GT(*p.Total)
	if !p.Partial {
		invalid = !allocated.Equal(*p.Total)
	}
	if invalid {
		return errorsmod.Wrapf(ErrValidation, "pool %s: accounts add up to %s, expected %s", p.Name, allocated, p.Total)
	}
	return nil
}

// Validate checks the account's amounts and vesting parameters.
func (a Account) Validate() error {
	if a.Name == "" {
		return errorsmod.Wrap(ErrValidation, "account name can't be empty")
	}
	if reason := checkAmount(a.Amount); reason != "" {
		return errorsmod.Wrapf(ErrValidation, "account %s: amount %s", a.Name, reason)
	}
	if a.Cliff != nil {
		if reason := checkAmount(*a.Cliff); reason != "" {
			return errorsmod.Wrapf(ErrValidation, "account %s: cliff %s", a.Name, reason)
		}
		if a.Cliff.GT(a.Amount) {
			return errorsmod.Wrapf(ErrValidation, "account %s: cliff %s can't be larger than amount %s", a.Name, a.Cliff, a.Amount)
		}
	}

	if a.Duration == 0 {
		if a.Interval != 0 {
			return errorsmod.Wrapf(ErrValidation, "account %s: immediate vesting can't have an interval", a.Name)
		}
		return nil
	}
	if a.Interval == 0 {
		return errorsmod.Wrapf(ErrValidation, "account %s: periodic vesting's interval can't be 0", a.Name)
	}
	if a.Interval > a.Duration {
		return errorsmod.Wrapf(ErrValidation, "account %s: interval %d can't be longer than duration %d", a.Name, a.Interval, a.Duration)
	}
	if a.Duration%a.Interval != 0 {
		return errorsmod.Wrapf(ErrValidation, "account %s: duration %d must be a multiple of interval %d", a.Name, a.Duration, a.Interval)
	}
	return nil
}
