package vesting

import (
	sdkmath "cosmossdk.io/math"
)

// Unlocked returns how much of the account's amount is released once
// elapsed seconds have passed since launch.
//
// Unlocking is stepwise: nothing before StartAt, then the cliff (if any)
// followed by Duration/Interval equal portions, one per Interval. Without a
// cliff the first portion is released at StartAt. The remainder of the
// integer division is released with the last portion. Duration must be a
// whole number of intervals, see Account.Validate.
func (a Account) Unlocked(elapsed Seconds) sdkmath.Int {
	if elapsed < a.StartAt {
		return sdkmath.ZeroInt()
	}

	t := elapsed - a.StartAt
	if a.Duration == 0 || t >= a.Duration {
		return a.Amount
	}

	portions := a.Duration / a.Interval
	cliff := a.CliffAmount()

	vested := t / a.Interval
	if cliff.IsZero() {
		vested++
	}
	if vested >= portions {
		return a.Amount
	}

	portion := a.Amount.Sub(cliff).Quo(sdkmath.NewIntFromUint64(portions))
	return cliff.Add(portion.Mul(sdkmath.NewIntFromUint64(vested)))
}
