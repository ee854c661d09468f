package vesting

import (
	sdkmath "cosmossdk.io/math"
)

// MaxAmountBits bounds amounts and weights to unsigned 128-bit token
// units. Products of two values then never overflow sdkmath.Int.
const MaxAmountBits = 128

// Seconds is the unit of time used by vesting parameters.
type Seconds = uint64

// orZero returns the zero Int for unset (nil) values.
func orZero(v sdkmath.Int) sdkmath.Int {
	if v.IsNil() {
		return sdkmath.ZeroInt()
	}
	return v
}

// checkAmount reports why v is not a valid non-negative bounded amount.
func checkAmount(v sdkmath.Int) string {
	switch {
	case v.IsNil():
		return "is missing"
	case v.IsNegative():
		return "can't be negative"
	case v.BigInt().BitLen() > MaxAmountBits:
		return "exceeds 128 bits"
	}
	return ""
}

// sumInts adds up values, treating unset values as zero.
func sumInts(values ...sdkmath.Int) sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, v := range values {
		total = total.Add(orZero(v))
	}
	return total
}
