package vesting

import (
	"maps"
	"time"

	sdkmath "cosmossdk.io/math"
)

// ClaimRecord is what an address has claimed so far.
type ClaimRecord struct {
	Claimed     sdkmath.Int `json:"claimed"`
	LastClaimAt time.Time   `json:"last_claim_at"`
}

// Ledger holds the claim records by address.
type Ledger map[Address]ClaimRecord

// Claimed returns the cumulative amount claimed by addr.
func (l Ledger) Claimed(addr Address) sdkmath.Int {
	return orZero(l[addr].Claimed)
}

// Clone returns a copy of the ledger.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return Ledger{}
	}
	return maps.Clone(l)
}

// record adds amount to what addr has claimed.
func (l Ledger) record(addr Address, amount sdkmath.Int, at time.Time) ClaimRecord {
	rec := ClaimRecord{Claimed: l.Claimed(addr).Add(amount), LastClaimAt: at}
	l[addr] = rec
	return rec
}

// Progress is the claim state of an address at a point in time.
type Progress struct {
	Address   Address     `json:"address"`
	Time      time.Time   `json:"time"`
	Launched  time.Time   `json:"launched"`
	Elapsed   Seconds     `json:"elapsed"`
	Unlocked  sdkmath.Int `json:"unlocked"`
	Claimed   sdkmath.Int `json:"claimed"`
	Claimable sdkmath.Int `json:"claimable"`
}
