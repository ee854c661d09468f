package vesting

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/samber/lo"
)

// Recipient receives a weighted share of every vested amount.
type Recipient struct {
	Address Address     `json:"address"`
	Weight  sdkmath.Int `json:"weight"`
}

// SplitConfig tells the splitter how to distribute what it vests.
type SplitConfig struct {
	Active     bool        `json:"active"`
	Recipients []Recipient `json:"recipients"`
}

// Share is the part of a vested amount paid to one recipient.
type Share struct {
	Address Address     `json:"address"`
	Amount  sdkmath.Int `json:"amount"`
}

// Validate checks the recipients and, for an active config, that there is
// something to split by.
func (c SplitConfig) Validate() error {
	for i, r := range c.Recipients {
		if r.Address.IsPlaceholder() {
			return errorsmod.Wrapf(ErrValidation, "recipient %d: address can't be empty", i)
		}
		if reason := checkAmount(r.Weight); reason != "" {
			return errorsmod.Wrapf(ErrValidation, "recipient %s: weight %s", r.Address, reason)
		}
	}

	if dup := lo.FindDuplicates(lo.Map(c.Recipients, func(r Recipient, _ int) Address { return r.Address })); len(dup) > 0 {
		return errorsmod.Wrapf(ErrValidation, "recipient %s is listed more than once", dup[0])
	}

	if c.Active && !c.TotalWeight().IsPositive() {
		return errorsmod.Wrap(ErrValidation, "weights of an active config must add up to more than 0")
	}
	return nil
}

// TotalWeight returns the sum of all weights.
func (c SplitConfig) TotalWeight() sdkmath.Int {
	return sumInts(lo.Map(c.Recipients, func(r Recipient, _ int) sdkmath.Int { return r.Weight })...)
}

// Clone returns a copy of the config.
func (c SplitConfig) Clone() SplitConfig {
	c.Recipients = append([]Recipient(nil), c.Recipients...)
	return c
}

// Split divides amount by weight, rounding every share down. The truncation
// remainder goes to the first recipient with a positive weight, so the
// shares always add up to amount. Recipients with a zero weight get a zero
// share.
func (c SplitConfig) Split(amount sdkmath.Int) ([]Share, error) {
	total := c.TotalWeight()
	if !total.IsPositive() {
		return nil, errorsmod.Wrap(ErrValidation, "nothing to split by: weights add up to 0")
	}

	leftover := amount
	shares := lo.Map(c.Recipients, func(r Recipient, _ int) Share {
		share := amount.Mul(orZero(r.Weight)).Quo(total)
		leftover = leftover.Sub(share)
		return Share{Address: r.Address, Amount: share}
	})

	_, first, _ := lo.FindIndexOf(c.Recipients, func(r Recipient) bool { return orZero(r.Weight).IsPositive() })
	shares[first].Amount = shares[first].Amount.Add(leftover)

	return shares, nil
}
