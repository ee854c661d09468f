package vesting

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// SplitterState is the persisted form of a Splitter.
type SplitterState struct {
	Address Address     `json:"address"`
	Owner   Address     `json:"owner"`
	Pool    string      `json:"pool"`
	Account string      `json:"account"`
	Config  SplitConfig `json:"config"`
}

// Vesting is the outcome of Splitter.Vest.
type Vesting struct {
	Amount    sdkmath.Int `json:"amount"`
	Claim     ClaimRecord `json:"claim"`
	Shares    []Share     `json:"shares"`
	Transfers []Transfer  `json:"transfers"`
}

// Splitter claims what unlocks for one designated account of the schedule
// and passes it on to weighted recipients.
type Splitter struct {
	address Address
	owner   Address
	pool    string
	account string
	config  SplitConfig
}

// NewSplitter creates a splitter with an inactive, empty config.
func NewSplitter(address, owner Address, pool, account string) (*Splitter, error) {
	if address.IsPlaceholder() {
		return nil, errorsmod.Wrap(ErrValidation, "splitter address can't be empty")
	}
	if err := checkNewOwner(owner); err != nil {
		return nil, err
	}
	if pool == "" || account == "" {
		return nil, errorsmod.Wrap(ErrValidation, "splitter pool and account can't be empty")
	}

	return &Splitter{address: address, owner: owner, pool: pool, account: account}, nil
}

// RestoreSplitter rebuilds a splitter from its persisted state.
func RestoreSplitter(state SplitterState) *Splitter {
	return &Splitter{
		address: state.Address,
		owner:   state.Owner,
		pool:    state.Pool,
		account: state.Account,
		config:  state.Config.Clone(),
	}
}

// State returns the persisted form of the splitter. It doubles as its
// status.
func (s *Splitter) State() SplitterState {
	return SplitterState{
		Address: s.address,
		Owner:   s.owner,
		Pool:    s.pool,
		Account: s.account,
		Config:  s.config.Clone(),
	}
}

// Configure replaces the split config.
func (s *Splitter) Configure(sender Address, cfg SplitConfig) error {
	if err := requireOwner(s.owner, sender); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.config = cfg.Clone()
	return nil
}

// SetOwner hands the splitter over to newOwner.
func (s *Splitter) SetOwner(sender, newOwner Address) error {
	if err := requireOwner(s.owner, sender); err != nil {
		return err
	}
	if err := checkNewOwner(newOwner); err != nil {
		return err
	}

	s.owner = newOwner
	return nil
}

// Vest claims everything unlocked for the splitter's account from m and
// distributes it. Anybody may call it.
func (s *Splitter) Vest(m *Manager, now time.Time) (Vesting, error) {
	if !m.IsLaunched() {
		return Vesting{}, errorsmod.Wrap(ErrNotLaunched, "vesting hasn't started")
	}

	account, err := m.Account(s.pool, s.account)
	if err != nil {
		return Vesting{}, err
	}
	if account.Address != s.address {
		return Vesting{}, errorsmod.Wrapf(ErrValidation, "account %s in pool %s is bound to %q, not to the splitter %s", s.account, s.pool, account.Address, s.address)
	}
	if !s.config.Active {
		return Vesting{}, errorsmod.Wrap(ErrValidation, "split config is not active")
	}

	p, err := m.Progress(s.address, now)
	if err != nil {
		return Vesting{}, err
	}
	if !p.Claimable.IsPositive() {
		return Vesting{}, errorsmod.Wrapf(ErrNothingToClaim, "%s has claimed %s of %s unlocked", s.address, p.Claimed, p.Unlocked)
	}

	shares, err := s.config.Split(p.Claimable)
	if err != nil {
		return Vesting{}, err
	}

	claim, rec, err := m.Claim(s.address, now)
	if err != nil {
		return Vesting{}, err
	}

	transfers := []Transfer{claim}
	for _, share := range shares {
		if share.Amount.IsPositive() {
			transfers = append(transfers, newTransfer(TransferDistribute, s.address, share.Address, share.Amount, claim.At))
		}
	}

	return Vesting{Amount: claim.Amount, Claim: rec, Shares: shares, Transfers: transfers}, nil
}
