// Package dbrow maps vesting state to and from database rows. Token amounts
// travel as decimal text, schedules and split configs as JSON documents.
package dbrow

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"

	"github.com/screwyprof/vesting/vesting"
)

// ErrCorruptRow is returned for rows that don't decode into vesting state.
var ErrCorruptRow = errors.New("corrupt row")

// Manager represents the manager_state row
type Manager struct {
	Address    string     `db:"address"`
	Owner      string     `db:"owner"`
	LaunchedAt *time.Time `db:"launched_at"`
	Minted     string     `db:"minted"`
	Schedule   []byte     `db:"schedule"`
}

// NewManager converts manager state into a row.
func NewManager(s vesting.ManagerState) (Manager, error) {
	row := Manager{
		Address:    s.Address.String(),
		Owner:      s.Owner.String(),
		LaunchedAt: s.LaunchedAt,
		Minted:     formatInt(s.Minted),
	}
	if s.Schedule != nil {
		doc, err := json.Marshal(s.Schedule)
		if err != nil {
			return Manager{}, fmt.Errorf("%w: schedule: %w", ErrCorruptRow, err)
		}
		row.Schedule = doc
	}
	return row, nil
}

// State converts the row back into manager state.
func (r Manager) State() (vesting.ManagerState, error) {
	minted, err := ParseAmount(r.Minted)
	if err != nil {
		return vesting.ManagerState{}, err
	}

	s := vesting.ManagerState{
		Address: vesting.Address(r.Address),
		Owner:   vesting.Address(r.Owner),
		Minted:  minted,
	}
	if r.LaunchedAt != nil {
		at := r.LaunchedAt.UTC()
		s.LaunchedAt = &at
	}
	if len(r.Schedule) > 0 {
		var schedule vesting.Schedule
		if err := json.Unmarshal(r.Schedule, &schedule); err != nil {
			return vesting.ManagerState{}, fmt.Errorf("%w: schedule: %w", ErrCorruptRow, err)
		}
		s.Schedule = &schedule
	}
	return s, nil
}

// Claim represents a claims row
type Claim struct {
	Address     string    `db:"address"`
	Claimed     string    `db:"claimed"`
	LastClaimAt time.Time `db:"last_claim_at"`
}

// NewClaim converts a claim record into a row.
func NewClaim(addr vesting.Address, rec vesting.ClaimRecord) Claim {
	return Claim{
		Address:     addr.String(),
		Claimed:     formatInt(rec.Claimed),
		LastClaimAt: rec.LastClaimAt,
	}
}

// Ledger converts claims rows into a ledger.
func Ledger(rows []Claim) (vesting.Ledger, error) {
	ledger := make(vesting.Ledger, len(rows))
	for _, r := range rows {
		claimed, err := ParseAmount(r.Claimed)
		if err != nil {
			return nil, err
		}
		ledger[vesting.Address(r.Address)] = vesting.ClaimRecord{
			Claimed:     claimed,
			LastClaimAt: r.LastClaimAt.UTC(),
		}
	}
	return ledger, nil
}

// Splitter represents the splitter_state row
type Splitter struct {
	Address     string `db:"address"`
	Owner       string `db:"owner"`
	PoolName    string `db:"pool_name"`
	AccountName string `db:"account_name"`
	Config      []byte `db:"config"`
}

// NewSplitter converts splitter state into a row.
func NewSplitter(s vesting.SplitterState) (Splitter, error) {
	doc, err := json.Marshal(s.Config)
	if err != nil {
		return Splitter{}, fmt.Errorf("%w: split config: %w", ErrCorruptRow, err)
	}
	return Splitter{
		Address:     s.Address.String(),
		Owner:       s.Owner.String(),
		PoolName:    s.Pool,
		AccountName: s.Account,
		Config:      doc,
	}, nil
}

// State converts the row back into splitter state.
func (r Splitter) State() (vesting.SplitterState, error) {
	var cfg vesting.SplitConfig
	if err := json.Unmarshal(r.Config, &cfg); err != nil {
		return vesting.SplitterState{}, fmt.Errorf("%w: split config: %w", ErrCorruptRow, err)
	}
	return vesting.SplitterState{
		Address: vesting.Address(r.Address),
		Owner:   vesting.Address(r.Owner),
		Pool:    r.PoolName,
		Account: r.AccountName,
		Config:  cfg,
	}, nil
}

// Transfer represents a transfers row
type Transfer struct {
	ID          string    `db:"id"`
	Kind        string    `db:"kind"`
	FromAddress string    `db:"from_address"`
	ToAddress   string    `db:"to_address"`
	Amount      string    `db:"amount"`
	At          time.Time `db:"at"`
	// seq and created_at are handled by the database
}

// NewTransfer converts a transfer into a row.
func NewTransfer(t vesting.Transfer) Transfer {
	return Transfer{
		ID:          t.ID.String(),
		Kind:        string(t.Kind),
		FromAddress: t.From.String(),
		ToAddress:   t.To.String(),
		Amount:      formatInt(t.Amount),
		At:          t.At,
	}
}

// Transfer converts the row back into a transfer.
func (r Transfer) Transfer() (vesting.Transfer, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return vesting.Transfer{}, fmt.Errorf("%w: transfer id %q: %w", ErrCorruptRow, r.ID, err)
	}
	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return vesting.Transfer{}, err
	}
	return vesting.Transfer{
		ID:     id,
		Kind:   vesting.TransferKind(r.Kind),
		From:   vesting.Address(r.FromAddress),
		To:     vesting.Address(r.ToAddress),
		Amount: amount,
		At:     r.At.UTC(),
	}, nil
}

// ParseAmount decodes a NUMERIC column read as text.
func ParseAmount(s string) (sdkmath.Int, error) {
	v, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("%w: amount %q", ErrCorruptRow, s)
	}
	return v, nil
}

func formatInt(v sdkmath.Int) string {
	if v.IsNil() {
		return "0"
	}
	return v.String()
}
