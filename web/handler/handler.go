package handler

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/screwyprof/vesting/vesting"
)

// Manager runs the mgmt contract's operations.
type Manager interface {
	Status(ctx context.Context) (vesting.ManagerStatus, error)
	Schedule(ctx context.Context) (vesting.Schedule, error)
	Account(ctx context.Context, pool, name string) (vesting.Account, error)
	Progress(ctx context.Context, addr vesting.Address, at time.Time) (vesting.Progress, error)

	Configure(ctx context.Context, sender vesting.Address, schedule vesting.Schedule) error
	AddAccount(ctx context.Context, sender vesting.Address, pool string, account vesting.Account) error
	RebindAccountAddress(ctx context.Context, sender vesting.Address, pool, name string, addr vesting.Address) error
	SetOwner(ctx context.Context, sender, newOwner vesting.Address) error
	Disown(ctx context.Context, sender vesting.Address) error
	Launch(ctx context.Context, sender vesting.Address) (vesting.Transfer, error)
	Claim(ctx context.Context, claimant vesting.Address) (vesting.Transfer, error)
}

// Splitter runs the RPT splitter's operations.
type Splitter interface {
	SplitterStatus(ctx context.Context) (vesting.SplitterState, error)
	ConfigureSplit(ctx context.Context, sender vesting.Address, cfg vesting.SplitConfig) error
	SetSplitterOwner(ctx context.Context, sender, newOwner vesting.Address) error
	Vest(ctx context.Context) (vesting.Vesting, error)
}

// BalanceFinder reads token balances.
type BalanceFinder interface {
	Balance(ctx context.Context, addr vesting.Address) (sdkmath.Int, error)
}
