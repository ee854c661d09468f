package vesting_test

import (
	"errors"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/vesting/vesting"
)

const (
	admin   vesting.Address = "secret1admin"
	alice   vesting.Address = "secret1alice"
	bob     vesting.Address = "secret1bob"
	mallory vesting.Address = "secret1mallory"
	mgmt    vesting.Address = "secret1mgmt"
	rpt     vesting.Address = "secret1rpt"

	rptAmount = "2500000000000000000000"
	day       = vesting.Seconds(24 * 60 * 60)
)

var launchTime = time.Date(2021, time.September, 1, 12, 0, 0, 0, time.UTC)

func amount(s string) sdkmath.Int {
	v, ok := sdkmath.NewIntFromString(s)
	if !ok {
		panic("invalid amount " + s)
	}
	return v
}

func ptr(s string) *sdkmath.Int {
	v := amount(s)
	return &v
}

func immediate(name string, addr vesting.Address, amt string) vesting.Account {
	return vesting.Account{Name: name, Address: addr, Amount: amount(amt)}
}

func periodic(name string, addr vesting.Address, amt string, interval, duration vesting.Seconds) vesting.Account {
	return vesting.Account{Name: name, Address: addr, Amount: amount(amt), Interval: interval, Duration: duration}
}

func withCliff(a vesting.Account, cliff string) vesting.Account {
	a.Cliff = ptr(cliff)
	return a
}

func startingAt(a vesting.Account, startAt vesting.Seconds) vesting.Account {
	a.StartAt = startAt
	return a
}

func pool(name string, accounts ...vesting.Account) vesting.Pool {
	return vesting.Pool{Name: name, Accounts: accounts}
}

func budgeted(p vesting.Pool, total string, partial bool) vesting.Pool {
	p.Total = ptr(total)
	p.Partial = partial
	return p
}

func schedule(pools ...vesting.Pool) vesting.Schedule {
	return vesting.Schedule{Pools: pools}
}

// mintingPoolSchedule is the deployment schedule: the whole RPT allocation
// unlocks in a single period right at launch.
func mintingPoolSchedule(rptAddress vesting.Address) vesting.Schedule {
	s := schedule(budgeted(pool("MintingPool", periodic("RPT", rptAddress, rptAmount, day, day)), rptAmount, false))
	s.Total = ptr(rptAmount)
	return s
}

func newManager(t *testing.T) *vesting.Manager {
	t.Helper()

	m, err := vesting.NewManager(mgmt, admin)
	require.NoError(t, err)
	return m
}

func configuredManager(t *testing.T, s vesting.Schedule) *vesting.Manager {
	t.Helper()

	m := newManager(t)
	require.NoError(t, m.Configure(admin, s))
	return m
}

func launchedManager(t *testing.T, s vesting.Schedule) *vesting.Manager {
	t.Helper()

	m := configuredManager(t, s)
	_, err := m.Launch(admin, launchTime)
	require.NoError(t, err)
	return m
}

func after(seconds vesting.Seconds) time.Time {
	return launchTime.Add(time.Duration(seconds) * time.Second)
}

func assertAmount(t *testing.T, want string, got sdkmath.Int, msgAndArgs ...any) {
	t.Helper()

	assert.Equal(t, amount(want).String(), got.String(), msgAndArgs...)
}

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()

	require.Error(t, err)
	assert.True(t, errors.Is(err, target), "expected %v, got %v", target, err)
}
