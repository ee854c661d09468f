// Package autovest periodically vests the splitter's unlocked tokens so the
// recipients get paid without anyone calling vest by hand.
package autovest

import (
	"context"
	"errors"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/screwyprof/vesting/vesting"
)

// Sentinel errors for failure cases
var ErrVestFailed = errors.New("vest failed")

// DefaultInterval is the time between two vest attempts.
const DefaultInterval = time.Hour

// Vester claims and distributes the splitter's unlocked tokens
// -------------------------------------------------------------
type Vester interface {
	Vest(ctx context.Context) (vesting.Vesting, error)
}

// Clock abstracts time for production and testing
// ------------------------------------------------
type Clock interface {
	After(d time.Duration) <-chan time.Time
	Now() time.Time
}

// Event represents a service lifecycle event
// ------------------------------------------
type Event any

type Started struct {
	StartedAt time.Time
	Interval  time.Duration
}

type VestCompleted struct {
	At        time.Time
	Amount    sdkmath.Int
	Transfers int
}

// VestSkipped reports an attempt with nothing to do: vesting hasn't
// launched yet or nothing unlocked since the last vest.
type VestSkipped struct {
	At     time.Time
	Reason error
}

type VestFailed struct {
	Err error
}

type Shutdown struct {
	Reason error // Why shutdown occurred (ctx.Err())
}
