package autovest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/screwyprof/vesting/pkg/clock"
	"github.com/screwyprof/vesting/vesting"
)

// Option configures the Service
// ------------------------------------------------
type Option func(*Service)

// WithClock injects a custom Clock (e.g., for testing)
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithInterval sets the time between vest attempts
func WithInterval(d time.Duration) Option {
	return func(s *Service) { s.interval = d }
}

// Service vests on a fixed interval until its context is cancelled
// -----------------------------------------------------------------
type Service struct {
	vester   Vester
	clock    Clock
	interval time.Duration
	events   chan Event
}

// NewService constructs a Service. By default, it uses a real clock and
// DefaultInterval.
func NewService(vester Vester, opts ...Option) *Service {
	s := &Service{
		vester:   vester,
		clock:    clock.SystemClock{},
		interval: DefaultInterval,
		events:   make(chan Event, 10),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the vest loop and returns the events channel and done
// channel. Cancel the context to stop it, then wait on done.
//
//	events, done := service.Start(ctx)
//	defer func() {
//	  cancel()
//	  <-done
//	}()
func (s *Service) Start(ctx context.Context) (<-chan Event, <-chan struct{}) {
	done := make(chan struct{})
	go func() {
		defer close(s.events)
		defer close(done)
		s.run(ctx)
	}()
	return s.events, done
}

func (s *Service) run(ctx context.Context) {
	s.events <- Started{StartedAt: s.clock.Now(), Interval: s.interval}

	for {
		select {
		case <-ctx.Done():
			s.events <- Shutdown{Reason: ctx.Err()}
			return
		case <-s.clock.After(s.interval):
			s.events <- s.vest(ctx)
		}
	}
}

// vest makes one attempt and reports its outcome as an event.
func (s *Service) vest(ctx context.Context) Event {
	v, err := s.vester.Vest(ctx)
	switch {
	case err == nil:
		return VestCompleted{At: s.clock.Now(), Amount: v.Amount, Transfers: len(v.Transfers)}
	case errors.Is(err, vesting.ErrNothingToClaim), errors.Is(err, vesting.ErrNotLaunched):
		return VestSkipped{At: s.clock.Now(), Reason: err}
	default:
		return VestFailed{Err: fmt.Errorf("%w: %w", ErrVestFailed, err)}
	}
}
