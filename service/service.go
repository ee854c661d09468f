package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/screwyprof/vesting/pkg/clock"
	"github.com/screwyprof/vesting/pkg/metrics"
	"github.com/screwyprof/vesting/vesting"
)

// ErrNotInstantiated is returned by stores before Instantiate ran.
var ErrNotInstantiated = errorsmod.Wrap(vesting.ErrNotFound, "deployment is not instantiated")

// ErrInsufficientFunds is returned by stores for transfers exceeding the
// sender's balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

var domainErrors = []error{
	vesting.ErrValidation,
	vesting.ErrNotFound,
	vesting.ErrConflict,
	vesting.ErrUnauthorized,
	vesting.ErrNotLaunched,
	vesting.ErrNothingToClaim,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Store runs units of work. Update commits all writes of fn or none of
// them; concurrent units never observe each other's partial writes.
// ---------------------------------------------------------------------
type Store interface {
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
}

// Tx is the state visible to a unit of work.
type Tx interface {
	// LoadManager returns ErrNotInstantiated when there is no deployment.
	LoadManager(ctx context.Context) (vesting.ManagerState, error)
	SaveManager(ctx context.Context, state vesting.ManagerState) error

	LoadClaims(ctx context.Context) (vesting.Ledger, error)
	SaveClaim(ctx context.Context, addr vesting.Address, rec vesting.ClaimRecord) error

	// LoadSplitter returns ErrNotInstantiated when there is no deployment.
	LoadSplitter(ctx context.Context) (vesting.SplitterState, error)
	SaveSplitter(ctx context.Context, state vesting.SplitterState) error

	// ApplyTransfer moves tokens between balances and journals the move.
	// It fails when the sender's balance is too low, except for mints.
	ApplyTransfer(ctx context.Context, t vesting.Transfer) error
	Balance(ctx context.Context, addr vesting.Address) (sdkmath.Int, error)
}

// Clock abstracts time for production and testing
type Clock interface {
	Now() time.Time
}

// Deployment names the parties of a vesting deployment.
type Deployment struct {
	Owner    vesting.Address
	Manager  vesting.Address
	Splitter vesting.Address
	// Pool and Account designate the schedule account vested by the splitter.
	Pool    string
	Account string
}

// Option configures the Service
// ------------------------------------------------
type Option func(*Service)

// WithClock injects a custom Clock (e.g., for testing)
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger used for completed operations
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithMetrics enables operation metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service runs vesting operations as units of work over a Store.
// ---------------------------------------------------------------------
type Service struct {
	store   Store
	clock   Clock
	log     *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a Service. By default it uses the system clock and the
// default logger.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		clock: clock.SystemClock{},
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// Instantiate creates the manager and the splitter. It fails with
// vesting.ErrConflict when the deployment already exists.
func (s *Service) Instantiate(ctx context.Context, d Deployment) error {
	err := s.store.Update(ctx, func(tx Tx) error {
		if _, err := tx.LoadManager(ctx); err == nil {
			return errorsmod.Wrap(vesting.ErrConflict, "deployment already instantiated")
		} else if !errors.Is(err, ErrNotInstantiated) {
			return err
		}

		m, err := vesting.NewManager(d.Manager, d.Owner)
		if err != nil {
			return err
		}
		sp, err := vesting.NewSplitter(d.Splitter, d.Owner, d.Pool, d.Account)
		if err != nil {
			return err
		}

		if err := tx.SaveManager(ctx, m.State()); err != nil {
			return err
		}
		return tx.SaveSplitter(ctx, sp.State())
	})

	s.observe(ctx, "instantiate", err, slog.String("owner", d.Owner.String()))
	return err
}

// Balance returns the token balance of addr.
func (s *Service) Balance(ctx context.Context, addr vesting.Address) (sdkmath.Int, error) {
	var balance sdkmath.Int
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		balance, err = tx.Balance(ctx, addr)
		return err
	})
	return balance, err
}

// applyTransfers journals the transfers of an operation.
func (s *Service) applyTransfers(ctx context.Context, tx Tx, transfers ...vesting.Transfer) error {
	for _, t := range transfers {
		if err := tx.ApplyTransfer(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// recordTransfers counts transfers once their unit of work committed.
func (s *Service) recordTransfers(transfers ...vesting.Transfer) {
	for _, t := range transfers {
		s.metrics.Transfer(string(t.Kind), t.Amount)
	}
}

// observe logs and counts the outcome of a mutating operation.
func (s *Service) observe(ctx context.Context, op string, err error, attrs ...slog.Attr) {
	s.metrics.Operation(op, err, domainErrors...)

	attrs = append(attrs, slog.String("operation", op))
	switch {
	case err == nil:
		s.log.LogAttrs(ctx, slog.LevelInfo, "Operation completed", attrs...)
	case isDomainError(err):
		s.log.LogAttrs(ctx, slog.LevelWarn, "Operation rejected", append(attrs, slog.Any("error", err))...)
	default:
		s.log.LogAttrs(ctx, slog.LevelError, "Operation failed", append(attrs, slog.Any("error", err))...)
	}
}
