package service

import (
	"context"
	"log/slog"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/screwyprof/vesting/vesting"
)

// loadManager restores the manager with its ledger.
func loadManager(ctx context.Context, tx Tx) (*vesting.Manager, error) {
	state, err := tx.LoadManager(ctx)
	if err != nil {
		return nil, err
	}
	ledger, err := tx.LoadClaims(ctx)
	if err != nil {
		return nil, err
	}
	return vesting.RestoreManager(state, ledger)
}

// viewManager runs fn against a read-only manager.
func (s *Service) viewManager(ctx context.Context, fn func(m *vesting.Manager) error) error {
	return s.store.View(ctx, func(tx Tx) error {
		m, err := loadManager(ctx, tx)
		if err != nil {
			return err
		}
		return fn(m)
	})
}

// updateManager runs fn and persists the manager's state when it succeeds.
func (s *Service) updateManager(ctx context.Context, fn func(tx Tx, m *vesting.Manager) error) error {
	return s.store.Update(ctx, func(tx Tx) error {
		m, err := loadManager(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(tx, m); err != nil {
			return err
		}
		return tx.SaveManager(ctx, m.State())
	})
}

// Status reports the manager's lifecycle stage.
func (s *Service) Status(ctx context.Context) (vesting.ManagerStatus, error) {
	var status vesting.ManagerStatus
	err := s.viewManager(ctx, func(m *vesting.Manager) error {
		status = m.Status()
		return nil
	})
	return status, err
}

// Schedule returns the current schedule.
func (s *Service) Schedule(ctx context.Context) (vesting.Schedule, error) {
	var schedule vesting.Schedule
	err := s.viewManager(ctx, func(m *vesting.Manager) (err error) {
		schedule, err = m.Schedule()
		return err
	})
	return schedule, err
}

// Account returns one account of the current schedule.
func (s *Service) Account(ctx context.Context, pool, name string) (vesting.Account, error) {
	var account vesting.Account
	err := s.viewManager(ctx, func(m *vesting.Manager) (err error) {
		account, err = m.Account(pool, name)
		return err
	})
	return account, err
}

// Progress reports what addr can claim at the given time, or now when at
// is zero.
func (s *Service) Progress(ctx context.Context, addr vesting.Address, at time.Time) (vesting.Progress, error) {
	if at.IsZero() {
		at = s.clock.Now()
	}

	var progress vesting.Progress
	err := s.viewManager(ctx, func(m *vesting.Manager) (err error) {
		progress, err = m.Progress(addr, at)
		return err
	})
	return progress, err
}

// Configure replaces the schedule.
func (s *Service) Configure(ctx context.Context, sender vesting.Address, schedule vesting.Schedule) error {
	err := s.updateManager(ctx, func(_ Tx, m *vesting.Manager) error {
		return m.Configure(sender, schedule)
	})

	s.observe(ctx, "configure", err, slog.String("sender", sender.String()), slog.Int("pools", len(schedule.Pools)))
	return err
}

// AddAccount adds an account to a pool of the schedule.
func (s *Service) AddAccount(ctx context.Context, sender vesting.Address, pool string, account vesting.Account) error {
	err := s.updateManager(ctx, func(_ Tx, m *vesting.Manager) error {
		return m.AddAccount(sender, pool, account)
	})

	s.observe(ctx, "add_account", err,
		slog.String("sender", sender.String()),
		slog.String("pool", pool),
		slog.String("account", account.Name),
	)
	return err
}

// RebindAccountAddress binds a placeholder account to its address.
func (s *Service) RebindAccountAddress(ctx context.Context, sender vesting.Address, pool, name string, addr vesting.Address) error {
	err := s.updateManager(ctx, func(_ Tx, m *vesting.Manager) error {
		return m.RebindAccountAddress(sender, pool, name, addr)
	})

	s.observe(ctx, "rebind_account_address", err,
		slog.String("sender", sender.String()),
		slog.String("pool", pool),
		slog.String("account", name),
		slog.String("address", addr.String()),
	)
	return err
}

// SetOwner hands the manager over to newOwner.
func (s *Service) SetOwner(ctx context.Context, sender, newOwner vesting.Address) error {
	err := s.updateManager(ctx, func(_ Tx, m *vesting.Manager) error {
		return m.SetOwner(sender, newOwner)
	})

	s.observe(ctx, "set_owner", err, slog.String("sender", sender.String()), slog.String("new_owner", newOwner.String()))
	return err
}

// Disown leaves the manager without an owner.
func (s *Service) Disown(ctx context.Context, sender vesting.Address) error {
	err := s.updateManager(ctx, func(_ Tx, m *vesting.Manager) error {
		return m.Disown(sender)
	})

	s.observe(ctx, "disown", err, slog.String("sender", sender.String()))
	return err
}

// Launch starts vesting and mints the supply.
func (s *Service) Launch(ctx context.Context, sender vesting.Address) (vesting.Transfer, error) {
	var mint vesting.Transfer
	err := s.updateManager(ctx, func(tx Tx, m *vesting.Manager) (err error) {
		mint, err = m.Launch(sender, s.clock.Now())
		if err != nil {
			return err
		}
		return s.applyTransfers(ctx, tx, mint)
	})

	s.observe(ctx, "launch", err, slog.String("sender", sender.String()))
	if err == nil {
		s.recordTransfers(mint)
	}
	return mint, err
}

// Claim pays the claimant what unlocked since the last claim. The splitter
// only receives its allocation through Vest.
func (s *Service) Claim(ctx context.Context, claimant vesting.Address) (vesting.Transfer, error) {
	var transfer vesting.Transfer
	err := s.updateManager(ctx, func(tx Tx, m *vesting.Manager) error {
		splitter, err := tx.LoadSplitter(ctx)
		if err != nil {
			return err
		}
		if claimant == splitter.Address {
			return errorsmod.Wrapf(vesting.ErrUnauthorized, "%s is paid through vest only", claimant)
		}

		t, rec, err := m.Claim(claimant, s.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.SaveClaim(ctx, claimant, rec); err != nil {
			return err
		}
		transfer = t
		return s.applyTransfers(ctx, tx, t)
	})

	s.observe(ctx, "claim", err, slog.String("claimant", claimant.String()))
	if err == nil {
		s.recordTransfers(transfer)
	}
	return transfer, err
}
