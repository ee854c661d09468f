package service

import (
	"context"
	"log/slog"

	"github.com/screwyprof/vesting/vesting"
)

// updateSplitter runs fn and persists the splitter's state when it
// succeeds.
func (s *Service) updateSplitter(ctx context.Context, fn func(sp *vesting.Splitter) error) error {
	return s.store.Update(ctx, func(tx Tx) error {
		state, err := tx.LoadSplitter(ctx)
		if err != nil {
			return err
		}
		sp := vesting.RestoreSplitter(state)
		if err := fn(sp); err != nil {
			return err
		}
		return tx.SaveSplitter(ctx, sp.State())
	})
}

// SplitterStatus reports the splitter's owner, account and config.
func (s *Service) SplitterStatus(ctx context.Context) (vesting.SplitterState, error) {
	var state vesting.SplitterState
	err := s.store.View(ctx, func(tx Tx) (err error) {
		state, err = tx.LoadSplitter(ctx)
		return err
	})
	return state, err
}

// ConfigureSplit replaces the split config.
func (s *Service) ConfigureSplit(ctx context.Context, sender vesting.Address, cfg vesting.SplitConfig) error {
	err := s.updateSplitter(ctx, func(sp *vesting.Splitter) error {
		return sp.Configure(sender, cfg)
	})

	s.observe(ctx, "rpt_configure", err,
		slog.String("sender", sender.String()),
		slog.Bool("active", cfg.Active),
		slog.Int("recipients", len(cfg.Recipients)),
	)
	return err
}

// SetSplitterOwner hands the splitter over to newOwner.
func (s *Service) SetSplitterOwner(ctx context.Context, sender, newOwner vesting.Address) error {
	err := s.updateSplitter(ctx, func(sp *vesting.Splitter) error {
		return sp.SetOwner(sender, newOwner)
	})

	s.observe(ctx, "rpt_set_owner", err, slog.String("sender", sender.String()), slog.String("new_owner", newOwner.String()))
	return err
}

// Vest claims the splitter's unlocked tokens and distributes them. The
// claim, the ledger update and all transfers commit together.
func (s *Service) Vest(ctx context.Context) (vesting.Vesting, error) {
	var v vesting.Vesting
	err := s.updateManager(ctx, func(tx Tx, m *vesting.Manager) error {
		state, err := tx.LoadSplitter(ctx)
		if err != nil {
			return err
		}

		v, err = vesting.RestoreSplitter(state).Vest(m, s.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.SaveClaim(ctx, state.Address, v.Claim); err != nil {
			return err
		}
		return s.applyTransfers(ctx, tx, v.Transfers...)
	})

	attrs := []slog.Attr{}
	if err == nil {
		attrs = append(attrs, slog.String("amount", v.Amount.String()), slog.Int("transfers", len(v.Transfers)))
	}
	s.observe(ctx, "rpt_vest", err, attrs...)
	if err == nil {
		s.recordTransfers(v.Transfers...)
	}
	return v, err
}
