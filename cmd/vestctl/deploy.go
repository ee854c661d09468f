package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/screwyprof/vesting/pkg/vestclient"
	"github.com/screwyprof/vesting/vesting"
	"github.com/screwyprof/vesting/web/api"
)

// deployResult is printed once a deployment went through.
type deployResult struct {
	Status   api.StatusResponse   `json:"status"`
	Splitter api.SplitterResponse `json:"splitter"`
	Vest     *api.VestResponse    `json:"vest,omitempty"`
}

// vestctl deploy
func newDeployCmd(c *cli) *cobra.Command {
	var scheduleFile, splitFile string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Configure, launch and vest a fresh deployment",
		Long: `Configures the schedule, binds the splitter's account to the splitter
address if it is still the placeholder, configures the split, launches and
runs a first vest. The sender must own both the manager and the splitter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schedule, err := readSchedule(scheduleFile)
			if err != nil {
				return err
			}
			split, err := readDoc[vesting.SplitConfig](splitFile)
			if err != nil {
				return err
			}

			result, err := deploy(cmd.Context(), c.client(), c.log, schedule, split)
			return printJSON(cmd, result, err)
		},
	}

	cmd.Flags().StringVar(&scheduleFile, "schedule", "", "schedule JSON or YAML document")
	cmd.Flags().StringVar(&splitFile, "split", "", "split config JSON or YAML document")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("split")
	return cmd
}

func deploy(ctx context.Context, client *vestclient.Client, log *slog.Logger, schedule vesting.Schedule, split vesting.SplitConfig) (deployResult, error) {
	splitter, err := client.SplitterStatus(ctx)
	if err != nil {
		return deployResult{}, fmt.Errorf("read splitter: %w", err)
	}

	if _, err := client.Configure(ctx, schedule); err != nil {
		return deployResult{}, fmt.Errorf("configure schedule: %w", err)
	}
	log.InfoContext(ctx, "Schedule configured", slog.Int("pools", len(schedule.Pools)))

	account, err := client.Account(ctx, splitter.Pool, splitter.Account)
	if err != nil {
		return deployResult{}, fmt.Errorf("read splitter account: %w", err)
	}
	if account.Address.IsPlaceholder() {
		if _, err := client.RebindAccount(ctx, splitter.Pool, splitter.Account, splitter.Address); err != nil {
			return deployResult{}, fmt.Errorf("bind splitter account: %w", err)
		}
		log.InfoContext(ctx, "Splitter account bound",
			slog.String("pool", splitter.Pool),
			slog.String("account", splitter.Account),
			slog.String("address", splitter.Address.String()),
		)
	}

	splitter, err = client.ConfigureSplit(ctx, split)
	if err != nil {
		return deployResult{}, fmt.Errorf("configure split: %w", err)
	}
	log.InfoContext(ctx, "Split configured", slog.Int("recipients", len(split.Recipients)))

	mint, err := client.Launch(ctx)
	if err != nil {
		return deployResult{}, fmt.Errorf("launch: %w", err)
	}
	log.InfoContext(ctx, "Vesting launched", slog.String("minted", mint.Amount.String()))

	result := deployResult{Splitter: splitter}

	vested, err := client.Vest(ctx)
	switch {
	case errors.Is(err, vesting.ErrNothingToClaim):
		log.InfoContext(ctx, "Nothing unlocked for the splitter yet")
	case err != nil:
		return deployResult{}, fmt.Errorf("vest: %w", err)
	default:
		log.InfoContext(ctx, "Splitter vested", slog.String("amount", vested.Amount.String()))
		result.Vest = &vested
	}

	result.Status, err = client.Status(ctx)
	return result, err
}
