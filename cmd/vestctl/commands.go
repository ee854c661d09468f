package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/screwyprof/vesting/cmd/vestctl/config"
	"github.com/screwyprof/vesting/pkg/vestclient"
	"github.com/screwyprof/vesting/vesting"
	"github.com/screwyprof/vesting/web/handler/bind"
)

// cli carries the state shared by all commands
type cli struct {
	log     *slog.Logger
	apiURL  string
	sender  string
	timeout time.Duration
}

func (c *cli) client() *vestclient.Client {
	return vestclient.NewClient(
		&http.Client{Timeout: c.timeout},
		c.apiURL,
		vestclient.WithSender(vesting.Address(c.sender)),
	)
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any, err error) error {
	if err != nil {
		return err
	}

	doc, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
	return err
}

// readDoc decodes a JSON or YAML file.
func readDoc[T any](path string) (T, error) {
	var v T
	doc, err := os.ReadFile(path)
	if err != nil {
		return v, err
	}
	if err := yaml.Unmarshal(doc, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}

func readSchedule(path string) (vesting.Schedule, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return vesting.Schedule{}, err
	}
	return vesting.ParseSchedule(doc)
}

func newRootCmd(cfg config.Config, log *slog.Logger) *cobra.Command {
	c := &cli{log: log}

	cmd := &cobra.Command{
		Use:           "vestctl",
		Short:         "Drive a vesting deployment through its web API",
		Version:       version + " (" + date + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&c.apiURL, "api", cfg.APIURL, "base URL of the vesting API")
	cmd.PersistentFlags().StringVar(&c.sender, "sender", cfg.Sender, "address requests are sent on behalf of")
	cmd.PersistentFlags().DurationVar(&c.timeout, "timeout", cfg.HTTPTimeout, "HTTP request timeout")

	cmd.AddCommand(
		newStatusCmd(c),
		newScheduleCmd(c),
		newAccountCmd(c),
		newProgressCmd(c),
		newConfigureCmd(c),
		newAddAccountCmd(c),
		newRebindCmd(c),
		newLaunchCmd(c),
		newClaimCmd(c),
		newSetOwnerCmd(c),
		newDisownCmd(c),
		newBalanceCmd(c),
		newRptCmd(c),
		newDeployCmd(c),
	)
	return cmd
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the manager status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.client().Status(cmd.Context())
			return printJSON(cmd, resp, err)
		},
	}
}

func newScheduleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Show the configured schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.client().Schedule(cmd.Context())
			return printJSON(cmd, resp, err)
		},
	}
}

func newAccountCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "account [pool] [account]",
		Short: "Show an account of the schedule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client().Account(cmd.Context(), args[0], args[1])
			return printJSON(cmd, resp, err)
		},
	}
}

func newProgressCmd(c *cli) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "progress [address]",
		Short: "Show how much an address can claim",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var t time.Time
			if at != "" {
				parsed, err := bind.ParseTime(at)
				if err != nil {
					return err
				}
				t = parsed
			}

			resp, err := c.client().Progress(cmd.Context(), vesting.Address(args[0]), t)
			return printJSON(cmd, resp, err)
		},
	}
	cmd.Flags().StringVar(&at, "time", "", "unix seconds or RFC3339, defaults to now")
	return cmd
}

func newConfigureCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "configure [schedule-file]",
		Short: "Replace the schedule with a JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := readSchedule(args[0])
			if err != nil {
				return err
			}
			resp, err := c.client().Configure(cmd.Context(), schedule)
			return printJSON(cmd, resp, err)
		},
	}
}

func newAddAccountCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add-account [pool] [account-file]",
		Short: "Add an account described by a JSON or YAML document to a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := readDoc[vesting.Account](args[1])
			if err != nil {
				return err
			}
			resp, err := c.client().AddAccount(cmd.Context(), args[0], account)
			return printJSON(cmd, resp, err)
		},
	}
}

func newRebindCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rebind [pool] [account] [address]",
		Short: "Change the address of an account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client().RebindAccount(cmd.Context(), args[0], args[1], vesting.Address(args[2]))
			return printJSON(cmd, resp, err)
		},
	}
}

func newLaunchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "launch",
		Short: "Start vesting and mint the supply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.client().Launch(cmd.Context())
			return printJSON(cmd, resp, err)
		},
	}
}

func newClaimCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "claim",
		Short: "Claim what unlocked for the sender",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.client().Claim(cmd.Context())
			return printJSON(cmd, resp, err)
		},
	}
}

func newSetOwnerCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set-owner [address]",
		Short: "Hand the manager over to a new owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client().SetOwner(cmd.Context(), vesting.Address(args[0]))
			return printJSON(cmd, resp, err)
		},
	}
}

func newDisownCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "disown",
		Short: "Leave the manager without an owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.client().Disown(cmd.Context())
			return printJSON(cmd, resp, err)
		},
	}
}

func newBalanceCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Show the token balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client().Balance(cmd.Context(), vesting.Address(args[0]))
			return printJSON(cmd, resp, err)
		},
	}
}

// vestctl rpt
func newRptCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpt",
		Short: "Commands of the remaining pool token splitter",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show the splitter state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				resp, err := c.client().SplitterStatus(cmd.Context())
				return printJSON(cmd, resp, err)
			},
		},
		&cobra.Command{
			Use:   "configure [config-file]",
			Short: "Replace the split config with a JSON or YAML document",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				split, err := readDoc[vesting.SplitConfig](args[0])
				if err != nil {
					return err
				}
				resp, err := c.client().ConfigureSplit(cmd.Context(), split)
				return printJSON(cmd, resp, err)
			},
		},
		&cobra.Command{
			Use:   "vest",
			Short: "Claim the splitter's account and distribute it",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				resp, err := c.client().Vest(cmd.Context())
				return printJSON(cmd, resp, err)
			},
		},
		&cobra.Command{
			Use:   "set-owner [address]",
			Short: "Hand the splitter over to a new owner",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				resp, err := c.client().SetSplitterOwner(cmd.Context(), vesting.Address(args[0]))
				return printJSON(cmd, resp, err)
			},
		},
	)
	return cmd
}
