package main

import (
	"strconv"

	"github.com/pensionledger/weave"
	pensiond "github.com/pensionledger/weave/cmd/pensiond/app"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/x/pension"
	"github.com/spf13/cobra"
)

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Print the wallet of an address, the key owner by default.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr weave.Address
			if len(args) == 1 {
				a, err := weave.ParseAddress(args[0])
				if err != nil {
					return err
				}
				addr = a
			} else {
				key, err := loadKey(cmd)
				if err != nil {
					return err
				}
				addr = key.PublicKey().Address()
			}

			c, ctx, cancel, err := session(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			coins, err := c.Balance(ctx, addr)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]interface{}{
				"address": addr,
				"coins":   coins,
			})
		},
	}
}

func newPensionerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pensioner <index>",
		Short: "Print the pensioner registered at given position.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "index: %s", err)
			}
			c, ctx, cancel, err := session(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			p, err := c.PensionerAt(ctx, index)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func newLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Print the ledger totals and the latest state calculation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := session(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			conf, err := c.Configuration(ctx)
			if err != nil {
				return err
			}
			ledger, err := c.Ledger(ctx)
			if err != nil {
				return err
			}
			snap, err := c.LatestSnapshot(ctx)
			switch {
			case errors.ErrNotFound.Is(err):
				snap = nil
			case err != nil:
				return err
			}
			return printJSON(cmd, struct {
				Configuration *pension.Configuration `json:"configuration"`
				Ledger        *pension.Ledger        `json:"ledger"`
				Snapshot      *pension.StateSnapshot `json:"snapshot,omitempty"`
			}{conf, ledger, snap})
		},
	}
}

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new signing key.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, seed, err := pensiond.GenerateKey()
			if err != nil {
				return err
			}
			b32, err := addr.Bech32()
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]interface{}{
				"address": addr,
				"bech32":  b32,
				"seed":    seed,
			})
		},
	}
}
