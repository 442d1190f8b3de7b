package main

import (
	"time"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/client"
	pensiond "github.com/pensionledger/weave/cmd/pensiond/app"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/orm"
	"github.com/pensionledger/weave/x/cash"
	"github.com/pensionledger/weave/x/pension"
	"github.com/spf13/cobra"
)

// txResult is printed after a committed transaction.
type txResult struct {
	Hash   string      `json:"hash"`
	Height int64       `json:"height"`
	Log    string      `json:"log,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// submit signs the transaction with the configured key and waits until it
// is committed. decode turns the result data into a printable value.
func submit(cmd *cobra.Command, tx *pensiond.Tx, decode func([]byte) (interface{}, error)) error {
	key, err := loadKey(cmd)
	if err != nil {
		return err
	}
	c, ctx, cancel, err := session(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	res, err := c.SignAndSubmit(ctx, tx, key)
	if err != nil {
		return err
	}
	out := txResult{
		Hash:   res.ID.String(),
		Height: res.Height,
		Log:    res.Result.Log,
	}
	if decode != nil && len(res.Result.Data) > 0 {
		if out.Data, err = decode(res.Result.Data); err != nil {
			return errors.Wrap(err, "cannot decode result")
		}
	}
	return printJSON(cmd, out)
}

func parseTime(flag string, cmd *cobra.Command) (weave.UnixTime, error) {
	raw, err := cmd.Flags().GetString(flag)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "--%s: %s", flag, err)
	}
	return weave.AsUnixTime(t), nil
}

func parseCoin(raw string) (*coin.Coin, error) {
	c, err := coin.ParseHumanFormat(raw)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register the key owner as a pensioner.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			retireAt, err := parseTime("retire-at", cmd)
			if err != nil {
				return err
			}
			window, err := parseTime("benefit-window", cmd)
			if err != nil {
				return err
			}
			tx := &pensiond.Tx{PensionCreateMsg: &pension.CreatePensionerMsg{
				RetireAt:      retireAt,
				BenefitWindow: window,
			}}
			return submit(cmd, tx, func(raw []byte) (interface{}, error) {
				if len(raw) != 8 {
					return nil, errors.Wrapf(errors.ErrInput, "invalid index %X", raw)
				}
				return map[string]int64{"index": orm.DecodeSequence(raw)}, nil
			})
		},
	}
	cmd.Flags().String("retire-at", "", "retirement time, RFC3339")
	cmd.Flags().String("benefit-window", "", "end of the benefit window, RFC3339")
	_ = cmd.MarkFlagRequired("retire-at")
	return cmd
}

func newFundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fund <amount>",
		Short: "Contribute coins to the key owner's pension record.",
		Long:  `Contribute coins to the key owner's pension record. Amount is given in the human format, for example "12.5 PEN".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseCoin(args[0])
			if err != nil {
				return err
			}
			tx := &pensiond.Tx{PensionFundMsg: &pension.FundPensionMsg{Amount: amount}}
			return submit(cmd, tx, func(raw []byte) (interface{}, error) {
				var total coin.Coin
				err := total.Unmarshal(raw)
				return map[string]string{"balance": total.String()}, err
			})
		},
	}
}

func newRetireCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retire",
		Short: "Change the retirement time of the key owner's pension record.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseTime("at", cmd)
			if err != nil {
				return err
			}
			now, err := cmd.Flags().GetBool("now")
			if err != nil {
				return err
			}
			if now == (at != 0) {
				return errors.Wrap(errors.ErrInput, "use exactly one of --at and --now")
			}
			tx := &pensiond.Tx{PensionSetRetirementTimeMsg: &pension.SetRetirementTimeMsg{
				RetireAt: at,
				Now:      now,
			}}
			return submit(cmd, tx, nil)
		},
	}
	cmd.Flags().String("at", "", "retirement time, RFC3339")
	cmd.Flags().Bool("now", false, "retire at the time of the block")
	return cmd
}

func newSetBenefitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-benefit",
		Short: "Change the end of the benefit window of the key owner's pension record.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseTime("window", cmd)
			if err != nil {
				return err
			}
			tx := &pensiond.Tx{PensionSetBenefitMsg: &pension.SetBenefitDurationMsg{
				BenefitWindow: window,
			}}
			return submit(cmd, tx, nil)
		},
	}
	cmd.Flags().String("window", "", "end of the benefit window, RFC3339")
	_ = cmd.MarkFlagRequired("window")
	return cmd
}

func newCalculateStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate-state",
		Short: "Recompute the ledger state. Only the ledger owner may do this.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			memo, err := cmd.Flags().GetString("memo")
			if err != nil {
				return err
			}
			tx := &pensiond.Tx{PensionCalculateStateMsg: &pension.CalculateStateMsg{Memo: memo}}
			return submit(cmd, tx, func(raw []byte) (interface{}, error) {
				var snap pension.StateSnapshot
				err := snap.Unmarshal(raw)
				return &snap, err
			})
		},
	}
	cmd.Flags().String("memo", "", "optional note")
	return cmd
}

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <destination> <amount>",
		Short: "Transfer coins from the key owner's wallet.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey(cmd)
			if err != nil {
				return err
			}
			dst, err := weave.ParseAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := parseCoin(args[1])
			if err != nil {
				return err
			}
			memo, err := cmd.Flags().GetString("memo")
			if err != nil {
				return err
			}
			tx := &pensiond.Tx{CashSendMsg: &cash.SendMsg{
				Source:      key.PublicKey().Address(),
				Destination: dst,
				Amount:      amount,
				Memo:        memo,
			}}
			return submit(cmd, tx, nil)
		},
	}
	cmd.Flags().String("memo", "", "optional note")
	return cmd
}

var _ client.SignableTx = (*pensiond.Tx)(nil)
