package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/pensionledger/weave/client"
	"github.com/pensionledger/weave/crypto"
	"github.com/pensionledger/weave/errors"
	"github.com/spf13/cobra"
)

const (
	envKey    = "PENSION_KEY"
	envRemote = "PENSION_REMOTE"

	defaultRemote  = "http://localhost:26657"
	defaultTimeout = 30 * time.Second
)

// connect returns a client for given node address.
var connect = func(remote string) *client.Client {
	return client.NewClient(client.NewHTTPConnection(remote))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pensioncli",
		Short: "Manage pension records on a pension ledger node.",
		Long: `Manage pension records on a pension ledger node.

The signing key is a hex encoded ed25519 seed read from the file given with
--key or from the ` + envKey + ` environment variable. The node address is
read from --remote or the ` + envRemote + ` environment variable. A .env file
in the working directory is loaded first.`,
		SilenceUsage: true,
	}

	remote := os.Getenv(envRemote)
	if remote == "" {
		remote = defaultRemote
	}
	root.PersistentFlags().String("remote", remote, "tendermint node RPC address")
	root.PersistentFlags().String("key", "", "file holding the hex encoded signing key seed")
	root.PersistentFlags().Duration("timeout", defaultTimeout, "time limit of a single command")

	root.AddCommand(
		newCreateCmd(),
		newFundCmd(),
		newRetireCmd(),
		newSetBenefitCmd(),
		newCalculateStateCmd(),
		newSendCmd(),
		newBalanceCmd(),
		newPensionerCmd(),
		newLedgerCmd(),
		newKeygenCmd(),
	)
	return root
}

// session is the connection and deadline shared by a single command run.
func session(cmd *cobra.Command) (*client.Client, context.Context, context.CancelFunc, error) {
	remote, err := cmd.Flags().GetString("remote")
	if err != nil {
		return nil, nil, nil, err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return connect(remote), ctx, cancel, nil
}

// loadKey returns the signing key. The --key file takes precedence over
// the environment.
func loadKey(cmd *cobra.Command) (*crypto.PrivateKey, error) {
	path, err := cmd.Flags().GetString("key")
	if err != nil {
		return nil, err
	}
	enc := os.Getenv(envKey)
	if path != "" {
		raw, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "cannot read key file: %s", err)
		}
		enc = string(raw)
	}
	enc = strings.TrimSpace(enc)
	if enc == "" {
		return nil, errors.Wrapf(errors.ErrEmpty, "no key: use --key or %s", envKey)
	}
	seed, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode key: %s", err)
	}
	if len(seed) != 32 {
		return nil, errors.Wrapf(errors.ErrInput, "key seed must be 32 bytes, got %d", len(seed))
	}
	return crypto.PrivKeyEd25519FromSeed(seed), nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
	return err
}
