package pensiond

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/app"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/crypto"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/x/cash"
	"github.com/pensionledger/weave/x/pension"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	defaultTicker         = "PEN"
	defaultPayoutInterval = 7 * 24 * time.Hour
	// initialSupply is the amount of coins given to the generated owner
	// account.
	initialSupply = 123456789
)

// GenInitOptions will produce some basic options for one rich
// account, that is also the ledger owner, to use for dev mode.
//
// Arguments are an optional ticker and an optional hex encoded owner
// address. Without an address a new key is generated and its seed printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := defaultTicker
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var owner weave.Address
	if len(args) > 1 {
		raw, err := hex.DecodeString(args[1])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "owner address: %s", err)
		}
		owner = weave.Address(raw)
		if err := owner.Validate(); err != nil {
			return nil, errors.Wrap(err, "owner address")
		}
	} else {
		// if no address provided, auto-generate one
		// and print out the seed
		addr, seed, err := GenerateKey()
		if err != nil {
			return nil, err
		}
		owner = addr
		fmt.Println(seed)
	}

	return GenesisOptions(owner, ticker)
}

// GenesisOptions returns the app state giving the owner the initial supply
// and control of the ledger configuration.
func GenesisOptions(owner weave.Address, ticker string) (json.RawMessage, error) {
	supply := coin.NewCoinp(initialSupply, 0, ticker)
	state := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: owner, Coins: coin.Coins{supply}},
		},
		"conf": map[string]interface{}{
			"pension": pension.Configuration{
				Owner:          owner,
				Ticker:         ticker,
				PayoutInterval: weave.AsUnixDuration(defaultPayoutInterval),
			},
		},
		"pensioners": []pension.GenesisPensioner{},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateKey returns the address of a new key along with the hex encoded
// seed of its private key.
func GenerateKey() (weave.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	seed := privKey.Ed25519[:32]
	return privKey.PublicKey().Address(), hex.EncodeToString(seed), nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	return generateApp(home, logger, debug, prometheus.DefaultRegisterer)
}

func generateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "pension.db")
	}

	stack := Stack(reg)
	application, err := Application("pensiond", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(app.ChainInitializers(
		&cash.Initializer{},
		&pension.Initializer{},
	))

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}
