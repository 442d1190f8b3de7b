package pension

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/gconf"
)

// GenesisPensioner is a registration declared in the genesis file. Genesis
// registrations are never funded.
type GenesisPensioner struct {
	Address       weave.Address  `json:"address"`
	RetireAt      weave.UnixTime `json:"retire_at"`
	BenefitWindow weave.UnixTime `json:"benefit_window"`
}

// Initializer fulfils the weave.Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis stores the configuration and the ledger. Listed pensioners are
// registered in the order of declaration, with the same rules as a
// registration transaction executed at genesis time.
func (Initializer) FromGenesis(opts weave.Options, params weave.GenesisParams, kv weave.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(kv, opts, packageName, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	pensioners := NewPensionerBucket()
	ledgers := NewLedgerBucket()
	ledger := &Ledger{Balance: coin.NewCoinp(0, 0, conf.Ticker)}

	next, err := opts.Stream("pensioners")
	switch {
	case err == nil:
	case errors.ErrEmpty.Is(err):
		return saveLedger(kv, ledgers, ledger)
	default:
		return errors.Wrap(err, "pensioners stream")
	}

	for {
		var gp GenesisPensioner
		switch err := next(&gp); {
		case err == nil:
		case errors.ErrEmpty.Is(err):
			return saveLedger(kv, ledgers, ledger)
		default:
			return errors.Wrap(err, "cannot load pensioner")
		}

		if gp.RetireAt <= params.Time {
			return errors.Wrapf(ErrInvalidRetirementTime, "pensioner %d: %s is not after genesis", ledger.Count, gp.RetireAt)
		}
		switch err := pensioners.Has(kv, gp.Address); {
		case err == nil:
			return errors.Wrapf(ErrDuplicateRegistration, "pensioner %d: address %s", ledger.Count, gp.Address)
		case !errors.ErrNotFound.Is(err):
			return errors.Wrapf(err, "pensioner %d", ledger.Count)
		}
		p := &Pensioner{
			Address:       gp.Address,
			RetireAt:      gp.RetireAt,
			BenefitWindow: gp.BenefitWindow,
			FundedBalance: coin.NewCoinp(0, 0, conf.Ticker),
			Index:         ledger.Count,
		}
		if _, err := pensioners.Put(kv, gp.Address, p); err != nil {
			return errors.Wrapf(err, "pensioner %d", ledger.Count)
		}
		ledger.Count++
	}
}
