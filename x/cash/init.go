package cash

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
)

// GenesisAccount is a wallet of the "cash" genesis section. The address is
// hex encoded.
type GenesisAccount struct {
	Address weave.Address `json:"address"`
	Coins   coin.Coins    `json:"coins"`
}

// Initializer creates the genesis wallets.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

func (Initializer) FromGenesis(opts weave.Options, params weave.GenesisParams, db weave.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return err
	}
	wallets := NewBucket()
	for i, a := range accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d address", i)
		}
		w, err := newWallet(a.Coins...)
		if err != nil {
			return errors.Wrapf(err, "account %d coins", i)
		}
		if _, err := wallets.Put(db, a.Address, w); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
