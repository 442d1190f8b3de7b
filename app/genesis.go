package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
)

// Genesis is the subset of the tendermint genesis file that an application
// reads. The app state is handed over to the initializers as options.
type Genesis struct {
	ChainID     string         `json:"chain_id"`
	GenesisTime weave.UnixTime `json:"genesis_time"`
	AppState    weave.Options  `json:"app_state"`
}

// LoadGenesis reads the genesis file at given path.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "cannot read genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot parse genesis file: %s", err)
	}
	if !weave.IsValidChainID(gen.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %q", gen.ChainID)
	}
	return &gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...weave.Initializer) weave.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []weave.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts weave.Options, params weave.GenesisParams, kv weave.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, params, kv); err != nil {
			return err
		}
	}
	return nil
}
