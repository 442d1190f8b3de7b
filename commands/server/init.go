package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/pensionledger/weave/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// AppStateKey is the key in the genesis file where all info
	// on initializing the app can be found
	AppStateKey   = "app_state"
	flagIgnore    = "i"
	genesisSubdir = "config"
	genesisFile   = "genesis.json"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will try to update the genesis file in the tendermint home
// directory, created by `tendermint init`, to include the app_state. It
// refuses to overwrite an existing app_state unless -i is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	ignore := initFlags.Bool(flagIgnore, false, "ignore previous app_state, overwrite it")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := filepath.Join(home, genesisSubdir, genesisFile)
	options, err := gen(initFlags.Args())
	if err != nil {
		return errors.Wrap(err, "cannot generate app_state")
	}
	if err := addGenesisOptions(genFile, options, *ignore); err != nil {
		return err
	}
	logger.Info("App initialized", "path", genFile)
	return nil
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage, overwrite bool) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "%s (run `tendermint init` first): %s", filename, err)
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse genesis: %s", err)
	}

	if state, ok := doc[AppStateKey]; ok && len(state) > 0 && string(state) != "null" && !overwrite {
		return errors.Wrap(errors.ErrState, fmt.Sprintf("%s already set, use -%s to overwrite", AppStateKey, flagIgnore))
	}

	doc[AppStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}
