package server

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// setupHome creates a tendermint home directory holding a genesis file
// without app_state.
func setupHome(t *testing.T) (string, func()) {
	home, err := ioutil.TempDir("", "pensiond")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, genesisSubdir), 0755))
	raw, err := ioutil.ReadFile("testdata/genesis.json")
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, genesisSubdir, genesisFile), raw, 0600))
	return home, func() { os.RemoveAll(home) }
}

func genState(args []string) (json.RawMessage, error) {
	if len(args) > 0 {
		return json.RawMessage(`{"value": "` + args[0] + `"}`), nil
	}
	return json.RawMessage(`{"value": "default"}`), nil
}

func readAppState(t *testing.T, home string) map[string]string {
	raw, err := ioutil.ReadFile(filepath.Join(home, genesisSubdir, genesisFile))
	require.NoError(t, err)
	var doc struct {
		ChainID  string            `json:"chain_id"`
		AppState map[string]string `json:"app_state"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, "pension-test-1", doc.ChainID)
	return doc.AppState
}

func TestInitCmd(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()
	logger := log.NewNopLogger()

	require.NoError(t, InitCmd(genState, logger, home, nil))
	assert.Equal(t, "default", readAppState(t, home)["value"])

	// app_state is not overwritten by accident
	err := InitCmd(genState, logger, home, []string{"second"})
	assert.True(t, errors.ErrState.Is(err), "unexpected error: %+v", err)
	assert.Equal(t, "default", readAppState(t, home)["value"])

	require.NoError(t, InitCmd(genState, logger, home, []string{"-i", "second"}))
	assert.Equal(t, "second", readAppState(t, home)["value"])

	err = InitCmd(genState, logger, filepath.Join(home, "missing"), nil)
	assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)
}

type valueInit struct {
	time weave.UnixTime
}

func (v *valueInit) FromGenesis(opts weave.Options, params weave.GenesisParams, kv weave.KVStore) error {
	v.time = params.Time
	var value string
	if err := opts.ReadOptions("value", &value); err != nil {
		return err
	}
	if value != "default" {
		return errors.Wrapf(errors.ErrInput, "unexpected value %q", value)
	}
	return nil
}

func TestValidateGenesis(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()
	genFile := filepath.Join(home, genesisSubdir, genesisFile)
	require.NoError(t, InitCmd(genState, log.NewNopLogger(), home, nil))

	ini := &valueInit{}
	require.NoError(t, ValidateGenesis(ini, []string{genFile}))
	want := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, weave.AsUnixTime(want), ini.time)

	require.NoError(t, InitCmd(genState, log.NewNopLogger(), home, []string{"-i", "other"}))
	err := ValidateGenesis(ini, []string{genFile})
	assert.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)

	err = ValidateGenesis(ini, nil)
	assert.True(t, errors.ErrEmpty.Is(err), "unexpected error: %+v", err)
}

func TestServe(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	var generated bool
	gen := func(string, log.Logger, bool) (abci.Application, error) {
		generated = true
		return abci.NewBaseApplication(), nil
	}

	sa, err := parseStartFlags([]string{
		"-bind", "unix://" + filepath.Join(home, "abci.sock"),
		"-metrics", "127.0.0.1:0",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, serve(ctx, gen, log.NewNopLogger(), home, sa))
	assert.True(t, generated)

	_, err = parseStartFlags([]string{"-unknown"})
	assert.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)
}
