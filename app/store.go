package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// chainIDKey holds the chain id written at genesis. The "_wv:" prefix
// cannot collide with a bucket name.
const chainIDKey = "_wv:chainID"

// StoreApp is the state half of the ledger application: it owns the
// committed store, answers queries and walks through the block
// lifecycle. BaseApp adds transaction processing on top.
//
// Failures in the ABCI calls that carry no user input (Info, InitChain,
// BeginBlock, EndBlock and Commit) leave the node in an unknown state,
// so they panic.
type StoreApp struct {
	name   string
	logger log.Logger

	committed weave.CommitKVStore
	// Delivered transactions are staged in deliver until Commit writes
	// them. check is a scratch copy for the mempool, dropped every block.
	deliver weave.KVCacheWrap
	check   weave.KVCacheWrap

	init    weave.Initializer
	queries weave.QueryRouter

	chainID string
	// base holds what stays the same for the whole run, block adds the
	// header of the block being executed.
	base  weave.Context
	block weave.Context
}

// NewStoreApp loads the latest version of committed. It panics when the
// store cannot be read.
func NewStoreApp(name string, committed weave.CommitKVStore, queries weave.QueryRouter, ctx weave.Context) *StoreApp {
	if err := committed.LoadLatestVersion(); err != nil {
		panic(err)
	}
	s := &StoreApp{
		name:      name,
		committed: committed,
		deliver:   committed.CacheWrap(),
		check:     committed.CacheWrap(),
		queries:   queries,
		base:      ctx,
	}
	s.WithLogger(log.NewNopLogger())

	raw, err := s.deliver.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	if len(raw) != 0 {
		s.chainID = string(raw)
		s.base = weave.WithChainID(s.base, s.chainID)
	}

	latest, err := committed.LatestVersion()
	if err != nil {
		panic(err)
	}
	s.block = weave.WithHeight(s.base, latest.Version)
	return s
}

// WithInit sets what loads the genesis app state.
func (s *StoreApp) WithInit(init weave.Initializer) *StoreApp {
	s.init = init
	return s
}

// WithLogger sets the logger of the app and of every context it builds.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.base = weave.WithLogger(s.base, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// GetChainID is empty until the genesis is loaded.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// BlockContext describes the block being executed, or the last committed
// one between blocks.
func (s *StoreApp) BlockContext() weave.Context {
	return s.block
}

func (s *StoreApp) DeliverStore() weave.CacheableKVStore {
	return s.deliver
}

func (s *StoreApp) CheckStore() weave.CacheableKVStore {
	return s.check
}

// Info reports the last committed height and app hash.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	latest, err := s.committed.LatestVersion()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", latest.Version, "hash", fmt.Sprintf("%X", latest.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  latest.Version,
		LastBlockAppHash: latest.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

// Query reads the last committed state. The path selects a registered
// handler, "/", "/<bucket>" or "/<bucket>/<index>", optionally followed by
// "?prefix". Keys and values of the result are encoded ResultSets of the
// same length. The requested height is ignored.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := req.Path, ""
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, mod = path[:i], path[i+1:]
	}
	h := s.queries.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "no query handler for %q", req.Path))
	}
	latest, err := s.committed.LatestVersion()
	if err != nil {
		return queryError(err)
	}

	db := s.committed.CacheWrap()
	defer db.Discard()
	models, err := h.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}

	res := abci.ResponseQuery{Height: latest.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

// InitChain loads the genesis app state through the initializer. The
// genesis time is the block time the initializers see.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) loadGenesis(req abci.RequestInitChain) error {
	switch {
	case s.chainID != "":
		return errors.Wrapf(errors.ErrState, "genesis of chain %s already loaded", s.chainID)
	case len(req.AppStateBytes) == 0:
		return errors.Wrap(errors.ErrEmpty, "app_state missing from genesis, initialize the application first")
	case s.init == nil:
		return errors.Wrap(errors.ErrState, "no initializer")
	case !weave.IsValidChainID(req.ChainId):
		return errors.Wrapf(errors.ErrInput, "chain id: %q", req.ChainId)
	}

	var state weave.Options
	if err := json.Unmarshal(req.AppStateBytes, &state); err != nil {
		return errors.Wrapf(errors.ErrInput, "app_state: %s", err)
	}
	if err := s.deliver.Set([]byte(chainIDKey), []byte(req.ChainId)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	s.chainID = req.ChainId
	s.base = weave.WithChainID(s.base, s.chainID)

	params := weave.GenesisParams{Time: weave.AsUnixTime(req.Time)}
	return s.init.FromGenesis(state, params, s.deliver)
}

// BeginBlock builds the context every transaction of the block runs in.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := weave.WithHeader(s.base, req.Header)
	ctx = weave.WithHeight(ctx, req.Header.Height)
	s.block = weave.WithBlockTime(ctx, req.Header.Time)
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit writes the delivered block, saves a new version and starts fresh
// caches for the next block.
func (s *StoreApp) Commit() abci.ResponseCommit {
	if err := s.deliver.Write(); err != nil {
		panic(err)
	}
	s.check.Discard()
	id, err := s.committed.Commit()
	if err != nil {
		panic(err)
	}
	s.deliver = s.committed.CacheWrap()
	s.check = s.committed.CacheWrap()

	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}
