package client

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pensionledger/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	nm "github.com/tendermint/tendermint/node"
	"github.com/tendermint/tendermint/p2p"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// NewLocalConnection wraps an in-process node with a client, useful for tests
func NewLocalConnection(node *nm.Node) rpcclient.Client {
	return rpcclient.NewLocal(node)
}

// NewHTTPConnection takes a URL and sends all requests to the remote node
func NewHTTPConnection(remote string) rpcclient.Client {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// AppConnection serves the subset of the node API used by transaction
// submission and queries straight from an ABCI application, without
// consensus. Every broadcast transaction is executed in its own block.
// Calls outside of that subset panic.
type AppConnection struct {
	rpcclient.Client

	mu      sync.Mutex
	app     abci.Application
	chainID string
	height  int64
	now     time.Time
}

var _ rpcclient.Client = (*AppConnection)(nil)

// NewAppConnection loads the genesis state into the application and
// returns a connection to it. Blocks are created with the given time
// until it is changed with SetTime.
func NewAppConnection(app abci.Application, chainID string, appState json.RawMessage, now time.Time) (conn *AppConnection, err error) {
	// The application panics when the genesis cannot be loaded.
	defer errors.Recover(&err)

	c := &AppConnection{
		app:     app,
		chainID: chainID,
		now:     now,
	}
	// The chain id must be known before the first block context is built,
	// otherwise transactions checked between blocks carry none.
	c.app.InitChain(abci.RequestInitChain{
		Time:          now,
		ChainId:       chainID,
		AppStateBytes: appState,
	})
	c.inBlock(func() {})
	return c, nil
}

// SetTime changes the time of all following blocks.
func (c *AppConnection) SetTime(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Status implements rpcclient.StatusClient.
func (c *AppConnection) Status() (*ctypes.ResultStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &ctypes.ResultStatus{
		NodeInfo: p2p.DefaultNodeInfo{Network: c.chainID},
		SyncInfo: ctypes.SyncInfo{
			LatestBlockHeight: c.height,
			LatestBlockTime:   c.now,
		},
	}, nil
}

// ABCIQueryWithOptions implements rpcclient.ABCIClient.
func (c *AppConnection) ABCIQueryWithOptions(path string, data cmn.HexBytes, opts rpcclient.ABCIQueryOptions) (*ctypes.ResultABCIQuery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := c.app.Query(abci.RequestQuery{
		Path:   path,
		Data:   data,
		Height: opts.Height,
		Prove:  opts.Prove,
	})
	return &ctypes.ResultABCIQuery{Response: res}, nil
}

// BroadcastTxCommit implements rpcclient.ABCIClient. A transaction that
// fails the check is not executed.
func (c *AppConnection) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := &ctypes.ResultBroadcastTxCommit{
		Hash:    tx.Hash(),
		CheckTx: c.app.CheckTx(tx),
	}
	if res.CheckTx.Code != 0 {
		return res, nil
	}
	c.inBlock(func() {
		res.DeliverTx = c.app.DeliverTx(tx)
	})
	res.Height = c.height
	return res, nil
}

func (c *AppConnection) inBlock(run func()) {
	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: c.chainID,
			Height:  c.height,
			Time:    c.now,
		},
	})
	run()
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
}
