package client

import (
	"context"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/app"
	"github.com/pensionledger/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
)

// Client talks to a pension ledger node through the tendermint RPC. Every
// failure of the connection itself is an ErrNetwork, while rejected
// transactions and queries return the error the application produced.
type Client struct {
	conn rpcclient.Client
}

func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

// Status is what the node reports about itself.
type Status struct {
	ChainID    string
	Height     int64
	CatchingUp bool
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	res, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{
		ChainID:    res.NodeInfo.Network,
		Height:     res.SyncInfo.LatestBlockHeight,
		CatchingUp: res.SyncInfo.CatchingUp,
	}, nil
}

// CommitResult describes a transaction included in a block. Result is set
// when the transaction succeeded, Err when it failed.
type CommitResult struct {
	ID     cmn.HexBytes
	Height int64
	Result *weave.DeliverResult
	Err    error
}

// SubmitTx returns once tx is committed. Both a failed mempool check and a
// failed execution return the application error.
func (c *Client) SubmitTx(ctx context.Context, tx weave.Tx) (*CommitResult, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "encode tx: %s", err)
	}
	res, err := c.conn.BroadcastTxCommit(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast tx: %s", err)
	}
	if res.CheckTx.Code != abci.CodeTypeOK {
		return nil, errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log)
	}
	out, err := weave.ParseDeliverOrError(res.DeliverTx)
	if err != nil {
		return nil, err
	}
	return &CommitResult{ID: res.Hash, Height: res.Height, Result: out}, nil
}

// Query runs a raw ABCI query. It makes the client an app.Querier, so the
// remote state can be read as a store.
func (c *Client) Query(req abci.RequestQuery) abci.ResponseQuery {
	opts := rpcclient.ABCIQueryOptions{Height: req.Height, Prove: req.Prove}
	res, err := c.conn.ABCIQueryWithOptions(req.Path, req.Data, opts)
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return abci.ResponseQuery{Code: code, Log: log}
	}
	return res.Response
}

// AbciQuery returns the models found under path. No match is an empty
// result, not an error.
func (c *Client) AbciQuery(ctx context.Context, path string, data []byte) ([]weave.Model, error) {
	return app.QueryModels(c, path, data)
}
