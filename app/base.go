package app

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is the complete ABCI application: transactions are decoded and
// run through the handler against the check or the deliver store.
type BaseApp struct {
	*StoreApp
	decode  weave.TxDecoder
	handler weave.Handler
	// debug puts internal error details into responses.
	debug bool
}

var _ abci.Application = BaseApp{}

func NewBaseApp(s *StoreApp, decode weave.TxDecoder, handler weave.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: s, decode: decode, handler: handler, debug: debug}
}

// CheckTx validates a transaction for the mempool. Its writes only reach
// the check store, which is dropped on Commit.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decodeTx(raw)
	if err != nil {
		return weave.CheckTxError(err, b.debug)
	}
	ctx := weave.WithLogInfo(b.BlockContext(), "call", "check_tx", "path", weave.GetPath(tx))
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return weave.CheckOrError(res, err, b.debug)
}

// DeliverTx executes a transaction of the current block.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decodeTx(raw)
	if err != nil {
		return weave.DeliverTxError(err, b.debug)
	}
	ctx := weave.WithLogInfo(b.BlockContext(), "call", "deliver_tx", "path", weave.GetPath(tx))
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return weave.DeliverOrError(res, err, b.debug)
}

// decodeTx turns a decoder panic into ErrPanic.
func (b BaseApp) decodeTx(raw []byte) (tx weave.Tx, err error) {
	defer errors.Recover(&err)
	return b.decode(raw)
}
