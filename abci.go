package weave

import (
	"github.com/pensionledger/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// CheckResult is what a handler reports for a transaction that passed the
// mempool check. Failures are reported as errors, never as results.
type CheckResult struct {
	// Data is returned to the client as is.
	Data []byte
	// Log is a human readable message.
	Log string
	// GasAllocated is the upper bound of work the transaction may do.
	GasAllocated int64
}

// ToABCI renders the result as a tendermint response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log, GasWanted: c.GasAllocated}
}

// DeliverResult is what a handler reports for an executed transaction.
// Pension handlers return the affected record, for example the
// registration index or the new ledger balance, in Data.
type DeliverResult struct {
	Data []byte
	Log  string
	// Tags are indexed by tendermint and can be searched for.
	Tags    []common.KVPair
	GasUsed int64
}

// ToABCI renders the result as a tendermint response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.Tags, GasUsed: d.GasUsed}
}

// CheckOrError builds the CheckTx response of a handler call.
func CheckOrError(res *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return res.ToABCI()
}

// DeliverOrError builds the DeliverTx response of a handler call.
func DeliverOrError(res *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return res.ToABCI()
}

// CheckTxError renders err as a failed CheckTx. Internal errors are
// redacted unless debug is set.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = "cannot check tx: " + log
	}
	return abci.ResponseCheckTx{Code: code, Log: log}
}

// DeliverTxError renders err as a failed DeliverTx. Internal errors are
// redacted unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = "cannot deliver tx: " + log
	}
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// ParseCheckOrError reads a CheckTx response back on the client side. A
// failure is mapped to the registered error of its code.
func ParseCheckOrError(res abci.ResponseCheckTx) (*CheckResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, trimLogPrefix(res.Log, "cannot check tx: "))
	}
	return &CheckResult{Data: res.Data, Log: res.Log, GasAllocated: res.GasWanted}, nil
}

// ParseDeliverOrError reads a DeliverTx response back on the client side.
// A failure is mapped to the registered error of its code.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, trimLogPrefix(res.Log, "cannot deliver tx: "))
	}
	return &DeliverResult{Data: res.Data, Log: res.Log, Tags: res.Tags, GasUsed: res.GasUsed}, nil
}

func trimLogPrefix(log, prefix string) string {
	if len(log) >= len(prefix) && log[:len(prefix)] == prefix {
		return log[len(prefix):]
	}
	return log
}
