package cash

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/x"
)

// RegisterRoutes routes SendMsg.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, wallets Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, wallets))
}

// SendHandler pays between wallets. The source wallet owner must sign.
type SendHandler struct {
	auth    x.Authenticator
	wallets Controller
}

var _ weave.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, wallets Controller) SendHandler {
	return SendHandler{auth: auth, wallets: wallets}
}

// Check does not look at the balance, a payment may be funded by an
// earlier transaction of the same block.
func (h SendHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.wallets.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Debug("payment",
		"from", msg.Source, "to", msg.Destination, "amount", msg.Amount.String())
	return &weave.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx weave.Context, tx weave.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source must sign")
	}
	return &msg, nil
}
