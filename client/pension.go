package client

import (
	"context"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/app"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/crypto"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/x/cash"
	"github.com/pensionledger/weave/x/pension"
	"github.com/pensionledger/weave/x/sigs"
)

// Store returns a read only view of the remote application state. Only
// single key reads and full range iteration are supported.
func (c *Client) Store() weave.ReadOnlyKVStore {
	return app.NewABCIStore(c)
}

// Balance returns all coins held by given address.
func (c *Client) Balance(ctx context.Context, addr weave.Address) (coin.Coins, error) {
	return cash.NewController(cash.NewBucket()).Balance(c.Store(), addr)
}

// Pensioner returns the record registered by given address. ErrNotFound is
// returned if the address never registered.
func (c *Client) Pensioner(ctx context.Context, addr weave.Address) (*pension.Pensioner, error) {
	var p pension.Pensioner
	if err := pension.NewPensionerBucket().One(c.Store(), addr, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PensionerAt returns the pensioner at given position of the registration
// list.
func (c *Client) PensionerAt(ctx context.Context, index int64) (*pension.Pensioner, error) {
	return pension.PensionerAt(c.Store(), pension.NewPensionerBucket(), index)
}

// Configuration returns the pension ledger configuration.
func (c *Client) Configuration(ctx context.Context) (*pension.Configuration, error) {
	return pension.LoadConfiguration(c.Store())
}

// Ledger returns the aggregated ledger state.
func (c *Client) Ledger(ctx context.Context) (*pension.Ledger, error) {
	conf, err := c.Configuration(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	return pension.LoadLedger(c.Store(), pension.NewLedgerBucket(), conf.Ticker)
}

// LatestSnapshot returns the most recent state calculation. ErrNotFound is
// returned if the state was never calculated.
func (c *Client) LatestSnapshot(ctx context.Context) (*pension.StateSnapshot, error) {
	models, err := c.AbciQuery(ctx, "/pensionsnapshots?"+weave.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "no state snapshot")
	}
	var s pension.StateSnapshot
	if err := s.Unmarshal(models[len(models)-1].Value); err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot unmarshal snapshot")
	}
	return &s, nil
}

// NextSequence returns the nonce the next transaction signed by given
// address must use.
func (c *Client) NextSequence(ctx context.Context, addr weave.Address) (int64, error) {
	return sigs.NextNonce(c.Store(), addr)
}

// SignableTx is a transaction that can carry signatures.
type SignableTx interface {
	weave.Tx
	sigs.SignedTx
	AddSignature(*sigs.StdSignature)
}

// SignAndSubmit signs the transaction with the next sequence of the key
// owner and submits it, waiting until it is committed.
func (c *Client) SignAndSubmit(ctx context.Context, tx SignableTx, key *crypto.PrivateKey) (*CommitResult, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}
	seq, err := c.NextSequence(ctx, key.PublicKey().Address())
	if err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	sig, err := sigs.SignTx(key, tx, status.ChainID, seq)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	tx.AddSignature(sig)
	return c.SubmitTx(ctx, tx)
}
