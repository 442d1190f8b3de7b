package cash

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/orm"
)

// Balancer reads the coins of a wallet.
type Balancer interface {
	Balance(weave.ReadOnlyKVStore, weave.Address) (coin.Coins, error)
}

// CoinMover pays from one wallet into another.
type CoinMover interface {
	MoveCoins(db weave.KVStore, src, dest weave.Address, amount coin.Coin) error
}

// CoinMinter creates coins, or destroys them for a negative amount.
type CoinMinter interface {
	CoinMint(db weave.KVStore, dest weave.Address, amount coin.Coin) error
}

// Controller is everything the ledger does with wallets.
type Controller interface {
	Balancer
	CoinMover
	CoinMinter
}

// BaseController keeps the wallets in a model bucket.
type BaseController struct {
	wallets orm.ModelBucket
}

var _ Controller = BaseController{}

func NewController(wallets orm.ModelBucket) BaseController {
	return BaseController{wallets: wallets}
}

// Balance fails with ErrNotFound for an address that never held coins.
func (c BaseController) Balance(db weave.ReadOnlyKVStore, owner weave.Address) (coin.Coins, error) {
	var w Set
	if err := c.wallets.One(db, owner, &w); err != nil {
		return nil, errors.Wrap(err, "wallet")
	}
	return w.Coins, nil
}

// MoveCoins fails with ErrEmpty when src has no wallet and with
// ErrInsufficientAmount when it holds less than amount.
func (c BaseController) MoveCoins(db weave.KVStore, src, dest weave.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %s", amount)
	}
	var sender Set
	switch err := c.wallets.One(db, src, &sender); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrEmpty, "no wallet %s", src)
	case err != nil:
		return errors.Wrap(err, "sender")
	}
	if err := sender.subtract(amount); err != nil {
		return err
	}
	if _, err := c.wallets.Put(db, src, &sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	return c.credit(db, dest, amount)
}

// CoinMint fails when a negative amount would leave the wallet below zero.
func (c BaseController) CoinMint(db weave.KVStore, dest weave.Address, amount coin.Coin) error {
	return c.credit(db, dest, amount)
}

// credit adds amount to the wallet of dest, creating it when missing.
func (c BaseController) credit(db weave.KVStore, dest weave.Address, amount coin.Coin) error {
	var w Set
	if err := c.wallets.One(db, dest, &w); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "recipient")
	}
	if err := w.add(amount); err != nil {
		return err
	}
	_, err := c.wallets.Put(db, dest, &w)
	return err
}
