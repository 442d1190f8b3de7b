package cash

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/orm"
)

// BucketName holds the wallets, keyed by owner address.
const BucketName = "cash"

var _ orm.Model = (*Set)(nil)

// NewBucket returns the bucket of wallets.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Set{})
}

// RegisterQuery makes the wallets readable under "/wallets".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// Validate accepts a sorted set of positive coins.
func (s *Set) Validate() error {
	coins := coin.Coins(s.GetCoins())
	if err := coins.Validate(); err != nil {
		return err
	}
	if !coins.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}

func (s *Set) Copy() orm.CloneableData {
	return &Set{Coins: coin.Coins(s.GetCoins()).Clone()}
}

// newWallet sums coins into a set. Nil coins are skipped.
func newWallet(coins ...*coin.Coin) (*Set, error) {
	w := &Set{}
	for _, c := range coins {
		if c == nil {
			continue
		}
		if err := w.add(*c); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (s *Set) add(c coin.Coin) error {
	sum, err := coin.Coins(s.Coins).Add(c)
	if err != nil {
		return err
	}
	s.Coins = sum
	return nil
}

// subtract fails unless the set holds at least c.
func (s *Set) subtract(c coin.Coin) error {
	if !coin.Coins(s.Coins).Contains(c) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "cannot subtract %s", c)
	}
	return s.add(c.Negative())
}
