package coin

import (
	"sort"

	"github.com/pensionledger/weave/errors"
)

// Coins is a wallet balance: at most one non zero coin per ticker, sorted
// by ticker.
type Coins []*Coin

// CombineCoins sums cs into a valid Coins, in any order and with
// duplicates allowed.
func CombineCoins(cs ...Coin) (Coins, error) {
	var (
		out Coins
		err error
	)
	for _, c := range cs {
		if out, err = out.Add(c); err != nil {
			return nil, err
		}
	}
	return out, out.Validate()
}

// Clone deep copies the set.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	out := make(Coins, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}

// search returns the position of ticker, or where it belongs.
func (cs Coins) search(ticker string) (int, bool) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Ticker >= ticker })
	return i, i < len(cs) && cs[i].Ticker == ticker
}

// Add returns a copy holding c more. A ticker that sums up to zero is
// dropped from the set.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}
	out := cs.Clone()
	i, ok := out.search(c.Ticker)
	if !ok {
		out = append(out, nil)
		copy(out[i+1:], out[i:])
		out[i] = &c
		return out, nil
	}
	sum, err := out[i].Add(c)
	if err != nil {
		return nil, err
	}
	if sum.IsZero() {
		return append(out[:i], out[i+1:]...), nil
	}
	out[i] = &sum
	return out, nil
}

// Subtract returns a copy holding c less. The result may be negative.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// Contains is true when the set holds at least c.
func (cs Coins) Contains(c Coin) bool {
	i, ok := cs.search(c.Ticker)
	if !ok {
		return c.IsZero()
	}
	return cs[i].Compare(c) >= 0
}

// Balance returns the amount held in ticker, zero when absent.
func (cs Coins) Balance(ticker string) Coin {
	if i, ok := cs.search(ticker); ok {
		return *cs[i]
	}
	return Coin{Ticker: ticker}
}

func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// IsNonNegative is true when no coin is below zero.
func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if !c.IsNonNegative() {
			return false
		}
	}
	return true
}

func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i, c := range cs {
		if *c != *o[i] {
			return false
		}
	}
	return true
}

// Validate requires valid non zero coins in strictly increasing ticker
// order.
func (cs Coins) Validate() error {
	var err error
	for i, c := range cs {
		if c == nil {
			err = errors.Append(err, errors.Wrapf(errors.ErrEmpty, "coin %d", i))
			continue
		}
		err = errors.Append(err, errors.Wrapf(c.Validate(), "coin %d", i))
		if c.IsZero() {
			err = errors.Append(err, errors.Wrapf(errors.ErrState, "coin %d is zero", i))
		}
		if i > 0 && cs[i-1] != nil && cs[i-1].Ticker >= c.Ticker {
			err = errors.Append(err, errors.Wrapf(errors.ErrState, "coin %d is not sorted", i))
		}
	}
	return err
}
