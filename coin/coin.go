package coin

import (
	"regexp"

	"github.com/pensionledger/weave/errors"
)

// IsCC tells whether ticker is a valid currency code.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

const (
	// FracUnit is the number of fractional units in one whole unit.
	FracUnit int64 = 1000000000

	// MaxInt and MinInt bound the whole part of any amount.
	MaxInt int64 = 999999999999999
	MinInt       = -MaxInt

	// MaxFrac and MinFrac bound the fractional part.
	MaxFrac = FracUnit - 1
	MinFrac = -MaxFrac
)

func NewCoin(whole, fractional int64, ticker string) Coin {
	return Coin{Whole: whole, Fractional: fractional, Ticker: ticker}
}

// NewCoinp is NewCoin returning a pointer.
func NewCoinp(whole, fractional int64, ticker string) *Coin {
	c := NewCoin(whole, fractional, ticker)
	return &c
}

// ID is the ticker. Coins are kept sorted by it.
func (c Coin) ID() string {
	return c.Ticker
}

// Add sums two amounts of the same currency. A zero coin without a ticker
// is neutral, so that the zero value can start a sum.
func (c Coin) Add(o Coin) (Coin, error) {
	switch {
	case c.Ticker == "" && c.IsZero():
		return o, nil
	case o.Ticker == "" && o.IsZero():
		return c, nil
	case c.Ticker != o.Ticker:
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "cannot add %s to %s", o.Ticker, c.Ticker)
	}
	return Coin{
		Ticker:     c.Ticker,
		Whole:      c.Whole + o.Whole,
		Fractional: c.Fractional + o.Fractional,
	}.normalize()
}

// Subtract is Add with the amount negated.
func (c Coin) Subtract(o Coin) (Coin, error) {
	return c.Add(o.Negative())
}

func (c Coin) Negative() Coin {
	return Coin{Ticker: c.Ticker, Whole: -c.Whole, Fractional: -c.Fractional}
}

// Compare orders normalized amounts, ignoring the ticker. It returns -1,
// 0 or 1.
func (c Coin) Compare(o Coin) int {
	a, b := c.Whole, o.Whole
	if a == b {
		a, b = c.Fractional, o.Fractional
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (c Coin) Equals(o Coin) bool {
	return c == o
}

// IsEmpty is true for a nil or zero coin.
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

func (c Coin) IsZero() bool {
	return c.Whole == 0 && c.Fractional == 0
}

func (c Coin) IsPositive() bool {
	return c.Compare(Coin{}) > 0
}

func (c Coin) IsNonNegative() bool {
	return c.Whole >= 0 && c.Fractional >= 0
}

// IsGTE is true when o is of the same currency and not larger.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Compare(o) >= 0
}

func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone returns an independent copy. It is nil safe.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	dup := *c
	return &dup
}

// Validate checks the ticker, the ranges of both parts and that they agree
// in sign. Negative amounts are valid, callers decide whether they make
// sense.
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker))
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "whole"))
	}
	if c.Fractional < MinFrac || c.Fractional > MaxFrac {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "fractional"))
	}
	if (c.Whole > 0 && c.Fractional < 0) || (c.Whole < 0 && c.Fractional > 0) {
		err = errors.Append(err, errors.Wrap(errors.ErrState, "mismatched sign"))
	}
	return err
}

// normalize carries the fractional part into the whole part until it is
// in range and has the sign of the whole part.
func (c Coin) normalize() (Coin, error) {
	c.Whole += c.Fractional / FracUnit
	c.Fractional %= FracUnit
	switch {
	case c.Whole > 0 && c.Fractional < 0:
		c.Whole--
		c.Fractional += FracUnit
	case c.Whole < 0 && c.Fractional > 0:
		c.Whole++
		c.Fractional -= FracUnit
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		return Coin{}, errors.Wrap(errors.ErrOverflow, c.Ticker)
	}
	return c, nil
}
