package pension

import (
	"testing"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/store"
	"github.com/pensionledger/weave/weavetest"
	"github.com/stretchr/testify/require"
)

func TestPensionerValidate(t *testing.T) {
	addr := weavetest.NewCondition().Address()

	cases := map[string]struct {
		model    *Pensioner
		wantErrs map[string]*errors.Error
	}{
		"valid": {
			model: &Pensioner{
				Address:       addr,
				RetireAt:      1000,
				BenefitWindow: 2000,
				FundedBalance: pen(0),
			},
			wantErrs: map[string]*errors.Error{
				"Address":       nil,
				"RetireAt":      nil,
				"FundedBalance": nil,
				"Index":         nil,
			},
		},
		"empty": {
			model: &Pensioner{},
			wantErrs: map[string]*errors.Error{
				"Address":       errors.ErrInput,
				"RetireAt":      errors.ErrEmpty,
				"FundedBalance": errors.ErrEmpty,
				"Index":         nil,
			},
		},
		"negative balance and index": {
			model: &Pensioner{
				Address:       addr,
				RetireAt:      1000,
				FundedBalance: pen(-2),
				Index:         -1,
			},
			wantErrs: map[string]*errors.Error{
				"Address":       nil,
				"FundedBalance": errors.ErrAmount,
				"Index":         errors.ErrInput,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.model.Validate()
			for field, want := range tc.wantErrs {
				requireFieldError(t, err, field, want)
			}
		})
	}
}

func TestPensionerCopy(t *testing.T) {
	p := &Pensioner{
		Address:       weavetest.NewCondition().Address(),
		RetireAt:      1000,
		BenefitWindow: 2000,
		FundedBalance: pen(4),
		Index:         3,
	}
	cpy := p.Copy().(*Pensioner)
	require.Equal(t, p, cpy)

	cpy.FundedBalance.Whole = 99
	cpy.Address[0]++
	require.Equal(t, int64(4), p.FundedBalance.Whole)
	require.NotEqual(t, p.Address, cpy.Address)
}

func TestIsRetired(t *testing.T) {
	p := Pensioner{RetireAt: 1000}
	require.False(t, p.IsRetired(999))
	require.True(t, p.IsRetired(1000))
	require.True(t, p.IsRetired(1001))
}

func TestPensionerAt(t *testing.T) {
	db := store.MemStore()
	b := NewPensionerBucket()

	addrs := []weave.Address{
		weavetest.NewCondition().Address(),
		weavetest.NewCondition().Address(),
		weavetest.NewCondition().Address(),
	}
	for i, a := range addrs {
		_, err := b.Put(db, a, &Pensioner{
			Address:       a,
			RetireAt:      1000,
			FundedBalance: pen(0),
			Index:         int64(i),
		})
		require.NoError(t, err)
	}

	cases := map[string]struct {
		index   int64
		want    weave.Address
		wantErr *errors.Error
	}{
		"first":            {index: 0, want: addrs[0]},
		"last":             {index: 2, want: addrs[2]},
		"past the end":     {index: 3, wantErr: ErrIndexOutOfRange},
		"negative":         {index: -1, wantErr: ErrIndexOutOfRange},
		"far past the end": {index: 1 << 40, wantErr: ErrIndexOutOfRange},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			p, err := PensionerAt(db, b, tc.index)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				require.Equal(t, tc.want, p.Address)
			}
		})
	}

	// The list index is unique.
	dup := addrs[0]
	_, err := b.Put(db, weavetest.NewCondition().Address(), &Pensioner{
		Address:       dup,
		RetireAt:      1000,
		FundedBalance: pen(0),
		Index:         1,
	})
	require.True(t, errors.ErrDuplicate.Is(err), "want duplicate, got %+v", err)
}

func TestLoadLedger(t *testing.T) {
	db := store.MemStore()
	b := NewLedgerBucket()

	l, err := LoadLedger(db, b, "PEN")
	require.NoError(t, err)
	require.Equal(t, &Ledger{Balance: pen(0)}, l)

	l.Balance = pen(12)
	l.Count = 2
	require.NoError(t, saveLedger(db, b, l))

	got, err := LoadLedger(db, b, "PEN")
	require.NoError(t, err)
	require.Equal(t, l, got)

	require.Error(t, saveLedger(db, b, &Ledger{Balance: &coin.Coin{Whole: 1}}))
}

func TestLedgerAddress(t *testing.T) {
	require.NoError(t, LedgerAddress().Validate())
	require.Equal(t, LedgerAddress(), LedgerAddress())
}
