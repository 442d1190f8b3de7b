package cash

import (
	"testing"

	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/store"
	"github.com/pensionledger/weave/weavetest"
	"github.com/stretchr/testify/require"
)

func TestController(t *testing.T) {
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	cases := map[string]struct {
		mint       []coin.Coin
		move       coin.Coin
		wantErr    *errors.Error
		wantAlice  coin.Coins
		wantBobErr *errors.Error
		wantBob    coin.Coins
	}{
		"move part of the funds": {
			mint:      []coin.Coin{coin.NewCoin(100, 0, "PEN")},
			move:      coin.NewCoin(40, 500, "PEN"),
			wantAlice: coin.Coins{coin.NewCoinp(59, 999999500, "PEN")},
			wantBob:   coin.Coins{coin.NewCoinp(40, 500, "PEN")},
		},
		"move all funds removes the currency": {
			mint:      []coin.Coin{coin.NewCoin(7, 0, "PEN"), coin.NewCoin(1, 0, "ETH")},
			move:      coin.NewCoin(7, 0, "PEN"),
			wantAlice: coin.Coins{coin.NewCoinp(1, 0, "ETH")},
			wantBob:   coin.Coins{coin.NewCoinp(7, 0, "PEN")},
		},
		"insufficient funds": {
			mint:       []coin.Coin{coin.NewCoin(7, 0, "PEN")},
			move:       coin.NewCoin(8, 0, "PEN"),
			wantErr:    errors.ErrInsufficientAmount,
			wantAlice:  coin.Coins{coin.NewCoinp(7, 0, "PEN")},
			wantBobErr: errors.ErrNotFound,
		},
		"wrong currency": {
			mint:       []coin.Coin{coin.NewCoin(7, 0, "PEN")},
			move:       coin.NewCoin(1, 0, "ETH"),
			wantErr:    errors.ErrInsufficientAmount,
			wantAlice:  coin.Coins{coin.NewCoinp(7, 0, "PEN")},
			wantBobErr: errors.ErrNotFound,
		},
		"non positive amount": {
			mint:       []coin.Coin{coin.NewCoin(7, 0, "PEN")},
			move:       coin.NewCoin(0, 0, "PEN"),
			wantErr:    errors.ErrAmount,
			wantAlice:  coin.Coins{coin.NewCoinp(7, 0, "PEN")},
			wantBobErr: errors.ErrNotFound,
		},
		"empty sender": {
			move:       coin.NewCoin(1, 0, "PEN"),
			wantErr:    errors.ErrEmpty,
			wantBobErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(NewBucket())

			for _, c := range tc.mint {
				require.Nil(t, ctrl.CoinMint(db, alice, c))
			}

			if err := ctrl.MoveCoins(db, alice, bob, tc.move); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected move error: %+v", err)
			}

			if tc.wantAlice != nil {
				got, err := ctrl.Balance(db, alice)
				require.Nil(t, err)
				require.Equal(t, tc.wantAlice, got)
			}

			got, err := ctrl.Balance(db, bob)
			if !tc.wantBobErr.Is(err) {
				t.Fatalf("unexpected balance error: %+v", err)
			}
			if tc.wantBobErr == nil {
				require.Equal(t, tc.wantBob, got)
			}
		})
	}
}

func TestCoinMintNegative(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	addr := weavetest.NewCondition().Address()

	require.Nil(t, ctrl.CoinMint(db, addr, coin.NewCoin(5, 0, "PEN")))
	require.Nil(t, ctrl.CoinMint(db, addr, coin.NewCoin(-2, 0, "PEN")))
	got, err := ctrl.Balance(db, addr)
	require.Nil(t, err)
	require.Equal(t, coin.Coins{coin.NewCoinp(3, 0, "PEN")}, got)

	// A wallet balance can never become negative.
	err = ctrl.CoinMint(db, addr, coin.NewCoin(-4, 0, "PEN"))
	require.True(t, errors.ErrAmount.Is(err), "unexpected error: %+v", err)
}
