package pensiond

import (
	"testing"
	"time"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/app"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/crypto"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/x/cash"
	"github.com/pensionledger/weave/x/pension"
	"github.com/pensionledger/weave/x/sigs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const testChainID = "pension-test-1"

// account keeps track of the nonce so that each test transaction is signed
// with the next sequence.
type account struct {
	key *crypto.PrivateKey
	seq int64
}

func newAccount() *account {
	return &account{key: crypto.GenPrivKeyEd25519()}
}

func (a *account) address() weave.Address {
	return a.key.PublicKey().Address()
}

func (a *account) sign(t testing.TB, tx *Tx) *Tx {
	t.Helper()
	sig, err := sigs.SignTx(a.key, tx, testChainID, a.seq)
	require.NoError(t, err)
	tx.Signatures = append(tx.Signatures, sig)
	a.seq++
	return tx
}

// chain drives the application through blocks the way a node would.
type chain struct {
	t      *testing.T
	app    abci.Application
	height int64
	now    time.Time
}

func newChain(t *testing.T, owner *account) *chain {
	abciApp, err := generateApp("", log.NewNopLogger(), true, prometheus.NewRegistry())
	require.NoError(t, err)
	genesis, err := GenesisOptions(owner.address(), "PEN")
	require.NoError(t, err)

	c := &chain{t: t, app: abciApp, now: time.Now().UTC().Truncate(time.Second)}
	c.block(func() {
		abciApp.InitChain(abci.RequestInitChain{Time: c.now, ChainId: testChainID, AppStateBytes: genesis})
	})
	return c
}

// block runs fn between BeginBlock and Commit.
func (c *chain) block(fn func()) {
	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: testChainID, Height: c.height, Time: c.now},
	})
	fn()
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
}

func (c *chain) encode(tx *Tx) []byte {
	raw, err := tx.Marshal()
	require.NoError(c.t, err)
	return raw
}

func (c *chain) check(tx *Tx) error {
	_, err := weave.ParseCheckOrError(c.app.CheckTx(c.encode(tx)))
	return err
}

func (c *chain) deliver(tx *Tx) (*weave.DeliverResult, error) {
	return weave.ParseDeliverOrError(c.app.DeliverTx(c.encode(tx)))
}

func (c *chain) query(path string, data []byte) []weave.Model {
	models, err := app.QueryModels(c.app, path, data)
	require.NoError(c.t, err)
	return models
}

func TestPensionLedgerApp(t *testing.T) {
	owner, alice := newAccount(), newAccount()
	c := newChain(t, owner)
	retireAt := weave.AsUnixTime(c.now.Add(time.Hour))

	c.block(func() {
		send := owner.sign(t, &Tx{CashSendMsg: &cash.SendMsg{
			Source:      owner.address(),
			Destination: alice.address(),
			Amount:      coin.NewCoinp(10, 0, "PEN"),
		}})
		require.NoError(t, c.check(send))
		_, err := c.deliver(send)
		require.NoError(t, err)

		create := alice.sign(t, &Tx{PensionCreateMsg: &pension.CreatePensionerMsg{
			RetireAt:      retireAt,
			BenefitWindow: retireAt.Add(365 * 24 * time.Hour),
		}})
		res, err := c.deliver(create)
		require.NoError(t, err)
		require.Equal(t, pension.IndexKey(0), res.Data)

		fund := alice.sign(t, &Tx{PensionFundMsg: &pension.FundPensionMsg{
			Amount: coin.NewCoinp(3, 0, "PEN"),
		}})
		res, err = c.deliver(fund)
		require.NoError(t, err)
		var total coin.Coin
		require.NoError(t, total.Unmarshal(res.Data))
		require.Equal(t, coin.NewCoin(3, 0, "PEN"), total)
	})

	// The ledger and the pensioner list are readable through queries.
	var ledger pension.Ledger
	models := c.query("/pensionledger", pension.LedgerKey())
	require.Len(t, models, 1)
	require.NoError(t, ledger.Unmarshal(models[0].Value))
	require.Equal(t, int64(1), ledger.Count)
	require.Equal(t, coin.NewCoinp(3, 0, "PEN"), ledger.Balance)

	var p pension.Pensioner
	models = c.query("/pensioners/index", pension.IndexKey(0))
	require.Len(t, models, 1)
	require.NoError(t, p.Unmarshal(models[0].Value))
	require.Equal(t, alice.address(), p.Address)

	// The custody address holds the funds.
	custody, err := cash.NewController(cash.NewBucket()).Balance(app.NewABCIStore(c.app), pension.LedgerAddress())
	require.NoError(t, err)
	require.Equal(t, coin.NewCoin(3, 0, "PEN"), custody.Balance("PEN"))

	c.now = c.now.Add(2 * time.Hour)
	c.block(func() {
		fund := alice.sign(t, &Tx{PensionFundMsg: &pension.FundPensionMsg{
			Amount: coin.NewCoinp(1, 0, "PEN"),
		}})
		_, err := c.deliver(fund)
		require.True(t, pension.ErrAlreadyRetired.Is(err), "unexpected error: %+v", err)

		// Only the owner can calculate the state.
		calc := alice.sign(t, &Tx{PensionCalculateStateMsg: &pension.CalculateStateMsg{}})
		_, err = c.deliver(calc)
		require.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)

		calc = owner.sign(t, &Tx{PensionCalculateStateMsg: &pension.CalculateStateMsg{Memo: "weekly"}})
		res, err := c.deliver(calc)
		require.NoError(t, err)
		var snap pension.StateSnapshot
		require.NoError(t, snap.Unmarshal(res.Data))
		require.Equal(t, int64(0), snap.Active)
		require.Equal(t, int64(1), snap.Retired)
		require.Equal(t, coin.NewCoinp(3, 0, "PEN"), snap.Balance)
	})
}

func TestRejectUnsignedTx(t *testing.T) {
	owner := newAccount()
	c := newChain(t, owner)

	c.block(func() {
		tx := &Tx{PensionCreateMsg: &pension.CreatePensionerMsg{
			RetireAt: weave.AsUnixTime(c.now.Add(time.Hour)),
		}}
		_, err := c.deliver(tx)
		require.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)

		// A replayed signature is rejected.
		signed := owner.sign(t, &Tx{PensionCreateMsg: &pension.CreatePensionerMsg{
			RetireAt: weave.AsUnixTime(c.now.Add(time.Hour)),
		}})
		_, err = c.deliver(signed)
		require.NoError(t, err)
		_, err = c.deliver(signed)
		require.Error(t, err)
	})
}

func TestStackNeedsOwnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotNil(t, Stack(reg))
	require.NotNil(t, Stack(prometheus.NewRegistry()))
	require.Panics(t, func() { Stack(reg) })
}
