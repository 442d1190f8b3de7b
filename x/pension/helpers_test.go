package pension

import (
	"context"
	"testing"
	"time"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/gconf"
	"github.com/pensionledger/weave/store"
	"github.com/pensionledger/weave/weavetest"
	"github.com/pensionledger/weave/x/cash"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

// now is the block time used by most tests.
var now = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// at returns the unix time d after given time.
func at(t time.Time, d time.Duration) weave.UnixTime {
	return weave.AsUnixTime(t.Add(d))
}

func pen(whole int64) *coin.Coin {
	return coin.NewCoinp(whole, 0, "PEN")
}

type testRegistry map[string]weave.Handler

func (r testRegistry) Handle(path string, h weave.Handler) {
	r[path] = h
}

// testEnv runs messages through the registered handlers the way the
// application does. Check is executed on a discarded cache and deliver
// changes are written only when the handler succeeds.
type testEnv struct {
	t        testing.TB
	db       weave.CacheableKVStore
	auth     *weavetest.CtxAuth
	bank     cash.Controller
	handlers testRegistry
	owner    weave.Condition
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()

	db := store.MemStore()
	owner := weavetest.NewCondition()
	conf := Configuration{
		Owner:          owner.Address(),
		Ticker:         "PEN",
		PayoutInterval: weave.AsUnixDuration(7 * day),
	}
	require.Nil(t, gconf.Save(db, packageName, &conf))

	env := &testEnv{
		t:        t,
		db:       db,
		auth:     &weavetest.CtxAuth{Key: "pension"},
		bank:     cash.NewController(cash.NewBucket()),
		handlers: make(testRegistry),
		owner:    owner,
	}
	RegisterRoutes(env.handlers, env.auth, env.bank, nil)
	return env
}

func (e *testEnv) exec(blockTime time.Time, signer weave.Condition, msg weave.Msg) (*weave.DeliverResult, error) {
	e.t.Helper()

	h, ok := e.handlers[msg.Path()]
	if !ok {
		e.t.Fatalf("no handler for %q", msg.Path())
	}
	ctx := weave.WithBlockTime(context.Background(), blockTime)
	if signer != nil {
		ctx = e.auth.SetConditions(ctx, signer)
	}
	tx := &weavetest.Tx{Msg: msg}

	check := e.db.CacheWrap()
	_, err := h.Check(ctx, check, tx)
	check.Discard()
	if err != nil {
		return nil, err
	}

	deliver := e.db.CacheWrap()
	res, err := h.Deliver(ctx, deliver, tx)
	if err != nil {
		deliver.Discard()
		return nil, err
	}
	if err := deliver.Write(); err != nil {
		e.t.Fatalf("cannot write deliver changes: %s", err)
	}
	return res, nil
}

func (e *testEnv) mint(who weave.Condition, whole int64) {
	e.t.Helper()
	require.Nil(e.t, e.bank.CoinMint(e.db, who.Address(), *pen(whole)))
}

func (e *testEnv) wallet(addr weave.Address) coin.Coin {
	e.t.Helper()
	coins, err := e.bank.Balance(e.db, addr)
	if err != nil {
		return coin.NewCoin(0, 0, "PEN")
	}
	return coins.Balance("PEN")
}

func (e *testEnv) balance() coin.Coin {
	e.t.Helper()
	l, err := LoadLedger(e.db, NewLedgerBucket(), "PEN")
	require.Nil(e.t, err)
	return *l.Balance
}

func (e *testEnv) pensioner(who weave.Condition) *Pensioner {
	e.t.Helper()
	var p Pensioner
	require.Nil(e.t, NewPensionerBucket().One(e.db, who.Address(), &p))
	return &p
}

func (e *testEnv) register(who weave.Condition, retireIn time.Duration) {
	e.t.Helper()
	msg := &CreatePensionerMsg{
		RetireAt:      at(now, retireIn),
		BenefitWindow: at(now, 365*day),
	}
	if _, err := e.exec(now, who, msg); err != nil {
		e.t.Fatalf("cannot register: %+v", err)
	}
}

// requireFieldError fails the test unless err carries exactly one error for
// the field matching want. A nil want asserts the field has no error.
func requireFieldError(t testing.TB, err error, field string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, field)
	if want == nil {
		require.Empty(t, errs, "field %q", field)
		return
	}
	require.Len(t, errs, 1, "field %q: %v", field, errs)
	require.True(t, want.Is(errs[0]), "field %q: unexpected error %+v", field, errs[0])
}
