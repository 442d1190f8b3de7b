package pension

import (
	"context"
	"testing"
	"time"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/store"
	"github.com/pensionledger/weave/weavetest"
	"github.com/stretchr/testify/require"
)

func TestCreatePensioner(t *testing.T) {
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()

	cases := map[string]struct {
		before    func(*testEnv)
		signer    weave.Condition
		msg       *CreatePensionerMsg
		wantErr   *errors.Error
		wantIndex int64
	}{
		"first registration": {
			signer: alice,
			msg:    &CreatePensionerMsg{RetireAt: at(now, time.Second), BenefitWindow: at(now, 365*day)},
		},
		"registration is appended to the list": {
			before:    func(e *testEnv) { e.register(bob, time.Hour) },
			signer:    alice,
			msg:       &CreatePensionerMsg{RetireAt: at(now, time.Hour), BenefitWindow: at(now, 365*day)},
			wantIndex: 1,
		},
		"retirement time equal to now": {
			signer:  alice,
			msg:     &CreatePensionerMsg{RetireAt: at(now, 0), BenefitWindow: at(now, 365*day)},
			wantErr: ErrInvalidRetirementTime,
		},
		"retirement time in the past": {
			signer:  alice,
			msg:     &CreatePensionerMsg{RetireAt: at(now, -time.Hour), BenefitWindow: at(now, 365*day)},
			wantErr: ErrInvalidRetirementTime,
		},
		"duplicate registration": {
			before:  func(e *testEnv) { e.register(alice, time.Hour) },
			signer:  alice,
			msg:     &CreatePensionerMsg{RetireAt: at(now, 2*time.Hour), BenefitWindow: at(now, 365*day)},
			wantErr: ErrDuplicateRegistration,
		},
		"duplicate registration is reported before the retirement time": {
			before:  func(e *testEnv) { e.register(alice, time.Hour) },
			signer:  alice,
			msg:     &CreatePensionerMsg{RetireAt: at(now, -time.Hour), BenefitWindow: at(now, 365*day)},
			wantErr: ErrDuplicateRegistration,
		},
		"signature required": {
			msg:     &CreatePensionerMsg{RetireAt: at(now, time.Hour), BenefitWindow: at(now, 365*day)},
			wantErr: errors.ErrUnauthorized,
		},
		"missing retirement time": {
			signer:  alice,
			msg:     &CreatePensionerMsg{BenefitWindow: at(now, 365*day)},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := newTestEnv(t)
			if tc.before != nil {
				tc.before(env)
			}
			var before *Pensioner
			if tc.signer != nil && NewPensionerBucket().Has(env.db, tc.signer.Address()) == nil {
				before = env.pensioner(tc.signer)
			}

			_, err := env.exec(now, tc.signer, tc.msg)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				if before != nil {
					require.Equal(t, before, env.pensioner(tc.signer))
				}
				return
			}

			p := env.pensioner(tc.signer)
			require.Equal(t, tc.wantIndex, p.Index)
			require.Equal(t, tc.msg.RetireAt, p.RetireAt)
			require.Equal(t, tc.msg.BenefitWindow, p.BenefitWindow)
			require.Equal(t, coin.NewCoin(0, 0, "PEN"), *p.FundedBalance)

			got, err := PensionerAt(env.db, NewPensionerBucket(), tc.wantIndex)
			require.Nil(t, err)
			require.Equal(t, tc.signer.Address(), got.Address)
		})
	}
}

func TestFundPension(t *testing.T) {
	alice := weavetest.NewCondition()

	cases := map[string]struct {
		register    bool
		blockTime   time.Time
		amount      *coin.Coin
		wantErr     *errors.Error
		wantBalance coin.Coin
		wantWallet  coin.Coin
	}{
		"contribution": {
			register:    true,
			blockTime:   now,
			amount:      pen(3),
			wantBalance: *pen(3),
			wantWallet:  *pen(7),
		},
		"zero contribution is accepted": {
			register:    true,
			blockTime:   now,
			amount:      pen(0),
			wantBalance: *pen(0),
			wantWallet:  *pen(10),
		},
		"fractional contribution": {
			register:    true,
			blockTime:   now,
			amount:      coin.NewCoinp(0, 500000000, "PEN"),
			wantBalance: coin.NewCoin(0, 500000000, "PEN"),
			wantWallet:  coin.NewCoin(9, 500000000, "PEN"),
		},
		"not registered": {
			blockTime:   now,
			amount:      pen(1),
			wantErr:     ErrRecordNotFound,
			wantBalance: *pen(0),
			wantWallet:  *pen(10),
		},
		"retirement time reached": {
			register:    true,
			blockTime:   now.Add(time.Hour),
			amount:      pen(1),
			wantErr:     ErrAlreadyRetired,
			wantBalance: *pen(0),
			wantWallet:  *pen(10),
		},
		"retirement time passed": {
			register:    true,
			blockTime:   now.Add(30 * day),
			amount:      pen(1),
			wantErr:     ErrAlreadyRetired,
			wantBalance: *pen(0),
			wantWallet:  *pen(10),
		},
		"insufficient funds": {
			register:    true,
			blockTime:   now,
			amount:      pen(11),
			wantErr:     errors.ErrInsufficientAmount,
			wantBalance: *pen(0),
			wantWallet:  *pen(10),
		},
		"other currency": {
			register:    true,
			blockTime:   now,
			amount:      coin.NewCoinp(1, 0, "IOV"),
			wantErr:     errors.ErrCurrency,
			wantBalance: *pen(0),
			wantWallet:  *pen(10),
		},
		"negative amount": {
			register:    true,
			blockTime:   now,
			amount:      pen(-1),
			wantErr:     errors.ErrAmount,
			wantBalance: *pen(0),
			wantWallet:  *pen(10),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := newTestEnv(t)
			env.mint(alice, 10)
			if tc.register {
				env.register(alice, time.Hour)
			}

			_, err := env.exec(tc.blockTime, alice, &FundPensionMsg{Amount: tc.amount})
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			require.Equal(t, tc.wantBalance, env.balance())
			require.Equal(t, tc.wantWallet, env.wallet(alice.Address()))
			if tc.register {
				require.Equal(t, tc.wantBalance, *env.pensioner(alice).FundedBalance)
			}
			require.Equal(t, tc.wantBalance, env.wallet(LedgerAddress()))
		})
	}
}

func TestBalanceIsSumOfContributions(t *testing.T) {
	env := newTestEnv(t)
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()
	env.mint(alice, 100)
	env.mint(bob, 100)
	env.register(alice, time.Hour)
	env.register(bob, 2*time.Hour)

	contributions := []struct {
		who    weave.Condition
		amount int64
		ok     bool
	}{
		{who: alice, amount: 5, ok: true},
		{who: bob, amount: 0, ok: true},
		{who: bob, amount: 7, ok: true},
		{who: alice, amount: 500, ok: false},
		{who: alice, amount: 1, ok: true},
	}
	var want int64
	for i, c := range contributions {
		_, err := env.exec(now, c.who, &FundPensionMsg{Amount: pen(c.amount)})
		if c.ok != (err == nil) {
			t.Fatalf("contribution %d: unexpected result: %+v", i, err)
		}
		if c.ok {
			want += c.amount
		}
		require.Equal(t, *pen(want), env.balance())
	}

	// After alice retires, bob can still contribute, but she cannot.
	later := now.Add(90 * time.Minute)
	if _, err := env.exec(later, alice, &FundPensionMsg{Amount: pen(1)}); !ErrAlreadyRetired.Is(err) {
		t.Fatalf("want already retired, got %+v", err)
	}
	if _, err := env.exec(later, bob, &FundPensionMsg{Amount: pen(1)}); err != nil {
		t.Fatalf("cannot fund: %+v", err)
	}
	require.Equal(t, *pen(want+1), env.balance())
	require.Equal(t, *pen(6), *env.pensioner(alice).FundedBalance)
	require.Equal(t, *pen(8), *env.pensioner(bob).FundedBalance)
}

func TestSetRetirementTime(t *testing.T) {
	alice := weavetest.NewCondition()

	cases := map[string]struct {
		register     bool
		blockTime    time.Time
		msg          *SetRetirementTimeMsg
		wantErr      *errors.Error
		wantRetireAt weave.UnixTime
	}{
		"postpone retirement": {
			register:     true,
			blockTime:    now,
			msg:          &SetRetirementTimeMsg{RetireAt: at(now, 10*day)},
			wantRetireAt: at(now, 10*day),
		},
		"retirement time in the past is accepted": {
			register:     true,
			blockTime:    now,
			msg:          &SetRetirementTimeMsg{RetireAt: at(now, -day)},
			wantRetireAt: at(now, -day),
		},
		"retire now": {
			register:     true,
			blockTime:    now.Add(time.Minute),
			msg:          &SetRetirementTimeMsg{Now: true},
			wantRetireAt: at(now, time.Minute),
		},
		"not registered": {
			blockTime: now,
			msg:       &SetRetirementTimeMsg{Now: true},
			wantErr:   ErrRecordNotFound,
		},
		"already retired": {
			register:     true,
			blockTime:    now.Add(time.Hour),
			msg:          &SetRetirementTimeMsg{RetireAt: at(now, 10*day)},
			wantErr:      ErrAlreadyRetired,
			wantRetireAt: at(now, time.Hour),
		},
		"both time and now": {
			register:     true,
			blockTime:    now,
			msg:          &SetRetirementTimeMsg{RetireAt: at(now, day), Now: true},
			wantErr:      errors.ErrInput,
			wantRetireAt: at(now, time.Hour),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := newTestEnv(t)
			if tc.register {
				env.register(alice, time.Hour)
			}
			_, err := env.exec(tc.blockTime, alice, tc.msg)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.register {
				require.Equal(t, tc.wantRetireAt, env.pensioner(alice).RetireAt)
			}
		})
	}
}

func TestSetBenefitDuration(t *testing.T) {
	alice := weavetest.NewCondition()

	cases := map[string]struct {
		register   bool
		blockTime  time.Time
		window     weave.UnixTime
		wantErr    *errors.Error
		wantWindow weave.UnixTime
	}{
		"extend benefit window": {
			register:   true,
			blockTime:  now,
			window:     at(now, 730*day),
			wantWindow: at(now, 730*day),
		},
		"not registered": {
			blockTime: now,
			window:    at(now, 730*day),
			wantErr:   ErrRecordNotFound,
		},
		"already retired": {
			register:   true,
			blockTime:  now.Add(2 * time.Hour),
			window:     at(now, 730*day),
			wantErr:    ErrAlreadyRetired,
			wantWindow: at(now, 365*day),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := newTestEnv(t)
			if tc.register {
				env.register(alice, time.Hour)
			}
			_, err := env.exec(tc.blockTime, alice, &SetBenefitDurationMsg{BenefitWindow: tc.window})
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.register {
				require.Equal(t, tc.wantWindow, env.pensioner(alice).BenefitWindow)
			}
		})
	}
}

func TestScheduleFrozenAfterRetirement(t *testing.T) {
	env := newTestEnv(t)
	alice := weavetest.NewCondition()
	env.mint(alice, 10)
	env.register(alice, time.Hour)

	// Moving the retirement time while active is what makes the later
	// calls fail.
	if _, err := env.exec(now, alice, &SetRetirementTimeMsg{RetireAt: at(now, 2*time.Minute)}); err != nil {
		t.Fatalf("cannot set retirement time: %+v", err)
	}

	later := now.Add(2 * time.Minute)
	msgs := []weave.Msg{
		&FundPensionMsg{Amount: pen(1)},
		&SetRetirementTimeMsg{RetireAt: at(now, day)},
		&SetRetirementTimeMsg{Now: true},
		&SetBenefitDurationMsg{BenefitWindow: at(now, 900*day)},
	}
	for _, msg := range msgs {
		if _, err := env.exec(later, alice, msg); !ErrAlreadyRetired.Is(err) {
			t.Fatalf("%T: want already retired, got %+v", msg, err)
		}
	}
}

func TestCalculateState(t *testing.T) {
	env := newTestEnv(t)
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()
	carol := weavetest.NewCondition()
	for _, c := range []weave.Condition{alice, bob, carol} {
		env.mint(c, 10)
	}
	env.register(alice, time.Hour)
	env.register(bob, day)
	env.register(carol, 10*day)
	for i, c := range []weave.Condition{alice, bob, carol} {
		if _, err := env.exec(now, c, &FundPensionMsg{Amount: pen(int64(i + 1))}); err != nil {
			t.Fatalf("cannot fund: %+v", err)
		}
	}

	if _, err := env.exec(now, alice, &CalculateStateMsg{}); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("only the owner can calculate the state, got %+v", err)
	}

	calculatedAt := now.Add(2 * day)
	res, err := env.exec(calculatedAt, env.owner, &CalculateStateMsg{Memo: "weekly"})
	if err != nil {
		t.Fatalf("cannot calculate state: %+v", err)
	}
	var snap StateSnapshot
	require.Nil(t, snap.Unmarshal(res.Data))

	want := StateSnapshot{
		CalculatedAt:      weave.AsUnixTime(calculatedAt),
		NextCalculationAt: weave.AsUnixTime(calculatedAt.Add(7 * day)),
		Active:            1,
		Retired:           2,
		Balance:           pen(6),
	}
	require.Equal(t, want, snap)
	require.Equal(t, "active=1 retired=2 balance=6 PEN", res.Log)

	var stored []*StateSnapshot
	_, err = NewSnapshotBucket().All(env.db, &stored)
	require.Nil(t, err)
	require.Equal(t, []*StateSnapshot{&want}, stored)

	// Calculation never changes pensioner records.
	require.Equal(t, at(now, time.Hour), env.pensioner(alice).RetireAt)
	require.Equal(t, *pen(6), env.balance())

	// Calculating again before the next calculation time is allowed.
	if _, err := env.exec(calculatedAt.Add(time.Second), env.owner, &CalculateStateMsg{}); err != nil {
		t.Fatalf("cannot recalculate: %+v", err)
	}
}

func TestCalculateStateDetectsBalanceMismatch(t *testing.T) {
	env := newTestEnv(t)
	alice := weavetest.NewCondition()
	env.register(alice, time.Hour)

	ledgers := NewLedgerBucket()
	l, err := LoadLedger(env.db, ledgers, "PEN")
	require.Nil(t, err)
	l.Balance = pen(3)
	require.Nil(t, saveLedger(env.db, ledgers, l))

	conf, err := LoadConfiguration(env.db)
	require.Nil(t, err)
	_, err = CalculateState(env.db, NewPensionerBucket(), ledgers, conf, weave.AsUnixTime(now))
	require.True(t, errors.ErrState.Is(err), "unexpected error: %+v", err)
}

func TestUpdateConfiguration(t *testing.T) {
	env := newTestEnv(t)
	newOwner := weavetest.NewCondition()

	patch := &UpdateConfigurationMsg{Patch: &Configuration{Owner: newOwner.Address()}}
	if _, err := env.exec(now, newOwner, patch); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %+v", err)
	}
	if _, err := env.exec(now, env.owner, patch); err != nil {
		t.Fatalf("cannot update configuration: %+v", err)
	}
	conf, err := LoadConfiguration(env.db)
	require.Nil(t, err)
	require.Equal(t, newOwner.Address(), conf.Owner)
	require.Equal(t, "PEN", conf.Ticker)

	if _, err := env.exec(now, newOwner, &CalculateStateMsg{}); err != nil {
		t.Fatalf("new owner cannot calculate state: %+v", err)
	}

	ticker := &UpdateConfigurationMsg{Patch: &Configuration{Ticker: "IOV"}}
	if _, err := env.exec(now, newOwner, ticker); !errors.ErrImmutable.Is(err) {
		t.Fatalf("want immutable ticker, got %+v", err)
	}
}

func TestUpdateConfigurationPayoutInterval(t *testing.T) {
	env := newTestEnv(t)

	patch := &UpdateConfigurationMsg{Patch: &Configuration{PayoutInterval: weave.AsUnixDuration(day)}}
	if _, err := env.exec(now, env.owner, patch); err != nil {
		t.Fatalf("cannot update configuration: %+v", err)
	}
	conf, err := LoadConfiguration(env.db)
	require.Nil(t, err)
	require.Equal(t, weave.AsUnixDuration(day), conf.PayoutInterval)
	require.Equal(t, env.owner.Address(), conf.Owner)
	require.Equal(t, "PEN", conf.Ticker)
}

func TestUpdateConfigurationRequiresGenesis(t *testing.T) {
	h := &UpdateConfigurationHandler{auth: &weavetest.Auth{Signer: weavetest.NewCondition()}}
	tx := &weavetest.Tx{Msg: &UpdateConfigurationMsg{Patch: &Configuration{PayoutInterval: 1}}}
	_, err := h.Check(context.Background(), store.MemStore(), tx)
	require.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)
}

func TestRegisterRoutes(t *testing.T) {
	r := make(testRegistry)
	RegisterRoutes(r, &weavetest.Auth{}, nil, nil)

	want := []string{
		"pension/create",
		"pension/fund",
		"pension/set_retirement_time",
		"pension/set_benefit_duration",
		"pension/calculate_state",
		"pension/update_configuration",
	}
	require.Equal(t, len(want), len(r))
	for _, path := range want {
		if _, ok := r[path]; !ok {
			t.Errorf("%q not registered", path)
		}
	}
}
