package sigs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/crypto"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/store"
	"github.com/pensionledger/weave/weavetest"
)

func TestDecoratorSequence(t *testing.T) {
	const chainID = "pension-ledger-1"
	ctx := weave.WithChainID(context.Background(), chainID)
	employer := crypto.GenPrivKeyEd25519()
	employerCond := employer.PublicKey().Condition()

	tx := NewStdTx([]byte("fund pensioner 7"))
	signed := func(seq int64) []*StdSignature {
		sig, err := SignTx(employer, tx, chainID, seq)
		require.NoError(t, err)
		return []*StdSignature{sig}
	}

	steps := []struct {
		name    string
		strict  bool
		sigs    []*StdSignature
		wantErr *errors.Error
		want    []weave.Condition
	}{
		{name: "unsigned", strict: true, wantErr: errors.ErrUnauthorized},
		{name: "first signature", strict: true, sigs: signed(0), want: []weave.Condition{employerCond}},
		{name: "replay", strict: true, sigs: signed(0), wantErr: ErrInvalidSequence},
		{name: "skipped sequence", strict: true, sigs: signed(5), wantErr: ErrInvalidSequence},
		{name: "unsigned allowed", want: []weave.Condition{}},
		{name: "next sequence", sigs: signed(1), want: []weave.Condition{employerCond}},
	}

	// Check and Deliver keep their own account state.
	for _, deliver := range []bool{false, true} {
		db := store.MemStore()
		for _, step := range steps {
			d := NewDecorator()
			if !step.strict {
				d = d.AllowMissingSigs()
			}
			tx.Signatures = step.sigs
			h := &SigCheckHandler{}

			var err error
			if deliver {
				_, err = d.Deliver(ctx, db, tx, h)
			} else {
				_, err = d.Check(ctx, db, tx, h)
			}
			require.True(t, step.wantErr.Is(err), "deliver=%v %s: unexpected error: %+v", deliver, step.name, err)
			if step.wantErr == nil {
				assert.Equal(t, step.want, h.Signers, "deliver=%v %s", deliver, step.name)
			}
		}
	}
}

func TestDecoratorAllocatesGas(t *testing.T) {
	chainID := "pension-ledger-1"
	ctx := weave.WithChainID(context.Background(), chainID)
	priv := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("fund"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig}

	res, err := NewDecorator().Check(ctx, store.MemStore(), tx, &weavetest.Handler{})
	require.NoError(t, err)
	assert.Equal(t, int64(signatureVerifyCost), res.GasAllocated)
}

func TestDecoratorPassesUnsignedTx(t *testing.T) {
	ctx := weave.WithChainID(context.Background(), "pension-ledger-1")
	h := &SigCheckHandler{}
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "pension/create"}}

	_, err := NewDecorator().Deliver(ctx, store.MemStore(), tx, h)
	require.NoError(t, err)
	assert.Empty(t, h.Signers)
}

func TestAuthenticate(t *testing.T) {
	a := weavetest.NewCondition()
	b := weavetest.NewCondition()
	ctx := withSigners(context.Background(), []weave.Condition{a})

	var auth Authenticate
	assert.Equal(t, []weave.Condition{a}, auth.GetConditions(ctx))
	assert.True(t, auth.HasAddress(ctx, a.Address()))
	assert.False(t, auth.HasAddress(ctx, b.Address()))
	assert.Empty(t, auth.GetConditions(context.Background()))
}
