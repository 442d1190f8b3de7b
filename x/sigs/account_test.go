package sigs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensionledger/weave/crypto"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/store"
)

func TestAccountLifecycle(t *testing.T) {
	kv := store.MemStore()
	accounts := NewBucket()
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	var stored UserData
	err := accounts.One(kv, pub.Address(), &stored)
	require.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)

	acc, err := loadAccount(kv, accounts, pub)
	require.NoError(t, err)
	assert.Equal(t, pub, acc.Pubkey)
	assert.Equal(t, int64(0), acc.Sequence)

	assert.Error(t, acc.CheckAndIncrementSequence(5))
	assert.NoError(t, acc.CheckAndIncrementSequence(0))
	assert.Error(t, acc.CheckAndIncrementSequence(0))
	assert.NoError(t, acc.CheckAndIncrementSequence(1))

	_, err = accounts.Put(kv, pub.Address(), acc)
	require.NoError(t, err)

	loaded, err := loadAccount(kv, accounts, pub)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.Sequence)
	assert.Equal(t, pub, loaded.Pubkey)

	next, err := NextNonce(kv, pub.Address())
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)

	next, err = NextNonce(kv, crypto.GenPrivKeyEd25519().PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(0), next)
}

func TestUserValidation(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	cases := map[string]struct {
		user    *UserData
		wantErr *errors.Error
	}{
		"fresh user": {
			user: &UserData{},
		},
		"user with a key": {
			user: &UserData{Pubkey: pub, Sequence: 17},
		},
		"negative sequence": {
			user:    &UserData{Pubkey: pub, Sequence: -30},
			wantErr: ErrInvalidSequence,
		},
		"sequence without a key": {
			user:    &UserData{Sequence: 3},
			wantErr: ErrInvalidSequence,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.user.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestUserPubkeyIsImmutable(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()
	u := &UserData{}
	u.SetPubkey(pub)
	assert.Panics(t, func() { u.SetPubkey(pub) })
}

func TestSequenceOverflow(t *testing.T) {
	u := &UserData{Sequence: maxSequence}
	err := u.CheckAndIncrementSequence(maxSequence)
	assert.True(t, errors.ErrOverflow.Is(err))
}
