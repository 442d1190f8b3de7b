package sigs

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/crypto"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/orm"
)

// BucketName holds the accounts of all signers, keyed by address.
const BucketName = "sigs"

// maxSequence is the greatest nonce a javascript client can represent,
// Number.MAX_SAFE_INTEGER.
const maxSequence = 1<<53 - 1

var _ orm.Model = (*UserData)(nil)

// NewBucket returns the bucket of signer accounts.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// RegisterQuery makes the accounts readable under "/auth".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Validate allows a sequence above zero only together with a key.
func (u *UserData) Validate() error {
	switch {
	case u.Sequence < 0:
		return errors.Field("Sequence", ErrInvalidSequence, "negative")
	case u.Sequence > 0 && u.Pubkey == nil:
		return errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey")
	}
	return nil
}

func (u *UserData) Copy() orm.CloneableData {
	dup := *u
	return &dup
}

// CheckAndIncrementSequence moves the sequence on when it equals
// expected.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "want %d, got %d", u.Sequence, expected)
	}
	if u.Sequence >= maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence")
	}
	u.Sequence++
	return nil
}

// SetPubkey panics when a key is already set. The key of an account
// never changes.
func (u *UserData) SetPubkey(pubkey *crypto.PublicKey) {
	if u.Pubkey != nil {
		panic("public key of an account cannot change")
	}
	u.Pubkey = pubkey
}

// loadAccount returns the account of pubkey. An account that never signed
// starts at sequence zero.
func loadAccount(db weave.ReadOnlyKVStore, accounts orm.ModelBucket, pubkey *crypto.PublicKey) (*UserData, error) {
	var u UserData
	switch err := accounts.One(db, pubkey.Address(), &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// NextNonce returns the sequence the next signature of signer must
// carry.
func NextNonce(db weave.ReadOnlyKVStore, signer weave.Address) (int64, error) {
	var u UserData
	switch err := NewBucket().One(db, signer, &u); {
	case err == nil:
		return u.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "account")
	}
}
