package weavetest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/crypto"
)

// NewKey returns a freshly generated ed25519 private key.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns a condition that was never returned before by this
// function. It is not backed by a private key.
func NewCondition() weave.Condition {
	n := atomic.AddUint64(&condCounter, 1)
	return weave.NewCondition("weavetest", "seq", SequenceID(n))
}

var condCounter uint64

// SequenceID returns the binary representation of a sequence value, as
// produced by the orm.Sequence.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
