package sigs

import "github.com/pensionledger/weave/errors"

// ErrInvalidSequence is returned when a signature nonce does not match the
// signer state.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
