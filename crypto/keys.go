package crypto

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is the extension of every condition derived from a key.
const ExtensionName = "sigs"

// PubKey is what authentication needs from a public key.
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() weave.Condition
}

// Signer signs without exposing the private key, so that it can be backed
// by a hardware device.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var (
	_ PubKey = (*PublicKey)(nil)
	_ Signer = (*PrivateKey)(nil)
)

// GenPrivKeyEd25519 returns a new random key.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed derives the key of a 32 byte seed, as kept by
// pensioncli. It panics for a seed of another size.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}

func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.GetEd25519()) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrEmpty, "private key")
	}
	return &Signature{Ed25519: ed25519.Sign(p.Ed25519, message)}, nil
}

// PublicKey is nil for an empty key.
func (p *PrivateKey) PublicKey() *PublicKey {
	if len(p.GetEd25519()) != ed25519.PrivateKeySize {
		return nil
	}
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// Verify is false for a malformed key or signature.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	key, raw := p.GetEd25519(), sig.GetEd25519()
	if len(key) != ed25519.PublicKeySize || len(raw) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(key, message, raw)
}

// Condition is "sigs/ed25519/<key>", nil for an empty key.
func (p *PublicKey) Condition() weave.Condition {
	if len(p.GetEd25519()) == 0 {
		return nil
	}
	return weave.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address of the key condition, nil for an empty key.
func (p *PublicKey) Address() weave.Address {
	if c := p.Condition(); c != nil {
		return c.Address()
	}
	return nil
}
