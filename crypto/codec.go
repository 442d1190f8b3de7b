package crypto

import (
	"github.com/gogo/protobuf/proto"
)

// PublicKey is the serialized form of a public key. Ed25519 is the only
// supported algorithm.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *PublicKey) Reset()         { *m = PublicKey{} }
func (m *PublicKey) String() string { return proto.CompactTextString(m) }
func (*PublicKey) ProtoMessage()    {}

func (m *PublicKey) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}

func (m *PublicKey) Marshal() ([]byte, error) {
	return proto.Marshal((*publicKeyPB)(m))
}

func (m *PublicKey) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*publicKeyPB)(m))
}

// publicKeyPB is PublicKey without methods. The protobuf library would call back
// Marshal and Unmarshal of PublicKey, so it is given this type instead.
type publicKeyPB PublicKey

func (m *publicKeyPB) Reset()         { *m = publicKeyPB{} }
func (m *publicKeyPB) String() string { return proto.CompactTextString(m) }
func (*publicKeyPB) ProtoMessage()    {}

// PrivateKey is the serialized form of a private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *PrivateKey) Reset()         { *m = PrivateKey{} }
func (m *PrivateKey) String() string { return proto.CompactTextString(m) }
func (*PrivateKey) ProtoMessage()    {}

func (m *PrivateKey) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}

func (m *PrivateKey) Marshal() ([]byte, error) {
	return proto.Marshal((*privateKeyPB)(m))
}

func (m *PrivateKey) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*privateKeyPB)(m))
}

// privateKeyPB is PrivateKey without methods. The protobuf library would call back
// Marshal and Unmarshal of PrivateKey, so it is given this type instead.
type privateKeyPB PrivateKey

func (m *privateKeyPB) Reset()         { *m = privateKeyPB{} }
func (m *privateKeyPB) String() string { return proto.CompactTextString(m) }
func (*privateKeyPB) ProtoMessage()    {}

// Signature is the serialized form of a signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *Signature) Reset()         { *m = Signature{} }
func (m *Signature) String() string { return proto.CompactTextString(m) }
func (*Signature) ProtoMessage()    {}

func (m *Signature) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}

func (m *Signature) Marshal() ([]byte, error) {
	return proto.Marshal((*signaturePB)(m))
}

func (m *Signature) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*signaturePB)(m))
}

// signaturePB is Signature without methods. The protobuf library would call back
// Marshal and Unmarshal of Signature, so it is given this type instead.
type signaturePB Signature

func (m *signaturePB) Reset()         { *m = signaturePB{} }
func (m *signaturePB) String() string { return proto.CompactTextString(m) }
func (*signaturePB) ProtoMessage()    {}
