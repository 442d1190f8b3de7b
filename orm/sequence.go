package orm

import (
	"encoding/binary"

	"github.com/pensionledger/weave"
)

// Sequence is a persistent counter stored under "_s.<bucket>:<name>".
// Values are encoded big endian, so their byte order follows the numbers.
type Sequence struct {
	key []byte
}

func NewSequence(bucket, name string) Sequence {
	return Sequence{key: []byte("_s." + bucket + ":" + name)}
}

// NextInt advances the counter and returns the new value.
func (s Sequence) NextInt(db weave.KVStore) (int64, error) {
	cur, _, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	cur++
	return cur, db.Set(s.key, EncodeSequence(cur))
}

// NextVal is NextInt returning the encoded value.
func (s Sequence) NextVal(db weave.KVStore) ([]byte, error) {
	n, err := s.NextInt(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(n), nil
}

// Latest returns the last value handed out, both decoded and as stored,
// without advancing the counter. A fresh counter is at zero.
func (s Sequence) Latest(db weave.ReadOnlyKVStore) (int64, []byte, error) {
	raw, err := db.Get(s.key)
	if err != nil {
		return 0, nil, err
	}
	return DecodeSequence(raw), raw, nil
}

// EncodeSequence returns the 8 byte big endian form of n.
func EncodeSequence(n int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(n))
	return raw
}

// DecodeSequence reads a value written by EncodeSequence. Anything that is
// not 8 bytes long decodes as zero.
func DecodeSequence(raw []byte) int64 {
	if len(raw) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(raw))
}

