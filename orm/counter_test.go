package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/pensionledger/weave/errors"
)

// Counter is a minimal model used to exercise buckets and indexes.
type Counter struct {
	Count int64 `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
}

func (m *Counter) Reset()         { *m = Counter{} }
func (m *Counter) String() string { return proto.CompactTextString(m) }
func (*Counter) ProtoMessage()    {}

func (m *Counter) Marshal() ([]byte, error) {
	return proto.Marshal((*counterPB)(m))
}

func (m *Counter) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*counterPB)(m))
}

// counterPB is Counter without methods. The protobuf library would call back
// Marshal and Unmarshal of Counter, so it is given this type instead.
type counterPB Counter

func (m *counterPB) Reset()         { *m = counterPB{} }
func (m *counterPB) String() string { return proto.CompactTextString(m) }
func (*counterPB) ProtoMessage()    {}

var _ Model = (*Counter)(nil)

// NewCounter returns a counter initialized with given value.
func NewCounter(count int64) *Counter {
	return &Counter{Count: count}
}

// Copy produces a new copy to fulfill the Model interface
func (m *Counter) Copy() CloneableData {
	return &Counter{Count: m.Count}
}

// Validate requires the counter to be non negative.
func (m *Counter) Validate() error {
	if m.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative count")
	}
	return nil
}
