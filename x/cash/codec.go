package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
)

// Set may contain Coin of many different currencies.
// It handles adding and subtracting sets of currencies.
type Set struct {
	Coins []*coin.Coin `protobuf:"bytes,1,rep,name=coins,proto3" json:"coins,omitempty"`
}

func (m *Set) Reset()         { *m = Set{} }
func (m *Set) String() string { return proto.CompactTextString(m) }
func (*Set) ProtoMessage()    {}

func (m *Set) GetCoins() []*coin.Coin {
	if m != nil {
		return m.Coins
	}
	return nil
}

func (m *Set) Marshal() ([]byte, error) {
	return proto.Marshal((*setPB)(m))
}

func (m *Set) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*setPB)(m))
}

// setPB is Set without methods. The protobuf library would call back
// Marshal and Unmarshal of Set, so it is given this type instead.
type setPB Set

func (m *setPB) Reset()         { *m = setPB{} }
func (m *setPB) String() string { return proto.CompactTextString(m) }
func (*setPB) ProtoMessage()    {}

// SendMsg is a request to move these coins from the given
// source to the given destination address.
type SendMsg struct {
	Source      weave.Address `protobuf:"bytes,1,opt,name=source,proto3,casttype=github.com/pensionledger/weave.Address" json:"source,omitempty"`
	Destination weave.Address `protobuf:"bytes,2,opt,name=destination,proto3,casttype=github.com/pensionledger/weave.Address" json:"destination,omitempty"`
	Amount      *coin.Coin    `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount,omitempty"`
	// Memo is an optional human readable message
	Memo string `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage()    {}

func (m *SendMsg) GetAmount() *coin.Coin {
	if m != nil {
		return m.Amount
	}
	return nil
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*sendMsgPB)(m))
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*sendMsgPB)(m))
}

// sendMsgPB is SendMsg without methods. The protobuf library would call back
// Marshal and Unmarshal of SendMsg, so it is given this type instead.
type sendMsgPB SendMsg

func (m *sendMsgPB) Reset()         { *m = sendMsgPB{} }
func (m *sendMsgPB) String() string { return proto.CompactTextString(m) }
func (*sendMsgPB) ProtoMessage()    {}
