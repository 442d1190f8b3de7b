package pensiond

import (
	"github.com/gogo/protobuf/proto"
	"github.com/pensionledger/weave/x/cash"
	"github.com/pensionledger/weave/x/pension"
	"github.com/pensionledger/weave/x/sigs"
)

// Tx contains the message. Exactly one message field must be set.
type Tx struct {
	// Signatures of the signers, in order. The first signer is the caller.
	Signatures                  []*sigs.StdSignature            `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	CashSendMsg                 *cash.SendMsg                   `protobuf:"bytes,20,opt,name=cash_send_msg,json=cashSendMsg,proto3" json:"cash_send_msg,omitempty"`
	PensionCreateMsg            *pension.CreatePensionerMsg     `protobuf:"bytes,30,opt,name=pension_create_msg,json=pensionCreateMsg,proto3" json:"pension_create_msg,omitempty"`
	PensionFundMsg              *pension.FundPensionMsg         `protobuf:"bytes,31,opt,name=pension_fund_msg,json=pensionFundMsg,proto3" json:"pension_fund_msg,omitempty"`
	PensionSetRetirementTimeMsg *pension.SetRetirementTimeMsg   `protobuf:"bytes,32,opt,name=pension_set_retirement_time_msg,json=pensionSetRetirementTimeMsg,proto3" json:"pension_set_retirement_time_msg,omitempty"`
	PensionSetBenefitMsg        *pension.SetBenefitDurationMsg  `protobuf:"bytes,33,opt,name=pension_set_benefit_msg,json=pensionSetBenefitMsg,proto3" json:"pension_set_benefit_msg,omitempty"`
	PensionCalculateStateMsg    *pension.CalculateStateMsg      `protobuf:"bytes,34,opt,name=pension_calculate_state_msg,json=pensionCalculateStateMsg,proto3" json:"pension_calculate_state_msg,omitempty"`
	PensionUpdateConfigMsg      *pension.UpdateConfigurationMsg `protobuf:"bytes,35,opt,name=pension_update_config_msg,json=pensionUpdateConfigMsg,proto3" json:"pension_update_config_msg,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

func (m *Tx) Marshal() ([]byte, error) {
	return proto.Marshal((*txPB)(m))
}

func (m *Tx) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*txPB)(m))
}

type txPB Tx

func (m *txPB) Reset()         { *m = txPB{} }
func (m *txPB) String() string { return proto.CompactTextString(m) }
func (*txPB) ProtoMessage()    {}
