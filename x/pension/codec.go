package pension

import (
	"github.com/gogo/protobuf/proto"
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
)

// Pensioner is the record of a single registered participant. It is stored
// under the participant address.
type Pensioner struct {
	// Address of the participant. Only this address can modify or fund
	// the record.
	Address weave.Address `protobuf:"bytes,1,opt,name=address,proto3,casttype=github.com/pensionledger/weave.Address" json:"address,omitempty"`
	// RetireAt is the time at which the record becomes retired.
	RetireAt weave.UnixTime `protobuf:"varint,2,opt,name=retire_at,json=retireAt,proto3,casttype=github.com/pensionledger/weave.UnixTime" json:"retire_at,omitempty"`
	// BenefitWindow is the end of the period during which benefits can be
	// claimed.
	BenefitWindow weave.UnixTime `protobuf:"varint,3,opt,name=benefit_window,json=benefitWindow,proto3,casttype=github.com/pensionledger/weave.UnixTime" json:"benefit_window,omitempty"`
	// FundedBalance is the sum of all contributions.
	FundedBalance *coin.Coin `protobuf:"bytes,4,opt,name=funded_balance,json=fundedBalance,proto3" json:"funded_balance,omitempty"`
	// Index is the registration position, starting at zero.
	Index int64 `protobuf:"varint,5,opt,name=index,proto3" json:"index"`
}

func (m *Pensioner) Reset()         { *m = Pensioner{} }
func (m *Pensioner) String() string { return proto.CompactTextString(m) }
func (*Pensioner) ProtoMessage()    {}

func (m *Pensioner) GetFundedBalance() *coin.Coin {
	if m != nil {
		return m.FundedBalance
	}
	return nil
}

func (m *Pensioner) Marshal() ([]byte, error) {
	return proto.Marshal((*pensionerPB)(m))
}

func (m *Pensioner) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*pensionerPB)(m))
}

// pensionerPB is Pensioner without methods. The protobuf library would call
// back Marshal and Unmarshal of Pensioner, so it is given this type instead.
type pensionerPB Pensioner

func (m *pensionerPB) Reset()         { *m = pensionerPB{} }
func (m *pensionerPB) String() string { return proto.CompactTextString(m) }
func (*pensionerPB) ProtoMessage()    {}

// Ledger is the singleton holding the aggregated state of all pensioners.
type Ledger struct {
	// Balance is the total value held in custody.
	Balance *coin.Coin `protobuf:"bytes,1,opt,name=balance,proto3" json:"balance,omitempty"`
	// Count is the number of registered pensioners. It is also the index
	// assigned to the next registration.
	Count int64 `protobuf:"varint,2,opt,name=count,proto3" json:"count"`
}

func (m *Ledger) Reset()         { *m = Ledger{} }
func (m *Ledger) String() string { return proto.CompactTextString(m) }
func (*Ledger) ProtoMessage()    {}

func (m *Ledger) GetBalance() *coin.Coin {
	if m != nil {
		return m.Balance
	}
	return nil
}

func (m *Ledger) Marshal() ([]byte, error) {
	return proto.Marshal((*ledgerPB)(m))
}

func (m *Ledger) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*ledgerPB)(m))
}

// ledgerPB is Ledger without methods. The protobuf library would call back
// Marshal and Unmarshal of Ledger, so it is given this type instead.
type ledgerPB Ledger

func (m *ledgerPB) Reset()         { *m = ledgerPB{} }
func (m *ledgerPB) String() string { return proto.CompactTextString(m) }
func (*ledgerPB) ProtoMessage()    {}

// StateSnapshot is the result of a state calculation.
type StateSnapshot struct {
	CalculatedAt      weave.UnixTime `protobuf:"varint,1,opt,name=calculated_at,json=calculatedAt,proto3,casttype=github.com/pensionledger/weave.UnixTime" json:"calculated_at,omitempty"`
	NextCalculationAt weave.UnixTime `protobuf:"varint,2,opt,name=next_calculation_at,json=nextCalculationAt,proto3,casttype=github.com/pensionledger/weave.UnixTime" json:"next_calculation_at,omitempty"`
	Active            int64          `protobuf:"varint,3,opt,name=active,proto3" json:"active"`
	Retired           int64          `protobuf:"varint,4,opt,name=retired,proto3" json:"retired"`
	Balance           *coin.Coin     `protobuf:"bytes,5,opt,name=balance,proto3" json:"balance,omitempty"`
}

func (m *StateSnapshot) Reset()         { *m = StateSnapshot{} }
func (m *StateSnapshot) String() string { return proto.CompactTextString(m) }
func (*StateSnapshot) ProtoMessage()    {}

func (m *StateSnapshot) Marshal() ([]byte, error) {
	return proto.Marshal((*stateSnapshotPB)(m))
}

func (m *StateSnapshot) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*stateSnapshotPB)(m))
}

// stateSnapshotPB is StateSnapshot without methods. The protobuf library
// would call back Marshal and Unmarshal of StateSnapshot, so it is given this
// type instead.
type stateSnapshotPB StateSnapshot

func (m *stateSnapshotPB) Reset()         { *m = stateSnapshotPB{} }
func (m *stateSnapshotPB) String() string { return proto.CompactTextString(m) }
func (*stateSnapshotPB) ProtoMessage()    {}

// Configuration is the on-chain configuration of the pension extension.
type Configuration struct {
	// Owner is allowed to update the configuration and to request state
	// calculations.
	Owner weave.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/pensionledger/weave.Address" json:"owner,omitempty"`
	// Ticker is the only currency accepted for contributions.
	Ticker string `protobuf:"bytes,2,opt,name=ticker,proto3" json:"ticker,omitempty"`
	// PayoutInterval is the time between two state calculations.
	PayoutInterval weave.UnixDuration `protobuf:"varint,3,opt,name=payout_interval,json=payoutInterval,proto3,casttype=github.com/pensionledger/weave.UnixDuration" json:"payout_interval,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

func (m *Configuration) GetOwner() weave.Address {
	if m != nil {
		return m.Owner
	}
	return nil
}

func (m *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationPB)(m))
}

func (m *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configurationPB)(m))
}

// configurationPB is Configuration without methods. The protobuf library
// would call back Marshal and Unmarshal of Configuration, so it is given this
// type instead.
type configurationPB Configuration

func (m *configurationPB) Reset()         { *m = configurationPB{} }
func (m *configurationPB) String() string { return proto.CompactTextString(m) }
func (*configurationPB) ProtoMessage()    {}

// CreatePensionerMsg registers the signer as a pensioner.
type CreatePensionerMsg struct {
	RetireAt      weave.UnixTime `protobuf:"varint,1,opt,name=retire_at,json=retireAt,proto3,casttype=github.com/pensionledger/weave.UnixTime" json:"retire_at,omitempty"`
	BenefitWindow weave.UnixTime `protobuf:"varint,2,opt,name=benefit_window,json=benefitWindow,proto3,casttype=github.com/pensionledger/weave.UnixTime" json:"benefit_window,omitempty"`
}

func (m *CreatePensionerMsg) Reset()         { *m = CreatePensionerMsg{} }
func (m *CreatePensionerMsg) String() string { return proto.CompactTextString(m) }
func (*CreatePensionerMsg) ProtoMessage()    {}

func (m *CreatePensionerMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*createPensionerMsgPB)(m))
}

func (m *CreatePensionerMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*createPensionerMsgPB)(m))
}

// createPensionerMsgPB is CreatePensionerMsg without methods. The protobuf
// library would call back Marshal and Unmarshal of CreatePensionerMsg, so it
// is given this type instead.
type createPensionerMsgPB CreatePensionerMsg

func (m *createPensionerMsgPB) Reset()         { *m = createPensionerMsgPB{} }
func (m *createPensionerMsgPB) String() string { return proto.CompactTextString(m) }
func (*createPensionerMsgPB) ProtoMessage()    {}

// FundPensionMsg moves the amount from the signer wallet into the ledger
// custody and credits it to the signer pension.
type FundPensionMsg struct {
	Amount *coin.Coin `protobuf:"bytes,1,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *FundPensionMsg) Reset()         { *m = FundPensionMsg{} }
func (m *FundPensionMsg) String() string { return proto.CompactTextString(m) }
func (*FundPensionMsg) ProtoMessage()    {}

func (m *FundPensionMsg) GetAmount() *coin.Coin {
	if m != nil {
		return m.Amount
	}
	return nil
}

func (m *FundPensionMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*fundPensionMsgPB)(m))
}

func (m *FundPensionMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*fundPensionMsgPB)(m))
}

// fundPensionMsgPB is FundPensionMsg without methods. The protobuf library
// would call back Marshal and Unmarshal of FundPensionMsg, so it is given
// this type instead.
type fundPensionMsgPB FundPensionMsg

func (m *fundPensionMsgPB) Reset()         { *m = fundPensionMsgPB{} }
func (m *fundPensionMsgPB) String() string { return proto.CompactTextString(m) }
func (*fundPensionMsgPB) ProtoMessage()    {}

// SetRetirementTimeMsg changes the retirement time of the signer pension.
// When Now is set, the retirement time becomes the current block time and
// RetireAt must be left empty.
type SetRetirementTimeMsg struct {
	RetireAt weave.UnixTime `protobuf:"varint,1,opt,name=retire_at,json=retireAt,proto3,casttype=github.com/pensionledger/weave.UnixTime" json:"retire_at,omitempty"`
	Now      bool           `protobuf:"varint,2,opt,name=now,proto3" json:"now,omitempty"`
}

func (m *SetRetirementTimeMsg) Reset()         { *m = SetRetirementTimeMsg{} }
func (m *SetRetirementTimeMsg) String() string { return proto.CompactTextString(m) }
func (*SetRetirementTimeMsg) ProtoMessage()    {}

func (m *SetRetirementTimeMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*setRetirementTimeMsgPB)(m))
}

func (m *SetRetirementTimeMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*setRetirementTimeMsgPB)(m))
}

// setRetirementTimeMsgPB is SetRetirementTimeMsg without methods. The
// protobuf library would call back Marshal and Unmarshal of
// SetRetirementTimeMsg, so it is given this type instead.
type setRetirementTimeMsgPB SetRetirementTimeMsg

func (m *setRetirementTimeMsgPB) Reset()         { *m = setRetirementTimeMsgPB{} }
func (m *setRetirementTimeMsgPB) String() string { return proto.CompactTextString(m) }
func (*setRetirementTimeMsgPB) ProtoMessage()    {}

// SetBenefitDurationMsg changes the benefit window of the signer pension.
type SetBenefitDurationMsg struct {
	BenefitWindow weave.UnixTime `protobuf:"varint,1,opt,name=benefit_window,json=benefitWindow,proto3,casttype=github.com/pensionledger/weave.UnixTime" json:"benefit_window,omitempty"`
}

func (m *SetBenefitDurationMsg) Reset()         { *m = SetBenefitDurationMsg{} }
func (m *SetBenefitDurationMsg) String() string { return proto.CompactTextString(m) }
func (*SetBenefitDurationMsg) ProtoMessage()    {}

func (m *SetBenefitDurationMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*setBenefitDurationMsgPB)(m))
}

func (m *SetBenefitDurationMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*setBenefitDurationMsgPB)(m))
}

// setBenefitDurationMsgPB is SetBenefitDurationMsg without methods. The
// protobuf library would call back Marshal and Unmarshal of
// SetBenefitDurationMsg, so it is given this type instead.
type setBenefitDurationMsgPB SetBenefitDurationMsg

func (m *setBenefitDurationMsgPB) Reset()         { *m = setBenefitDurationMsgPB{} }
func (m *setBenefitDurationMsgPB) String() string { return proto.CompactTextString(m) }
func (*setBenefitDurationMsgPB) ProtoMessage()    {}

// CalculateStateMsg requests a summary of the ledger state as of the current
// block time.
type CalculateStateMsg struct {
	// Memo is an optional human readable note.
	Memo string `protobuf:"bytes,1,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *CalculateStateMsg) Reset()         { *m = CalculateStateMsg{} }
func (m *CalculateStateMsg) String() string { return proto.CompactTextString(m) }
func (*CalculateStateMsg) ProtoMessage()    {}

func (m *CalculateStateMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*calculateStateMsgPB)(m))
}

func (m *CalculateStateMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*calculateStateMsgPB)(m))
}

// calculateStateMsgPB is CalculateStateMsg without methods. The protobuf
// library would call back Marshal and Unmarshal of CalculateStateMsg, so it
// is given this type instead.
type calculateStateMsgPB CalculateStateMsg

func (m *calculateStateMsgPB) Reset()         { *m = calculateStateMsgPB{} }
func (m *calculateStateMsgPB) String() string { return proto.CompactTextString(m) }
func (*calculateStateMsgPB) ProtoMessage()    {}

// UpdateConfigurationMsg patches the configuration. Only non zero fields of
// the patch are applied.
type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *UpdateConfigurationMsg) Reset()         { *m = UpdateConfigurationMsg{} }
func (m *UpdateConfigurationMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateConfigurationMsg) ProtoMessage()    {}

func (m *UpdateConfigurationMsg) GetPatch() *Configuration {
	if m != nil {
		return m.Patch
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*updateConfigurationMsgPB)(m))
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*updateConfigurationMsgPB)(m))
}

// updateConfigurationMsgPB is UpdateConfigurationMsg without methods. The
// protobuf library would call back Marshal and Unmarshal of
// UpdateConfigurationMsg, so it is given this type instead.
type updateConfigurationMsgPB UpdateConfigurationMsg

func (m *updateConfigurationMsgPB) Reset()         { *m = updateConfigurationMsgPB{} }
func (m *updateConfigurationMsgPB) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsgPB) ProtoMessage()    {}
