package pension

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
)

const (
	pathCreatePensionerMsg     = "pension/create"
	pathFundPensionMsg         = "pension/fund"
	pathSetRetirementTimeMsg   = "pension/set_retirement_time"
	pathSetBenefitDurationMsg  = "pension/set_benefit_duration"
	pathCalculateStateMsg      = "pension/calculate_state"
	pathUpdateConfigurationMsg = "pension/update_configuration"

	maxMemoSize = 128
)

var _ weave.Msg = (*CreatePensionerMsg)(nil)

func (CreatePensionerMsg) Path() string {
	return pathCreatePensionerMsg
}

func (m *CreatePensionerMsg) Validate() error {
	var errs error
	if m.RetireAt == 0 {
		errs = errors.Append(errs, errors.Field("RetireAt", errors.ErrEmpty, "required"))
	} else {
		errs = errors.AppendField(errs, "RetireAt", m.RetireAt.Validate())
	}
	errs = errors.AppendField(errs, "BenefitWindow", m.BenefitWindow.Validate())
	return errs
}

var _ weave.Msg = (*FundPensionMsg)(nil)

func (FundPensionMsg) Path() string {
	return pathFundPensionMsg
}

// Validate accepts a zero amount. Funding nothing is a valid operation that
// does not change any balance.
func (m *FundPensionMsg) Validate() error {
	if m.Amount == nil {
		return errors.Field("Amount", errors.ErrEmpty, "required")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Field("Amount", err, "invalid amount")
	}
	if !m.Amount.IsNonNegative() {
		return errors.Field("Amount", errors.ErrAmount, "must not be negative")
	}
	return nil
}

var _ weave.Msg = (*SetRetirementTimeMsg)(nil)

func (SetRetirementTimeMsg) Path() string {
	return pathSetRetirementTimeMsg
}

func (m *SetRetirementTimeMsg) Validate() error {
	if m.Now {
		if m.RetireAt != 0 {
			return errors.Field("RetireAt", errors.ErrInput, "must not be set together with Now")
		}
		return nil
	}
	if m.RetireAt == 0 {
		return errors.Field("RetireAt", errors.ErrEmpty, "required")
	}
	return errors.AppendField(nil, "RetireAt", m.RetireAt.Validate())
}

var _ weave.Msg = (*SetBenefitDurationMsg)(nil)

func (SetBenefitDurationMsg) Path() string {
	return pathSetBenefitDurationMsg
}

func (m *SetBenefitDurationMsg) Validate() error {
	return errors.AppendField(nil, "BenefitWindow", m.BenefitWindow.Validate())
}

var _ weave.Msg = (*CalculateStateMsg)(nil)

func (CalculateStateMsg) Path() string {
	return pathCalculateStateMsg
}

func (m *CalculateStateMsg) Validate() error {
	if len(m.Memo) > maxMemoSize {
		return errors.Field("Memo", errors.ErrInput, "memo too long")
	}
	return nil
}

var _ weave.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

// Validate checks only the fields that are set, because zero fields of the
// patch are not applied. Ticker cannot be changed once the chain is running,
// because it denominates the stored balances.
func (m *UpdateConfigurationMsg) Validate() error {
	c := m.Patch
	if c == nil {
		return errors.Field("Patch", errors.ErrEmpty, "required")
	}
	var errs error
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Patch.Owner", c.Owner.Validate())
	}
	if c.Ticker != "" {
		errs = errors.Append(errs, errors.Field("Patch.Ticker", errors.ErrImmutable, "cannot be changed"))
	}
	if c.PayoutInterval < 0 {
		errs = errors.Append(errs, errors.Field("Patch.PayoutInterval", errors.ErrInput, "must not be negative"))
	}
	return errs
}
