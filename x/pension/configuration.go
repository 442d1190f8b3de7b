package pension

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/gconf"
	"github.com/pensionledger/weave/x"
)

const (
	packageName = "pension"

	updateConfigurationCost int64 = 50
)

var _ gconf.Configuration = (*Configuration)(nil)

// Validate ensures the configuration can be used by the handlers.
func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if !coin.IsCC(c.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", c.Ticker))
	}
	if c.PayoutInterval <= 0 {
		errs = errors.Append(errs, errors.Field("PayoutInterval", errors.ErrInput, "must be greater than zero"))
	}
	return errs
}

// apply copies the non zero fields of patch. Ticker is never copied,
// UpdateConfigurationMsg rejects it.
func (c *Configuration) apply(patch *Configuration) {
	if len(patch.Owner) != 0 {
		c.Owner = patch.Owner
	}
	if patch.PayoutInterval != 0 {
		c.PayoutInterval = patch.PayoutInterval
	}
}

// LoadConfiguration returns the current configuration of the pension
// extension.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// UpdateConfigurationHandler patches the configuration. The current owner
// must sign, so the configuration has to come from the genesis.
type UpdateConfigurationHandler struct {
	auth    x.Authenticator
	metrics *Metrics
}

var _ weave.Handler = (*UpdateConfigurationHandler)(nil)

func (h *UpdateConfigurationHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: updateConfigurationCost}, nil
}

func (h *UpdateConfigurationHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := gconf.Save(db, packageName, conf); err != nil {
		return nil, errors.Wrap(err, "save configuration")
	}
	weave.GetLogger(ctx).Info("configuration updated",
		"owner", conf.Owner, "payout_interval", conf.PayoutInterval)
	h.metrics.event("configuration_updated")
	return &weave.DeliverResult{}, nil
}

// validate returns the patched configuration, not yet stored.
func (h *UpdateConfigurationHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*Configuration, error) {
	var msg UpdateConfigurationMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "configuration owner signature required")
	}
	conf.apply(msg.Patch)
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "patched configuration")
	}
	return conf, nil
}
