package pension

import (
	"fmt"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/orm"
	"github.com/pensionledger/weave/x"
	"github.com/pensionledger/weave/x/cash"
)

const (
	createPensionerCost    int64 = 200
	fundPensionCost        int64 = 100
	setRetirementTimeCost  int64 = 50
	setBenefitDurationCost int64 = 50
	calculateStateCost     int64 = 500
)

// RegisterRoutes registers handlers for all messages of this package. Metrics
// are optional and can be nil.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, bank cash.CoinMover, metrics *Metrics) {
	pensioners := NewPensionerBucket()
	ledger := NewLedgerBucket()

	r.Handle(pathCreatePensionerMsg, &CreatePensionerHandler{
		auth:       auth,
		pensioners: pensioners,
		ledger:     ledger,
		metrics:    metrics,
	})
	r.Handle(pathFundPensionMsg, &FundPensionHandler{
		auth:       auth,
		pensioners: pensioners,
		ledger:     ledger,
		bank:       bank,
		metrics:    metrics,
	})
	r.Handle(pathSetRetirementTimeMsg, &SetRetirementTimeHandler{
		auth:       auth,
		pensioners: pensioners,
		metrics:    metrics,
	})
	r.Handle(pathSetBenefitDurationMsg, &SetBenefitDurationHandler{
		auth:       auth,
		pensioners: pensioners,
		metrics:    metrics,
	})
	r.Handle(pathCalculateStateMsg, &CalculateStateHandler{
		auth:       auth,
		pensioners: pensioners,
		ledger:     ledger,
		snapshots:  NewSnapshotBucket(),
		metrics:    metrics,
	})
	r.Handle(pathUpdateConfigurationMsg, &UpdateConfigurationHandler{
		auth:    auth,
		metrics: metrics,
	})
}

// RegisterQuery registers pension buckets for querying. The pensioner list
// is available under "/pensioners/index", the ledger under "/pensionledger".
func RegisterQuery(qr weave.QueryRouter) {
	NewPensionerBucket().Register("pensioners", qr)
	NewLedgerBucket().Register("pensionledger", qr)
	NewSnapshotBucket().Register("pensionsnapshots", qr)
}

// CreatePensionerHandler registers the signer as a new pensioner.
type CreatePensionerHandler struct {
	auth       x.Authenticator
	pensioners orm.ModelBucket
	ledger     orm.ModelBucket
	metrics    *Metrics
}

var _ weave.Handler = (*CreatePensionerHandler)(nil)

func (h *CreatePensionerHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: createPensionerCost}, nil
}

func (h *CreatePensionerHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, caller, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	ledger, err := LoadLedger(db, h.ledger, conf.Ticker)
	if err != nil {
		return nil, err
	}
	p := &Pensioner{
		Address:       caller,
		RetireAt:      msg.RetireAt,
		BenefitWindow: msg.BenefitWindow,
		FundedBalance: coin.NewCoinp(0, 0, conf.Ticker),
		Index:         ledger.Count,
	}
	if _, err := h.pensioners.Put(db, caller, p); err != nil {
		return nil, errors.Wrap(err, "cannot store pensioner")
	}
	ledger.Count++
	if err := saveLedger(db, h.ledger, ledger); err != nil {
		return nil, errors.Wrap(err, "cannot store ledger")
	}

	weave.GetLogger(ctx).Info("pensioner created",
		"address", caller, "index", p.Index, "retire_at", p.RetireAt)
	h.metrics.event("created")
	return &weave.DeliverResult{Data: IndexKey(p.Index)}, nil
}

func (h *CreatePensionerHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CreatePensionerMsg, weave.Address, *Configuration, error) {
	var msg CreatePensionerMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := signer(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	now, err := weave.BlockUnixTime(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, nil, err
	}
	switch err := h.pensioners.Has(db, caller); {
	case err == nil:
		return nil, nil, nil, errors.Wrapf(ErrDuplicateRegistration, "address %s", caller)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, nil, errors.Wrap(err, "cannot check registration")
	}
	if msg.RetireAt <= now {
		return nil, nil, nil, errors.Wrapf(ErrInvalidRetirementTime, "%s is not after %s", msg.RetireAt, now)
	}
	return &msg, caller, conf, nil
}

// FundPensionHandler moves funds from the signer wallet into the ledger
// custody and credits them to the signer pension.
type FundPensionHandler struct {
	auth       x.Authenticator
	pensioners orm.ModelBucket
	ledger     orm.ModelBucket
	bank       cash.CoinMover
	metrics    *Metrics
}

var _ weave.Handler = (*FundPensionHandler)(nil)

func (h *FundPensionHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: fundPensionCost}, nil
}

func (h *FundPensionHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, p, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	amount := *msg.Amount

	// Funding nothing is accepted and does not move any coins.
	if amount.IsPositive() {
		if err := h.bank.MoveCoins(db, p.Address, LedgerAddress(), amount); err != nil {
			return nil, errors.Wrap(err, "cannot move funds to the ledger")
		}
	}

	funded, err := p.FundedBalance.Add(amount)
	if err != nil {
		return nil, errors.Wrap(err, "funded balance")
	}
	p.FundedBalance = &funded
	if _, err := h.pensioners.Put(db, p.Address, p); err != nil {
		return nil, errors.Wrap(err, "cannot store pensioner")
	}

	ledger, err := LoadLedger(db, h.ledger, conf.Ticker)
	if err != nil {
		return nil, err
	}
	total, err := ledger.Balance.Add(amount)
	if err != nil {
		return nil, errors.Wrap(err, "ledger balance")
	}
	ledger.Balance = &total
	if err := saveLedger(db, h.ledger, ledger); err != nil {
		return nil, errors.Wrap(err, "cannot store ledger")
	}

	weave.GetLogger(ctx).Info("pension funded",
		"address", p.Address, "amount", amount.String(), "balance", total.String())
	h.metrics.event("funded")
	h.metrics.setBalance(&total)

	raw, err := total.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal balance")
	}
	return &weave.DeliverResult{Data: raw}, nil
}

func (h *FundPensionHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*FundPensionMsg, *Pensioner, *Configuration, error) {
	var msg FundPensionMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	p, err := activePensioner(ctx, db, h.auth, h.pensioners)
	if err != nil {
		return nil, nil, nil, err
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if msg.Amount.Ticker != conf.Ticker {
		return nil, nil, nil, errors.Wrapf(errors.ErrCurrency, "%s is not accepted, use %s", msg.Amount.Ticker, conf.Ticker)
	}
	return &msg, p, conf, nil
}

// SetRetirementTimeHandler changes the retirement time of the signer
// pension. The new value is not required to be in the future, so that
// a pensioner can retire at any time.
type SetRetirementTimeHandler struct {
	auth       x.Authenticator
	pensioners orm.ModelBucket
	metrics    *Metrics
}

var _ weave.Handler = (*SetRetirementTimeHandler)(nil)

func (h *SetRetirementTimeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: setRetirementTimeCost}, nil
}

func (h *SetRetirementTimeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if msg.Now {
		now, err := weave.BlockUnixTime(ctx)
		if err != nil {
			return nil, err
		}
		p.RetireAt = now
	} else {
		p.RetireAt = msg.RetireAt
	}
	if _, err := h.pensioners.Put(db, p.Address, p); err != nil {
		return nil, errors.Wrap(err, "cannot store pensioner")
	}
	weave.GetLogger(ctx).Info("retirement time set",
		"address", p.Address, "retire_at", p.RetireAt)
	h.metrics.event("retirement_time_set")
	return &weave.DeliverResult{}, nil
}

func (h *SetRetirementTimeHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SetRetirementTimeMsg, *Pensioner, error) {
	var msg SetRetirementTimeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	p, err := activePensioner(ctx, db, h.auth, h.pensioners)
	if err != nil {
		return nil, nil, err
	}
	return &msg, p, nil
}

// SetBenefitDurationHandler changes the benefit window of the signer
// pension.
type SetBenefitDurationHandler struct {
	auth       x.Authenticator
	pensioners orm.ModelBucket
	metrics    *Metrics
}

var _ weave.Handler = (*SetBenefitDurationHandler)(nil)

func (h *SetBenefitDurationHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: setBenefitDurationCost}, nil
}

func (h *SetBenefitDurationHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	p.BenefitWindow = msg.BenefitWindow
	if _, err := h.pensioners.Put(db, p.Address, p); err != nil {
		return nil, errors.Wrap(err, "cannot store pensioner")
	}
	weave.GetLogger(ctx).Info("benefit window set",
		"address", p.Address, "benefit_window", p.BenefitWindow)
	h.metrics.event("benefit_window_set")
	return &weave.DeliverResult{}, nil
}

func (h *SetBenefitDurationHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SetBenefitDurationMsg, *Pensioner, error) {
	var msg SetBenefitDurationMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	p, err := activePensioner(ctx, db, h.auth, h.pensioners)
	if err != nil {
		return nil, nil, err
	}
	return &msg, p, nil
}

// CalculateStateHandler summarizes all pensioners as of the current block
// time. Only the configuration owner is allowed to request it. Pensioner
// records are never modified.
type CalculateStateHandler struct {
	auth       x.Authenticator
	pensioners orm.ModelBucket
	ledger     orm.ModelBucket
	snapshots  orm.ModelBucket
	metrics    *Metrics
}

var _ weave.Handler = (*CalculateStateHandler)(nil)

func (h *CalculateStateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: calculateStateCost}, nil
}

func (h *CalculateStateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	conf, now, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	snap, err := CalculateState(db, h.pensioners, h.ledger, conf, now)
	if err != nil {
		return nil, err
	}
	if _, err := h.snapshots.Put(db, nil, snap); err != nil {
		return nil, errors.Wrap(err, "cannot store snapshot")
	}
	raw, err := snap.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal snapshot")
	}

	weave.GetLogger(ctx).Info("state calculated",
		"active", snap.Active, "retired", snap.Retired, "balance", snap.Balance.String())
	h.metrics.event("state_calculated")
	h.metrics.setSnapshot(snap)

	return &weave.DeliverResult{
		Data: raw,
		Log:  fmt.Sprintf("active=%d retired=%d balance=%s", snap.Active, snap.Retired, snap.Balance),
	}, nil
}

func (h *CalculateStateHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*Configuration, weave.UnixTime, error) {
	var msg CalculateStateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, 0, err
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "configuration owner signature required")
	}
	now, err := weave.BlockUnixTime(ctx)
	if err != nil {
		return nil, 0, err
	}
	return conf, now, nil
}

// CalculateState counts active and retired pensioners as of given time and
// sums their funded balances. The sum must be equal to the ledger balance,
// otherwise ErrState is returned.
func CalculateState(
	db weave.ReadOnlyKVStore,
	pensioners orm.ModelBucket,
	ledgers orm.ModelBucket,
	conf *Configuration,
	now weave.UnixTime,
) (*StateSnapshot, error) {
	var all []*Pensioner
	if _, err := pensioners.All(db, &all); err != nil {
		return nil, errors.Wrap(err, "cannot load pensioners")
	}

	snap := StateSnapshot{
		CalculatedAt:      now,
		NextCalculationAt: now.Add(conf.PayoutInterval.Duration()),
	}
	sum := coin.NewCoin(0, 0, conf.Ticker)
	for _, p := range all {
		if p.IsRetired(now) {
			snap.Retired++
		} else {
			snap.Active++
		}
		var err error
		if sum, err = sum.Add(*p.FundedBalance); err != nil {
			return nil, errors.Wrapf(err, "pensioner %s balance", p.Address)
		}
	}

	ledger, err := LoadLedger(db, ledgers, conf.Ticker)
	if err != nil {
		return nil, err
	}
	if !sum.Equals(*ledger.Balance) {
		return nil, errors.Wrapf(errors.ErrState, "pensioners hold %s but the ledger holds %s", sum, ledger.Balance)
	}
	snap.Balance = &sum
	return &snap, nil
}

// activePensioner returns the record of the signer. The record must exist
// and must not be retired.
func activePensioner(ctx weave.Context, db weave.ReadOnlyKVStore, auth x.Authenticator, b orm.ModelBucket) (*Pensioner, error) {
	caller, err := signer(ctx, auth)
	if err != nil {
		return nil, err
	}
	now, err := weave.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}
	p, err := loadPensioner(db, b, caller)
	if err != nil {
		return nil, err
	}
	if p.IsRetired(now) {
		return nil, errors.Wrapf(ErrAlreadyRetired, "retired at %s", p.RetireAt)
	}
	return p, nil
}

// signer returns the address of the main signer of the transaction.
func signer(ctx weave.Context, auth x.Authenticator) (weave.Address, error) {
	cond := x.MainSigner(ctx, auth)
	if cond == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	return cond.Address(), nil
}
