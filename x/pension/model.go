package pension

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/orm"
)

const (
	// pensionerIndexName is the unique index realising the pensioner
	// list. It maps a registration position to the pensioner address.
	pensionerIndexName = "index"

	ledgerKey = "ledger"
)

var _ orm.Model = (*Pensioner)(nil)

// Validate ensures the pensioner record is consistent.
func (p *Pensioner) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", p.Address.Validate())
	if p.RetireAt == 0 {
		errs = errors.Append(errs, errors.Field("RetireAt", errors.ErrEmpty, "required"))
	} else {
		errs = errors.AppendField(errs, "RetireAt", p.RetireAt.Validate())
	}
	errs = errors.AppendField(errs, "BenefitWindow", p.BenefitWindow.Validate())
	errs = errors.AppendField(errs, "FundedBalance", validateBalance(p.FundedBalance))
	if p.Index < 0 {
		errs = errors.Append(errs, errors.Field("Index", errors.ErrInput, "must not be negative"))
	}
	return errs
}

// Copy returns a deep copy of this record.
func (p *Pensioner) Copy() orm.CloneableData {
	return &Pensioner{
		Address:       append(weave.Address(nil), p.Address...),
		RetireAt:      p.RetireAt,
		BenefitWindow: p.BenefitWindow,
		FundedBalance: p.FundedBalance.Clone(),
		Index:         p.Index,
	}
}

// IsRetired returns true if the retirement time was reached at given time.
// A pension retires at the very moment of its retirement time.
func (p *Pensioner) IsRetired(now weave.UnixTime) bool {
	return now >= p.RetireAt
}

// NewPensionerBucket returns a bucket for storing pensioner records keyed by
// their address.
func NewPensionerBucket() orm.ModelBucket {
	b := orm.NewModelBucket("pensioner", &Pensioner{},
		orm.WithIndex(pensionerIndexName, pensionerIndexer, true),
	)
	return b
}

func pensionerIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	p, ok := obj.Value().(*Pensioner)
	if !ok {
		return nil, errors.Wrapf(errors.ErrState, "expected pensioner, got %T", obj.Value())
	}
	return IndexKey(p.Index), nil
}

// IndexKey returns the pensioner list index value for given position.
func IndexKey(index int64) []byte {
	return orm.EncodeSequence(index)
}

// PensionerAt returns the pensioner registered at given position of the
// pensioner list. ErrIndexOutOfRange is returned if the position is not
// taken.
func PensionerAt(db weave.ReadOnlyKVStore, b orm.ModelBucket, index int64) (*Pensioner, error) {
	if index < 0 {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d", index)
	}
	var found []*Pensioner
	if _, err := b.ByIndex(db, pensionerIndexName, IndexKey(index), &found); err != nil {
		return nil, errors.Wrap(err, "pensioner index")
	}
	switch len(found) {
	case 0:
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d", index)
	case 1:
		return found[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d pensioners share index %d", len(found), index)
	}
}

// loadPensioner returns the record of given address. ErrRecordNotFound is
// returned if the address is not registered.
func loadPensioner(db weave.ReadOnlyKVStore, b orm.ModelBucket, addr weave.Address) (*Pensioner, error) {
	var p Pensioner
	switch err := b.One(db, addr, &p); {
	case err == nil:
		return &p, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrRecordNotFound, "address %s", addr)
	default:
		return nil, errors.Wrap(err, "cannot load pensioner")
	}
}

var _ orm.Model = (*Ledger)(nil)

// Validate ensures the ledger is consistent.
func (l *Ledger) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Balance", validateBalance(l.Balance))
	if l.Count < 0 {
		errs = errors.Append(errs, errors.Field("Count", errors.ErrInput, "must not be negative"))
	}
	return errs
}

// Copy returns a deep copy of the ledger.
func (l *Ledger) Copy() orm.CloneableData {
	return &Ledger{
		Balance: l.Balance.Clone(),
		Count:   l.Count,
	}
}

// NewLedgerBucket returns a bucket holding the ledger singleton.
func NewLedgerBucket() orm.ModelBucket {
	return orm.NewModelBucket("ledger", &Ledger{})
}

// LedgerKey returns the key under which the ledger singleton is stored.
func LedgerKey() []byte {
	return []byte(ledgerKey)
}

// LoadLedger returns the ledger singleton. A chain that has no pensioners
// yet may not have the ledger stored, in which case an empty ledger
// denominated in given ticker is returned.
func LoadLedger(db weave.ReadOnlyKVStore, b orm.ModelBucket, ticker string) (*Ledger, error) {
	var l Ledger
	switch err := b.One(db, LedgerKey(), &l); {
	case err == nil:
		return &l, nil
	case errors.ErrNotFound.Is(err):
		return &Ledger{Balance: coin.NewCoinp(0, 0, ticker)}, nil
	default:
		return nil, errors.Wrap(err, "cannot load ledger")
	}
}

func saveLedger(db weave.KVStore, b orm.ModelBucket, l *Ledger) error {
	_, err := b.Put(db, LedgerKey(), l)
	return err
}

// LedgerAddress returns the address of the wallet holding all contributed
// funds.
func LedgerAddress() weave.Address {
	return weave.NewCondition("pension", "ledger", []byte("custody")).Address()
}

var _ orm.Model = (*StateSnapshot)(nil)

// Validate ensures the snapshot is consistent.
func (s *StateSnapshot) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CalculatedAt", s.CalculatedAt.Validate())
	if s.NextCalculationAt <= s.CalculatedAt {
		errs = errors.Append(errs, errors.Field("NextCalculationAt", errors.ErrState, "must be after calculation time"))
	}
	if s.Active < 0 || s.Retired < 0 {
		errs = errors.Append(errs, errors.Wrap(errors.ErrState, "negative counter"))
	}
	errs = errors.AppendField(errs, "Balance", validateBalance(s.Balance))
	return errs
}

// Copy returns a deep copy of the snapshot.
func (s *StateSnapshot) Copy() orm.CloneableData {
	return &StateSnapshot{
		CalculatedAt:      s.CalculatedAt,
		NextCalculationAt: s.NextCalculationAt,
		Active:            s.Active,
		Retired:           s.Retired,
		Balance:           s.Balance.Clone(),
	}
}

// NewSnapshotBucket returns a bucket that stores every state calculation
// result under a sequence generated key.
func NewSnapshotBucket() orm.ModelBucket {
	return orm.NewModelBucket("snapshot", &StateSnapshot{})
}

func validateBalance(c *coin.Coin) error {
	if c == nil {
		return errors.Wrap(errors.ErrEmpty, "required")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}
