package app

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/store"
)

// ABCIStore reads the committed state of an application through queries,
// so that buckets can be used from outside the node. It relies on the raw
// "/" query path.
type ABCIStore struct {
	q Querier
}

var _ weave.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(q Querier) *ABCIStore {
	return &ABCIStore{q: q}
}

func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := QueryModels(a.q, "/", key)
	if err != nil || len(models) == 0 {
		return nil, err
	}
	return models[0].Value, nil
}

func (a *ABCIStore) Has(key []byte) (bool, error) {
	value, err := a.Get(key)
	return value != nil, err
}

// Iterator lists the whole store. Bounded ranges are not supported.
func (a *ABCIStore) Iterator(start, end []byte) (weave.Iterator, error) {
	models, err := a.everything(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator lists the whole store backwards.
func (a *ABCIStore) ReverseIterator(start, end []byte) (weave.Iterator, error) {
	models, err := a.everything(start, end)
	if err != nil {
		return nil, err
	}
	reversed := make([]weave.Model, len(models))
	for i, m := range models {
		reversed[len(models)-1-i] = m
	}
	return store.NewSliceIterator(reversed), nil
}

func (a *ABCIStore) everything(start, end []byte) ([]weave.Model, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrHuman, "only the full range can be iterated")
	}
	return QueryModels(a.q, "/?prefix", nil)
}
