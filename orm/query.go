package orm

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
)

// RegisterQuery exposes the whole store under "/". Keys are used as
// stored, bucket prefix included.
func RegisterQuery(qr weave.QueryRouter) {
	qr.Register("/", rawStore{})
}

type rawStore struct{}

func (rawStore) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	return queryStore(db, mod, data)
}

// queryStore reads the pair stored under key, or with mod set to
// weave.PrefixQueryMod, every pair whose key starts with it.
func queryStore(db weave.ReadOnlyKVStore, mod string, key []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		value, err := db.Get(key)
		if err != nil || value == nil {
			return nil, err
		}
		return []weave.Model{weave.Pair(key, value)}, nil
	case weave.PrefixQueryMod:
		it, err := db.Iterator(prefixRange(key))
		if err != nil {
			return nil, err
		}
		return collect(it)
	default:
		return nil, errors.Wrapf(errors.ErrHuman, "unknown query mode %q", mod)
	}
}

// prefixRange returns the iteration bounds covering every key that starts
// with prefix. The end is nil when no key past the prefix exists.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end
		}
	}
	return prefix, nil
}

// collect drains and releases the iterator.
func collect(it weave.Iterator) ([]weave.Model, error) {
	defer it.Release()
	var res []weave.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, weave.Pair(key, value))
	}
}
