package orm

import (
	"bytes"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
)

// Indexer derives the secondary key of an object. A nil key leaves the
// object out of the index.
type Indexer func(Object) ([]byte, error)

// index maps a derived value to primary keys. A unique index stores the
// single primary key as is, any other stores a MultiRef.
type index struct {
	name   string
	prefix []byte
	key    Indexer
	unique bool
	// ref turns a primary key into the key of the stored object.
	ref func([]byte) []byte
}

var _ weave.QueryHandler = index{}

func newIndex(bucket, name string, key Indexer, unique bool, ref func([]byte) []byte) index {
	return index{
		name:   name,
		prefix: []byte("_i." + bucket + "_" + name + ":"),
		key:    key,
		unique: unique,
		ref:    ref,
	}
}

func (ix index) dbKey(value []byte) []byte {
	return append(append(make([]byte, 0, len(ix.prefix)+len(value)), ix.prefix...), value...)
}

func (ix index) keyOf(obj Object) ([]byte, error) {
	if obj == nil {
		return nil, nil
	}
	return ix.key(obj)
}

// update replaces the entry of prev with the one of next. Either may be
// nil, but not both, and both must have the same primary key.
func (ix index) update(db weave.KVStore, prev, next Object) error {
	var pk []byte
	switch {
	case prev == nil && next == nil:
		return errors.Wrap(errors.ErrHuman, "index update without an object")
	case prev == nil:
		pk = next.Key()
	case next == nil:
		pk = prev.Key()
	case !bytes.Equal(prev.Key(), next.Key()):
		return errors.Wrap(errors.ErrImmutable, "primary key cannot change")
	default:
		pk = next.Key()
	}

	before, err := ix.keyOf(prev)
	if err != nil {
		return err
	}
	after, err := ix.keyOf(next)
	if err != nil {
		return err
	}
	if prev != nil && next != nil && bytes.Equal(before, after) {
		return nil
	}
	// Adding first keeps the index untouched when the unique check fails.
	if len(after) != 0 {
		if err := ix.add(db, after, pk); err != nil {
			return err
		}
	}
	if len(before) != 0 {
		if err := ix.remove(db, before, pk); err != nil {
			return err
		}
	}
	return nil
}

func (ix index) add(db weave.KVStore, value, pk []byte) error {
	key := ix.dbKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if ix.unique {
		if raw != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", ix.name)
		}
		return db.Set(key, pk)
	}

	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrState, "index %s: %s", ix.name, err)
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	return ix.store(db, key, &refs)
}

func (ix index) remove(db weave.KVStore, value, pk []byte) error {
	key := ix.dbKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s has no entry", ix.name)
	}
	if ix.unique {
		if !bytes.Equal(raw, pk) {
			return errors.Wrapf(errors.ErrNotFound, "index %s entry belongs to another object", ix.name)
		}
		return db.Delete(key)
	}

	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrState, "index %s: %s", ix.name, err)
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(key)
	}
	return ix.store(db, key, &refs)
}

func (ix index) store(db weave.KVStore, key []byte, refs *MultiRef) error {
	raw, err := refs.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrState, "index %s: %s", ix.name, err)
	}
	return db.Set(key, raw)
}

// refs returns the primary keys stored under value, in key order.
func (ix index) refs(db weave.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(ix.dbKey(value))
	if err != nil || raw == nil {
		return nil, err
	}
	return ix.decodeRefs(raw)
}

func (ix index) decodeRefs(raw []byte) ([][]byte, error) {
	if ix.unique {
		return [][]byte{raw}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(errors.ErrState, "index %s: %s", ix.name, err)
	}
	return refs.Refs, nil
}

// Query returns the stored objects referenced under the queried value, or
// under every value starting with it for a prefix query.
func (ix index) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	var refs [][]byte
	switch mod {
	case weave.KeyQueryMod:
		found, err := ix.refs(db, data)
		if err != nil {
			return nil, err
		}
		refs = found
	case weave.PrefixQueryMod:
		entries, err := queryStore(db, mod, ix.dbKey(data))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			found, err := ix.decodeRefs(e.Value)
			if err != nil {
				return nil, err
			}
			refs = append(refs, found...)
		}
	default:
		return nil, errors.Wrapf(errors.ErrHuman, "unknown query mode %q", mod)
	}

	var res []weave.Model
	for _, ref := range refs {
		key := ix.ref(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res = append(res, weave.Pair(key, value))
	}
	return res, nil
}
