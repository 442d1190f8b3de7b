/*
Package orm stores typed values in the key value store.

Every kind of value lives in its own Bucket, a key space prefixed with
"<bucket name>:". A bucket may keep secondary indexes that map a value
derived from the stored object back to its primary key, and sequences
that hand out increasing keys.
*/
package orm

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
)

var validBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`)

// Bucket holds objects of a single type. The proto object is cloned to
// decode every stored value.
type Bucket struct {
	name  string
	proto Cloneable
	// indexes are kept ordered by name, so that every node updates them in
	// the same order.
	indexes []index
}

var _ weave.QueryHandler = Bucket{}

// NewBucket returns a bucket named name. The name is part of every key,
// so it panics for anything but 3 to 10 lower case letters or underscores.
func NewBucket(name string, proto Cloneable) Bucket {
	if !validBucketName.MatchString(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{name: name, proto: proto}
}

func (b Bucket) Name() string {
	return b.name
}

// DBKey prefixes key with the bucket name. The result never shares memory
// with key.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.name)+1+len(key))
	out = append(out, b.name...)
	out = append(out, ':')
	return append(out, key...)
}

// WithIndex returns a copy of the bucket that also maintains the named
// index. Registering the same name twice panics.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	for _, ix := range b.indexes {
		if ix.name == name {
			panic(fmt.Sprintf("bucket %s: index %s already registered", b.name, name))
		}
	}
	ix := newIndex(b.name, name, indexer, unique, b.DBKey)
	indexes := append(make([]index, 0, len(b.indexes)+1), b.indexes...)
	indexes = append(indexes, ix)
	sort.Slice(indexes, func(i, j int) bool { return indexes[i].name < indexes[j].name })
	b.indexes = indexes
	return b
}

// Sequence returns the named counter of this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// Get loads the object stored under key. A missing key is not an error,
// both returned values are nil then.
func (b Bucket) Get(db weave.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	switch {
	case err != nil:
		return nil, err
	case raw == nil:
		return nil, nil
	}
	return b.decode(key, raw)
}

func (b Bucket) decode(key, raw []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(errors.ErrState, "bucket %s: cannot decode %T: %s", b.name, obj.Value(), err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates obj and writes it, updating all indexes.
func (b Bucket) Save(db weave.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrState, "bucket %s: cannot encode: %s", b.name, err)
	}
	if err := b.reindex(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

// Delete removes whatever is stored under key together with its index
// entries. Deleting a missing key does nothing.
func (b Bucket) Delete(db weave.KVStore, key []byte) error {
	if err := b.reindex(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// reindex moves the index entries of key from the stored object to next.
// A nil next removes them.
func (b Bucket) reindex(db weave.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && next == nil {
		return nil
	}
	for _, ix := range b.indexes {
		if err := ix.update(db, prev, next); err != nil {
			return err
		}
	}
	return nil
}

// GetIndexed returns all objects the named index holds under value.
func (b Bucket) GetIndexed(db weave.ReadOnlyKVStore, name string, value []byte) ([]Object, error) {
	ix, ok := b.index(name)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "bucket %s has no index %q", b.name, name)
	}
	refs, err := ix.refs(db, value)
	if err != nil {
		return nil, err
	}
	var objs []Object
	for _, ref := range refs {
		obj, err := b.Get(db, ref)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

func (b Bucket) index(name string) (index, bool) {
	for _, ix := range b.indexes {
		if ix.name == name {
			return ix, true
		}
	}
	return index{}, false
}

// Register exposes the bucket under "/<name>" and each index under
// "/<name>/<index>". An empty name falls back to the bucket name.
func (b Bucket) Register(name string, r weave.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
	for _, ix := range b.indexes {
		r.Register("/"+name+"/"+ix.name, ix)
	}
}

// Query answers key and prefix queries with raw stored pairs.
func (b Bucket) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	return queryStore(db, mod, b.DBKey(data))
}
