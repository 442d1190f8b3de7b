package orm

import (
	"reflect"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
)

// ModelSlicePtr is a pointer to a slice of models, such as *[]*Pensioner.
// The element type is checked when the slice is filled.
type ModelSlicePtr interface{}

// ModelBucket stores models of one type and loads them straight into
// caller provided values.
type ModelBucket interface {
	// One loads the model stored under key into dest. It fails with
	// ErrNotFound for a missing key and ErrType when dest is of another
	// type.
	One(db weave.ReadOnlyKVStore, key []byte, dest Model) error

	// ByIndex appends every model the named index holds under key to dest
	// and returns their primary keys.
	ByIndex(db weave.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) (keys [][]byte, err error)

	// All appends every stored model to dest in primary key order.
	All(db weave.ReadOnlyKVStore, dest ModelSlicePtr) (keys [][]byte, err error)

	// Put validates and saves m. An empty key is replaced by the next
	// value of the "id" sequence. The key used is returned.
	Put(db weave.KVStore, key []byte, m Model) ([]byte, error)

	// Delete fails with ErrNotFound when nothing is stored under key.
	Delete(db weave.KVStore, key []byte) error

	// Has returns nil when key is in use and ErrNotFound otherwise,
	// without decoding the value.
	Has(db weave.KVStore, key []byte) error

	Register(name string, r weave.QueryRouter)
}

// ModelBucketOption configures a bucket built by NewModelBucket.
type ModelBucketOption func(*modelBucket)

// WithIndex adds a secondary index, see Bucket.WithIndex.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.b = mb.b.WithIndex(name, indexer, unique)
	}
}

type modelBucket struct {
	b   Bucket
	ids Sequence
	// kind is the struct type behind the stored model pointers.
	kind reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

// NewModelBucket returns a bucket for models of the same type as m.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	b := NewBucket(name, NewSimpleObj(nil, m))
	mb := &modelBucket{
		b:    b,
		ids:  b.Sequence("id"),
		kind: reflect.TypeOf(m).Elem(),
	}
	for _, opt := range opts {
		opt(mb)
	}
	return mb
}

func (mb *modelBucket) Register(name string, r weave.QueryRouter) {
	mb.b.Register(name, r)
}

func (mb *modelBucket) One(db weave.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.kind.Name(), key)
	}
	src := reflect.ValueOf(obj.Value())
	dst := reflect.ValueOf(dest)
	if src.Type() != dst.Type() {
		return errors.Wrapf(errors.ErrType, "cannot load %s into %T", src.Type(), dest)
	}
	dst.Elem().Set(src.Elem())
	return nil
}

func (mb *modelBucket) ByIndex(db weave.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error) {
	objs, err := mb.b.GetIndexed(db, indexName, key)
	if err != nil {
		return nil, err
	}
	return fill(dest, objs)
}

func (mb *modelBucket) All(db weave.ReadOnlyKVStore, dest ModelSlicePtr) ([][]byte, error) {
	prefix := mb.b.DBKey(nil)
	pairs, err := queryStore(db, weave.PrefixQueryMod, prefix)
	if err != nil {
		return nil, err
	}
	objs := make([]Object, len(pairs))
	for i, p := range pairs {
		if objs[i], err = mb.b.decode(p.Key[len(prefix):], p.Value); err != nil {
			return nil, err
		}
	}
	return fill(dest, objs)
}

// fill appends the object values to the slice dest points to.
func fill(dest ModelSlicePtr, objs []Object) ([][]byte, error) {
	if len(objs) == 0 {
		return nil, nil
	}
	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() || ptr.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "want a pointer to a slice, got %T", dest)
	}
	slice := ptr.Elem()
	elem := slice.Type().Elem()

	keys := make([][]byte, len(objs))
	for i, obj := range objs {
		v := reflect.ValueOf(obj.Value())
		if !v.Type().AssignableTo(elem) {
			return nil, errors.Wrapf(errors.ErrType, "cannot append %s to []%s", v.Type(), elem)
		}
		slice = reflect.Append(slice, v)
		keys[i] = obj.Key()
	}
	ptr.Elem().Set(slice)
	return keys, nil
}

func (mb *modelBucket) Put(db weave.KVStore, key []byte, m Model) ([]byte, error) {
	if t := reflect.TypeOf(m); t == nil || t.Kind() != reflect.Ptr || t.Elem() != mb.kind {
		return nil, errors.Wrapf(errors.ErrType, "bucket %s cannot store %T", mb.b.Name(), m)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}
	if len(key) == 0 {
		next, err := mb.ids.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "next id")
		}
		key = next
	}
	if err := mb.b.Save(db, NewSimpleObj(key, m)); err != nil {
		return nil, errors.Wrap(err, "save")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db weave.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) Has(db weave.KVStore, key []byte) error {
	ok, err := db.Has(mb.b.DBKey(key))
	switch {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.kind.Name(), key)
	}
	return nil
}
