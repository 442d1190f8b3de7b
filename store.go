package weave

import "github.com/pensionledger/weave/errors"

// ReadOnlyKVStore gives read access to state. Handlers receive it for
// checks and queries, and clients get one over RPC.
type ReadOnlyKVStore interface {
	// Get returns nil for a missing key.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// Iterator walks [start, end) in ascending key order. A nil bound is
	// open. The range must not be written to while iterating.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks [start, end) in descending key order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write half shared by stores and batches.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is a readable and writable store.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes and applies them together on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator returns models one at a time. Once the range is exhausted,
// Next returns errors.ErrIteratorDone. Release must always be called.
type Iterator interface {
	Next() (key, value []byte, err error)
	Release()
}

// CacheableKVStore can stage writes in a cache.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap holds staged writes. All reads through it see them. Write
// applies them to the wrapped store and Discard drops them. Every
// transaction runs in one, so a failed transaction leaves no trace.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent root store. Blocks are executed in a
// CacheWrap which is written back before Commit saves a new version.
type CommitKVStore interface {
	// Get reads the last committed version.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap
	Commit() (CommitID, error)
	// LoadLatestVersion loads the last version that was completely
	// written, which is older than the last commit after a crash.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its number and root hash.
type CommitID struct {
	Version int64
	Hash    []byte
}

// Op is a queued write, either a set or a delete.
type Op struct {
	key   []byte
	value []byte
	del   bool
}

// SetOp queues setting key to value.
func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

// DelOp queues removing key.
func DelOp(key []byte) Op {
	return Op{key: key, del: true}
}

// Apply performs the operation on out.
func (o Op) Apply(out SetDeleter) error {
	if o.key == nil {
		return errors.Wrap(errors.ErrDatabase, "operation without a key")
	}
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}
