package iavl

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const (
	// DefaultCacheSize is the number of tree nodes kept in memory.
	DefaultCacheSize = 10000
	// DefaultHistorySize is how many committed versions are kept around
	// before they are pruned.
	DefaultHistorySize = 20
)

// CommitStore keeps the ledger state in a versioned merkle tree. Every
// Commit saves the working tree as a new version.
type CommitStore struct {
	tree *iavl.MutableTree
	db   dbm.DB
	// keep is the number of versions retained on disk.
	keep int64
}

var _ weave.CommitKVStore = CommitStore{}

// NewCommitStore opens a goleveldb backed tree named name inside dir.
// Only one CommitStore can hold the database at a time, call Close
// before opening it again.
func NewCommitStore(dir, name string) CommitStore {
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	return newCommitStore(db)
}

// MockCommitStore returns a store that keeps everything in memory.
func MockCommitStore() CommitStore {
	return newCommitStore(dbm.NewMemDB())
}

func newCommitStore(db dbm.DB) CommitStore {
	return CommitStore{
		tree: iavl.NewMutableTree(db, DefaultCacheSize),
		db:   db,
		keep: DefaultHistorySize,
	}
}

// Close releases the underlying database.
func (s CommitStore) Close() {
	s.db.Close()
}

// Get reads from the last saved version, ignoring uncommitted writes.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit saves the working tree as the next version and prunes the
// version that fell out of the retained history.
func (s CommitStore) Commit() (weave.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return weave.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if old := version - s.keep; old > 0 && s.tree.VersionExists(old) {
		if err := s.tree.DeleteVersion(old); err != nil {
			return weave.CommitID{}, errors.Wrapf(errors.ErrDatabase, "prune version %d: %s", old, err)
		}
	}
	return weave.CommitID{Version: version, Hash: hash}, nil
}

// LoadLatestVersion loads the most recent version found on disk.
func (s CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return errors.Wrap(err, "load iavl tree")
}

// LatestVersion describes the most recently saved version.
func (s CommitStore) LatestVersion() (weave.CommitID, error) {
	return weave.CommitID{Version: s.tree.Version(), Hash: s.tree.Hash()}, nil
}

// CacheWrap returns a cache over the working tree. Writing the cache
// changes the working tree, which is persisted by the next Commit.
func (s CommitStore) CacheWrap() weave.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter exposes the working tree as a store. Writes cannot be rolled
// back other than by reloading the last version from disk.
func (s CommitStore) Adapter() weave.CacheableKVStore {
	return store.BTreeCacheable{KVStore: workingTree{s.tree}}
}

// workingTree is the mutable head of the iavl tree seen as a KVStore.
type workingTree struct {
	tree *iavl.MutableTree
}

var _ weave.KVStore = workingTree{}

func (w workingTree) Get(key []byte) ([]byte, error) {
	_, val := w.tree.Get(key)
	return val, nil
}

func (w workingTree) Has(key []byte) (bool, error) {
	return w.tree.Has(key), nil
}

func (w workingTree) Set(key, value []byte) error {
	w.tree.Set(key, value)
	return nil
}

func (w workingTree) Delete(key []byte) error {
	w.tree.Remove(key)
	return nil
}

func (w workingTree) NewBatch() weave.Batch {
	return store.NewNonAtomicBatch(w)
}

func (w workingTree) Iterator(start, end []byte) (weave.Iterator, error) {
	return w.snapshot(start, end, true), nil
}

func (w workingTree) ReverseIterator(start, end []byte) (weave.Iterator, error) {
	return w.snapshot(start, end, false), nil
}

// snapshot copies the range into memory so that callers may write to
// the tree while still iterating.
func (w workingTree) snapshot(start, end []byte, ascending bool) weave.Iterator {
	var models []weave.Model
	w.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		models = append(models, weave.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(models)
}
