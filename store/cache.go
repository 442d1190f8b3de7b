package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/pensionledger/weave"
)

// btreeDegree is the branching factor of the cache trees. Caches only
// live for a single transaction or block, so they stay small.
const btreeDegree = 2

// BTreeCacheable gives any KVStore the ability to stage writes in an
// in-memory cache that can later be written or thrown away.
type BTreeCacheable struct {
	weave.KVStore
}

var _ weave.CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache that flushes into the wrapped store.
func (b BTreeCacheable) CacheWrap() weave.KVCacheWrap {
	return newCache(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns a store without any persistence, backed by nothing
// but its own cache. Used in tests and for dry runs.
func MemStore() weave.CacheableKVStore {
	var nothing emptyStore
	return newCache(nothing, nothing.NewBatch(), nil)
}

// entry is a cached write. A deleted entry hides the value of the
// parent store under the same key.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e *entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(*entry).key) < 0
}

// cache keeps all writes in a btree so that reads see them at once,
// and queues the same writes in a batch for the parent store.
type cache struct {
	tree    *btree.BTree
	free    *btree.FreeList
	parent  weave.ReadOnlyKVStore
	pending weave.Batch
}

var _ weave.KVCacheWrap = (*cache)(nil)

// newCache creates a cache on top of parent. All writes reach the
// parent only through pending. Nested caches share one free list.
func newCache(parent weave.ReadOnlyKVStore, pending weave.Batch, free *btree.FreeList) *cache {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return &cache{
		tree:    btree.NewWithFreeList(btreeDegree, free),
		free:    free,
		parent:  parent,
		pending: pending,
	}
}

func (c *cache) CacheWrap() weave.KVCacheWrap {
	return newCache(c, c.NewBatch(), c.free)
}

func (c *cache) NewBatch() weave.Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes all cached writes into the parent and empties the cache.
func (c *cache) Write() error {
	err := c.pending.Write()
	c.Discard()
	return err
}

// Discard drops all cached writes, returning the tree nodes to the free list.
func (c *cache) Discard() {
	for c.tree.DeleteMin() != nil {
	}
}

func (c *cache) Set(key, value []byte) error {
	c.tree.ReplaceOrInsert(&entry{key: key, value: value})
	return c.pending.Set(key, value)
}

func (c *cache) Delete(key []byte) error {
	c.tree.ReplaceOrInsert(&entry{key: key, deleted: true})
	return c.pending.Delete(key)
}

// lookup returns the cached entry for key, or nil when the key was not
// written through this cache.
func (c *cache) lookup(key []byte) *entry {
	if item := c.tree.Get(&entry{key: key}); item != nil {
		return item.(*entry)
	}
	return nil
}

func (c *cache) Get(key []byte) ([]byte, error) {
	if e := c.lookup(key); e != nil {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return c.parent.Get(key)
}

func (c *cache) Has(key []byte) (bool, error) {
	if e := c.lookup(key); e != nil {
		return !e.deleted, nil
	}
	return c.parent.Has(key)
}

func (c *cache) Iterator(start, end []byte) (weave.Iterator, error) {
	under, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return c.merge(ascending(c.tree, start, end), under, false)
}

func (c *cache) ReverseIterator(start, end []byte) (weave.Iterator, error) {
	under, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return c.merge(descending(c.tree, start, end), under, true)
}

func (c *cache) merge(own []*entry, under weave.Iterator, reverse bool) (weave.Iterator, error) {
	it, err := newMergeIterator(own, under, reverse)
	if err != nil {
		return nil, err
	}
	return it, nil
}
