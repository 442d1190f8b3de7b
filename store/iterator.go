package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
)

// ascending returns all entries in [start, end) in ascending order. A nil
// boundary is unlimited.
//
// Items are copied out of the tree so that the returned slice stays valid
// when the tree is modified while the iterator is consumed.
func ascending(bt *btree.BTree, start, end []byte) []*entry {
	var res []*entry
	collect := func(item btree.Item) bool {
		res = append(res, item.(*entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(&entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(&entry{key: start}, collect)
	default:
		bt.AscendRange(&entry{key: start}, &entry{key: end}, collect)
	}
	return res
}

// descending returns all entries in [start, end) in descending order. A nil
// boundary is unlimited.
func descending(bt *btree.BTree, start, end []byte) []*entry {
	var res []*entry
	collect := func(item btree.Item) bool {
		k := item.(*entry).key
		if end != nil && bytes.Compare(k, end) >= 0 {
			// end is exclusive, skip until we are below it
			return true
		}
		if start != nil && bytes.Compare(k, start) < 0 {
			return false
		}
		res = append(res, item.(*entry))
		return true
	}
	if end == nil {
		bt.Descend(collect)
	} else {
		bt.DescendLessOrEqual(&entry{key: end}, collect)
	}
	return res
}

// mergeIterator merges the content of a cache wrap with the iterator of the
// store it wraps. Cache entries take precedence and deleted entries hide
// the parent values.
type mergeIterator struct {
	items   []*entry
	idx     int
	reverse bool

	parent     weave.Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool
}

var _ weave.Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []*entry, parent weave.Iterator, reverse bool) (*mergeIterator, error) {
	it := &mergeIterator{
		items:   items,
		reverse: reverse,
		parent:  parent,
	}
	if err := it.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

func (i *mergeIterator) advanceParent() error {
	if i.parentDone {
		return nil
	}
	k, v, err := i.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			i.parentDone = true
			i.parentKey, i.parentVal = nil, nil
			return nil
		}
		return err
	}
	i.parentKey, i.parentVal = k, v
	return nil
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// firstKey selects the iterator with the lowest key is any (or the
// highest when iterating in reverse).
func (i *mergeIterator) firstKey() source {
	hasOwn := i.idx < len(i.items)
	switch {
	case !hasOwn && i.parentDone:
		return none
	case !hasOwn:
		return parent
	case i.parentDone:
		return us
	}

	cmp := bytes.Compare(i.parentKey, i.items[i.idx].key)
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// Next returns the next key/value pair, skipping all entries deleted in the
// cache. errors.ErrIteratorDone is returned once all data was read.
func (i *mergeIterator) Next() (key, value []byte, err error) {
	for {
		switch src := i.firstKey(); src {
		case none:
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
		case parent:
			key, value = i.parentKey, i.parentVal
			if err := i.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		case us, both:
			item := i.items[i.idx]
			i.idx++
			if src == both {
				// our value overwrites the parent
				if err := i.advanceParent(); err != nil {
					return nil, nil, err
				}
			}
			if item.deleted {
				continue
			}
			return item.key, item.value, nil
		}
	}
}

// Release releases the Iterator.
func (i *mergeIterator) Release() {
	i.items = nil
	i.parent.Release()
}
