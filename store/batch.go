package store

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
)

// SliceIterator walks over models loaded into memory up front.
type SliceIterator struct {
	models []weave.Model
	pos    int
}

var _ weave.Iterator = (*SliceIterator)(nil)

// NewSliceIterator iterates over models in the order given.
func NewSliceIterator(models []weave.Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (s *SliceIterator) Next() (key, value []byte, err error) {
	if s.pos == len(s.models) {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "slice")
	}
	m := s.models[s.pos]
	s.pos++
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.models, s.pos = nil, 0
}

// NonAtomicBatch queues operations and replays them one by one on Write.
// It is only safe on top of in-memory stores, because a failure in the
// middle of Write leaves the target partially updated.
type NonAtomicBatch struct {
	target weave.SetDeleter
	ops    []weave.Op
}

var _ weave.Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns an empty batch writing into target.
func NewNonAtomicBatch(target weave.SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{target: target}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, weave.SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, weave.DelOp(key))
	return nil
}

// Write applies the queued operations in order and clears the queue.
func (b *NonAtomicBatch) Write() error {
	ops := b.ops
	b.ops = nil
	for _, op := range ops {
		if err := op.Apply(b.target); err != nil {
			return err
		}
	}
	return nil
}

// emptyStore holds nothing and ignores all writes. It is the bottom
// layer of MemStore.
type emptyStore struct{}

func (emptyStore) Get([]byte) ([]byte, error) { return nil, nil }
func (emptyStore) Has([]byte) (bool, error) { return false, nil }
func (emptyStore) Set([]byte, []byte) error { return nil }
func (emptyStore) Delete([]byte) error { return nil }
func (e emptyStore) NewBatch() weave.Batch { return NewNonAtomicBatch(e) }
func (emptyStore) Iterator([]byte, []byte) (weave.Iterator, error) {
	return NewSliceIterator(nil), nil
}
func (emptyStore) ReverseIterator([]byte, []byte) (weave.Iterator, error) {
	return NewSliceIterator(nil), nil
}
