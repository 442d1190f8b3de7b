package orm

import (
	"testing"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/store"
	"github.com/stretchr/testify/require"
)

// count indexes a counter by its encoded value.
func count(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return EncodeSequence(c.Count), nil
}

func TestIndexUpdate(t *testing.T) {
	a, b := []byte("a"), []byte("b")
	at := func(key []byte, n int64) Object { return NewSimpleObj(key, NewCounter(n)) }

	type step struct {
		prev, next Object
		wantErr    *errors.Error
	}
	cases := map[string]struct {
		unique bool
		steps  []step
		// primary keys expected under each counter value afterwards
		want map[int64][][]byte
	}{
		"insert into a shared entry": {
			steps: []step{{nil, at(a, 5), nil}, {nil, at(b, 5), nil}},
			want:  map[int64][][]byte{5: {a, b}},
		},
		"move between entries": {
			steps: []step{{nil, at(a, 5), nil}, {nil, at(b, 5), nil}, {at(a, 5), at(a, 7), nil}},
			want:  map[int64][][]byte{5: {b}, 7: {a}},
		},
		"unchanged value": {
			steps: []step{{nil, at(a, 5), nil}, {at(a, 5), at(a, 5), nil}},
			want:  map[int64][][]byte{5: {a}},
		},
		"remove the last reference": {
			steps: []step{{nil, at(a, 5), nil}, {at(a, 5), nil, nil}},
			want:  map[int64][][]byte{5: nil},
		},
		"remove what was never added": {
			steps: []step{{at(a, 5), nil, errors.ErrNotFound}},
		},
		"insert twice": {
			steps: []step{{nil, at(a, 5), nil}, {nil, at(a, 5), errors.ErrDuplicate}},
		},
		"unique value taken": {
			unique: true,
			steps:  []step{{nil, at(a, 5), nil}, {nil, at(b, 5), errors.ErrDuplicate}},
			want:   map[int64][][]byte{5: {a}},
		},
		"unique move keeps the entry on conflict": {
			unique: true,
			steps:  []step{{nil, at(a, 5), nil}, {nil, at(b, 7), nil}, {at(a, 5), at(a, 7), errors.ErrDuplicate}},
			want:   map[int64][][]byte{5: {a}, 7: {b}},
		},
		"unique entry of another object": {
			unique: true,
			steps:  []step{{nil, at(a, 5), nil}, {at(b, 5), nil, errors.ErrNotFound}},
			want:   map[int64][][]byte{5: {a}},
		},
		"primary key change": {
			steps: []step{{at(a, 5), at(b, 5), errors.ErrImmutable}},
		},
		"no object": {
			steps: []step{{nil, nil, errors.ErrHuman}},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ix := newIndex("cnts", "value", count, tc.unique, nil)
			for i, s := range tc.steps {
				err := ix.update(db, s.prev, s.next)
				if s.wantErr == nil {
					require.NoError(t, err, "step %d", i)
				} else {
					require.True(t, s.wantErr.Is(err), "step %d: unexpected error: %+v", i, err)
				}
			}
			for n, want := range tc.want {
				got, err := ix.refs(db, EncodeSequence(n))
				require.NoError(t, err)
				require.Equal(t, want, got, "value %d", n)
			}
		})
	}
}

func TestIndexQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{})).
		WithIndex("value", count, true)

	for i, key := range []string{"a", "b", "c"} {
		obj := NewSimpleObj([]byte(key), NewCounter(int64(i+1)*10))
		require.Nil(t, b.Save(db, obj))
	}

	qr := weave.NewQueryRouter()
	b.Register("", qr)
	h := qr.Handler("/cnts/value")
	require.NotNil(t, h, "index query handler not registered")

	res, err := h.Query(db, weave.KeyQueryMod, EncodeSequence(20))
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, b.DBKey([]byte("b")), res[0].Key)

	res, err = h.Query(db, weave.KeyQueryMod, EncodeSequence(21))
	require.NoError(t, err)
	require.Empty(t, res)

	// all counters share the seven zero bytes prefix
	res, err = h.Query(db, weave.PrefixQueryMod, make([]byte, 7))
	require.NoError(t, err)
	require.Len(t, res, 3)

	_, err = h.Query(db, "range", nil)
	require.True(t, errors.ErrHuman.Is(err), "unexpected error: %+v", err)
}
