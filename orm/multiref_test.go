package orm

import (
	"sort"
	"testing"

	"github.com/pensionledger/weave/errors"
	"github.com/stretchr/testify/require"
)

func TestMultiRefAdd(t *testing.T) {
	cases := map[string]struct {
		add        []string
		duplicates int
		want       []string
	}{
		"sorted input": {
			add:  []string{"a", "b", "c"},
			want: []string{"a", "b", "c"},
		},
		"unsorted input": {
			add:  []string{"pensioner-9", "employer-1", "pensioner-10"},
			want: []string{"employer-1", "pensioner-10", "pensioner-9"},
		},
		"duplicates are refused": {
			add:        []string{"x", "y", "x", "x", "y"},
			duplicates: 3,
			want:       []string{"x", "y"},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var m MultiRef
			var dups int
			for _, ref := range tc.add {
				if err := m.Add([]byte(ref)); err != nil {
					require.True(t, errors.ErrDuplicate.Is(err), "unexpected error: %+v", err)
					dups++
				}
			}
			require.Equal(t, tc.duplicates, dups)
			require.Equal(t, tc.want, refStrings(&m))
		})
	}
}

func TestMultiRefRemove(t *testing.T) {
	cases := map[string]struct {
		init    []string
		remove  []string
		missing int
		want    []string
	}{
		"middle": {
			init:   []string{"a", "b", "c"},
			remove: []string{"b"},
			want:   []string{"a", "c"},
		},
		"unknown ref": {
			init:    []string{"a", "b"},
			remove:  []string{"z"},
			missing: 1,
			want:    []string{"a", "b"},
		},
		"twice": {
			init:    []string{"a", "b", "c"},
			remove:  []string{"a", "c", "c"},
			missing: 1,
			want:    []string{"b"},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			m, err := multiRefFromStrings(tc.init...)
			require.NoError(t, err)
			var missing int
			for _, ref := range tc.remove {
				if err := m.Remove([]byte(ref)); err != nil {
					require.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)
					missing++
				}
			}
			require.Equal(t, tc.missing, missing)
			require.Equal(t, tc.want, refStrings(m))
		})
	}
}

func TestMultiRefEncoding(t *testing.T) {
	m, err := multiRefFromStrings("pensioner-2", "pensioner-1")
	require.NoError(t, err)
	raw, err := m.Marshal()
	require.NoError(t, err)

	var got MultiRef
	require.NoError(t, got.Unmarshal(raw))
	require.Equal(t, []string{"pensioner-1", "pensioner-2"}, refStrings(&got))
	require.True(t, errors.ErrEmpty.Is(new(MultiRef).Validate()))
}

func refStrings(m *MultiRef) []string {
	out := make([]string, len(m.Refs))
	for i, r := range m.Refs {
		out[i] = string(r)
	}
	if !sort.StringsAreSorted(out) {
		panic("refs are not sorted")
	}
	return out
}

func multiRefFromStrings(strs ...string) (*MultiRef, error) {
	refs := make([][]byte, len(strs))
	for i, s := range strs {
		refs[i] = []byte(s)
	}
	return NewMultiRef(refs...)
}
