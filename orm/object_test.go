package orm

import (
	"testing"

	"github.com/pensionledger/weave/errors"
	"github.com/stretchr/testify/require"
)

func TestSimpleObjValidate(t *testing.T) {
	cases := map[string]struct {
		obj     *SimpleObj
		wantErr *errors.Error
	}{
		"valid": {
			obj: NewSimpleObj([]byte("employer-3"), NewCounter(0)),
		},
		"missing key": {
			obj:     NewSimpleObj(nil, NewCounter(1)),
			wantErr: errors.ErrEmpty,
		},
		"missing value": {
			obj:     NewSimpleObj([]byte("employer-3"), nil),
			wantErr: errors.ErrEmpty,
		},
		"invalid value": {
			obj:     NewSimpleObj([]byte("employer-3"), NewCounter(-4)),
			wantErr: errors.ErrState,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if err := tc.obj.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestSimpleObjCloneIsDeep(t *testing.T) {
	refs, err := multiRefFromStrings("pensioner-1", "pensioner-2")
	require.NoError(t, err)
	orig := NewSimpleObj([]byte("employer-3"), refs)
	dup := orig.Clone()

	require.NoError(t, refs.Remove([]byte("pensioner-1")))
	orig.Key()[0] = 'E'

	require.Equal(t, []byte("employer-3"), dup.Key())
	require.Len(t, dup.Value().(*MultiRef).Refs, 2)
	require.Len(t, orig.Value().(*MultiRef).Refs, 1)

	dup.(*SimpleObj).SetKey(nil)
	require.Nil(t, NewSimpleObj(nil, NewCounter(1)).Clone().Key())
	require.True(t, errors.ErrEmpty.Is(dup.Validate()))
}
