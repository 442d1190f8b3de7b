package pension

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/store"
	"github.com/pensionledger/weave/weavetest"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	owner := weavetest.NewCondition().Address()
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	genesisTime := weave.AsUnixTime(now)

	conf := fmt.Sprintf(`{
		"pension": {"owner": %q, "ticker": "PEN", "payout_interval": 604800}
	}`, owner)

	cases := map[string]struct {
		opts        string
		wantErr     *errors.Error
		wantCount   int64
		wantIndexed []weave.Address
	}{
		"configuration only": {
			opts:      fmt.Sprintf(`{"conf": %s}`, conf),
			wantCount: 0,
		},
		"pensioners are registered in order": {
			opts: fmt.Sprintf(`{"conf": %s, "pensioners": [
				{"address": %q, "retire_at": %d, "benefit_window": %d},
				{"address": %q, "retire_at": %d, "benefit_window": %d}
			]}`, conf,
				alice, genesisTime+60, genesisTime+3600,
				bob, genesisTime+120, genesisTime+3600),
			wantCount:   2,
			wantIndexed: []weave.Address{alice, bob},
		},
		"retirement time must be after genesis": {
			opts: fmt.Sprintf(`{"conf": %s, "pensioners": [
				{"address": %q, "retire_at": %d}
			]}`, conf, alice, genesisTime),
			wantErr: ErrInvalidRetirementTime,
		},
		"duplicate registration": {
			opts: fmt.Sprintf(`{"conf": %s, "pensioners": [
				{"address": %q, "retire_at": %d},
				{"address": %q, "retire_at": %d}
			]}`, conf, alice, genesisTime+60, alice, genesisTime+120),
			wantErr: ErrDuplicateRegistration,
		},
		"missing configuration": {
			opts:    `{}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			opts:    `{"conf": {"pension": {"ticker": "PEN"}}}`,
			wantErr: errors.ErrInput,
		},
		"pensioners must be a list": {
			opts:    fmt.Sprintf(`{"conf": %s, "pensioners": {}}`, conf),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts weave.Options
			require.NoError(t, json.Unmarshal([]byte(tc.opts), &opts))

			db := store.MemStore()
			params := weave.GenesisParams{Time: genesisTime}
			err := Initializer{}.FromGenesis(opts, params, db)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}

			c, err := LoadConfiguration(db)
			require.NoError(t, err)
			require.Equal(t, owner, c.Owner)
			require.Equal(t, weave.AsUnixDuration(7*24*time.Hour), c.PayoutInterval)

			l, err := LoadLedger(db, NewLedgerBucket(), "PEN")
			require.NoError(t, err)
			require.Equal(t, tc.wantCount, l.Count)
			require.True(t, l.Balance.IsZero())

			for i, want := range tc.wantIndexed {
				p, err := PensionerAt(db, NewPensionerBucket(), int64(i))
				require.NoError(t, err)
				require.Equal(t, want, p.Address)
				require.True(t, p.FundedBalance.IsZero())
			}
		})
	}
}
