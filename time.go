package weave

import (
	"encoding/json"
	"time"

	"github.com/pensionledger/weave/errors"
)

// UnixTime is a point in time with second precision, stored as seconds
// since the epoch. Retirement times, benefit windows and snapshot times
// all use it, so that they compare directly with the block time.
type UnixTime int64

// AsUnixTime drops the sub-second part of t.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add moves t by d, ignoring anything below a second.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// UnmarshalJSON accepts a number of seconds as well as an RFC 3339 string,
// which is easier to write in a genesis file. Times before the epoch are
// rejected.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var secs int64
	if err := json.Unmarshal(raw, &secs); err != nil {
		var std time.Time
		if err := json.Unmarshal(raw, &std); err != nil {
			return errors.Wrap(errors.ErrInput, "invalid time format")
		}
		secs = std.Unix()
	}
	if secs < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = UnixTime(secs)
	return nil
}

// UnixDuration is a length of time in whole seconds, such as the payout
// interval.
type UnixDuration int64

// AsUnixDuration truncates d to whole seconds.
func AsUnixDuration(d time.Duration) UnixDuration {
	return UnixDuration(d / time.Second)
}

func (d UnixDuration) Duration() time.Duration {
	return time.Duration(d) * time.Second
}

// BlockUnixTime returns the time of the block being executed. Every
// decision about retirement is taken against this clock and never
// against the local one.
func BlockUnixTime(ctx Context) (UnixTime, error) {
	now, ok := BlockTime(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "block time not present in context")
	}
	return AsUnixTime(now), nil
}
