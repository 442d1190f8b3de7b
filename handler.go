package weave

import (
	"bytes"
	"encoding/json"

	"github.com/pensionledger/weave/errors"
)

// Handler is a core engine that can process a few specific messages
// This could represent "coin transfer", or "fund a pension"
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication, or fee-handling, to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	// Handle assigns given handler to handle processing of every message
	// of provided type.
	// Using a message path is a legacy way that should be avoided.
	Handle(path string, h Handler)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read %q options: %s", key, err)
	}
	return nil
}

// Stream expects an array of json elements and allows to process them
// sequentially. The returned function should be called with a pointer to
// a structure to parse the json into and returns an errors.ErrEmpty when the
// end of the array was reached. Every following call returns errors.ErrState.
// This allows to load big genesis sections without decoding all of them at
// once.
func (o Options) Stream(key string) (func(obj interface{}) error, error) {
	data, ok := o[key]
	if !ok {
		return nil, errors.Wrapf(errors.ErrEmpty, "no %q key in options", key)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var started, done bool

	return func(obj interface{}) error {
		if done {
			return errors.Wrapf(errors.ErrState, "%q stream is closed", key)
		}
		if !started {
			started = true
			tok, err := dec.Token()
			if err != nil {
				done = true
				return errors.Wrapf(errors.ErrInput, "cannot read %q: %s", key, err)
			}
			if delim, ok := tok.(json.Delim); !ok || delim != '[' {
				done = true
				return errors.Wrapf(errors.ErrInput, "%q must be an array", key)
			}
		}
		if !dec.More() {
			done = true
			return errors.Wrapf(errors.ErrEmpty, "end of %q", key)
		}
		if err := dec.Decode(obj); err != nil {
			done = true
			return errors.Wrapf(errors.ErrInput, "cannot decode %q element: %s", key, err)
		}
		return nil
	}, nil
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(opts Options, params GenesisParams, kv KVStore) error
}

// GenesisParams represents parameters set in genesis that could be useful
// for some of the extensions.
type GenesisParams struct {
	// Time of the genesis block. Used as "now" for data validated during
	// initialization.
	Time UnixTime
}
