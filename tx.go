package weave

import (
	"reflect"

	"github.com/pensionledger/weave/errors"
)

// Marshaller has a binary representation.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can be written to and read back from bytes. Models and
// messages implement it with protobuf.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a single requested state change, such as registering a
// pensioner or funding a pension. Who requested it is carried by the
// surrounding Tx.
type Msg interface {
	Persistent
	// Path routes the message to its handler, for example
	// "pension/create".
	Path() string
	// Validate checks everything that can be checked without reading
	// state.
	Validate() error
}

// Tx is what clients submit: exactly one message plus whatever the
// decorators need, like signatures.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// TxDecoder reads a Tx from the bytes sent by tendermint.
type TxDecoder func(raw []byte) (Tx, error)

// GetPath returns the path of the transaction message, or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

var msgInterface = reflect.TypeOf((*Msg)(nil)).Elem()

// ExtractMsgFromFields returns the single message set on a transaction
// struct. Every pointer field implementing Msg is a message slot and
// exactly one of them must be set.
func ExtractMsgFromFields(tx interface{}) (Msg, error) {
	v := reflect.ValueOf(tx)
	if !v.IsValid() {
		return nil, errors.Wrap(errors.ErrInput, "message container is <nil>")
	}
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", tx)
	}
	v = v.Elem()

	var (
		msg   Msg
		slots int
	)
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Ptr || !f.Type().Implements(msgInterface) {
			continue
		}
		slots++
		if f.IsNil() {
			continue
		}
		if msg != nil {
			return nil, errors.Wrap(errors.ErrInput, "more than one message set")
		}
		msg = f.Interface().(Msg)
	}
	switch {
	case slots == 0:
		return nil, errors.Wrapf(errors.ErrType, "%T has no message fields", tx)
	case msg == nil:
		return nil, errors.Wrap(errors.ErrState, "message is <nil>")
	}
	return msg, nil
}

// LoadMsg validates the message of tx and copies it into dst, which
// must be a pointer to the expected message type. Handlers use it so
// that they do not depend on the application Tx type.
func LoadMsg(tx Tx, dst interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrState, "nil message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	out := reflect.ValueOf(dst)
	switch {
	case out.Kind() != reflect.Ptr:
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	case out.IsNil():
		return errors.Wrap(errors.ErrType, "destination is nil")
	case out.Type() != reflect.TypeOf(msg):
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", dst, msg)
	}
	out.Elem().Set(reflect.ValueOf(msg).Elem())
	return nil
}
