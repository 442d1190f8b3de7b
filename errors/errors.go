package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Codes of the errors below travel in ABCI responses, so clients can map
// them back. They must never change.
var (
	ErrUnauthorized       = Register(2, "unauthorized")
	ErrNotFound           = Register(3, "not found")
	ErrMsg                = Register(4, "invalid message")
	ErrDuplicate          = Register(6, "duplicate")
	ErrHuman              = Register(7, "coding error")
	ErrImmutable          = Register(8, "cannot be modified")
	ErrEmpty              = Register(9, "value is empty")
	ErrState              = Register(10, "invalid state")
	ErrType               = Register(11, "invalid type")
	ErrAmount             = Register(13, "invalid amount")
	ErrInput              = Register(14, "invalid input")
	ErrExpired            = Register(15, "expired")
	ErrOverflow           = Register(16, "an operation cannot be completed due to value overflow")
	ErrCurrency           = Register(17, "currency")
	ErrInsufficientAmount = Register(19, "insufficient amount")
	ErrDatabase           = Register(21, "database")
	ErrNetwork            = Register(22, "network")
	ErrIteratorDone       = Register(24, "iterator done")

	// ErrPanic is the result of a recovered panic. Its message is never
	// shown outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

var registered = map[uint32]*Error{}

// Register declares a root error. Every code can be registered once, a
// second registration panics, so call it from package variables only.
// Code 1 is reserved for errors that were never registered.
func Register(code uint32, desc string) *Error {
	if code == internalABCICode {
		panic(fmt.Sprintf("code %d is reserved for unregistered errors", code))
	}
	if prev, ok := registered[code]; ok {
		panic(fmt.Sprintf("code %d already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: desc}
	registered[code] = e
	return e
}

// Error is a registered root error. Failures wrap one of them, which is
// how callers and remote clients tell them apart.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string { return e.desc }

func (e Error) ABCICode() uint32 { return e.code }

// Is reports whether err is e or wraps it, also inside of a group made
// by Append. A nil e matches only nil errors.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	found := false
	visit(err, func(x error) bool {
		if x == error(e) {
			found = true
		}
		return !found
	})
	return found
}

// isNilErr also treats typed nil pointers as nil.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Wrap prefixes the message of err with desc. The first Wrap of an error
// records the stack trace. Wrapping nil returns nil, so the result of a
// call can be wrapped unconditionally.
func Wrap(err error, desc string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: desc}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string { return e.msg + ": " + e.parent.Error() }

func (e *wrappedError) Cause() error { return e.parent }

// Recover turns a panic into an ErrPanic assigned to *err. It must be
// deferred directly.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

type unpacker interface {
	Unpack() []error
}

// visit calls fn with err and then with everything err wraps, depth
// first, as long as fn returns true.
func visit(err error, fn func(error) bool) {
	for err != nil {
		if !fn(err) {
			return
		}
		if g, ok := err.(unpacker); ok {
			for _, member := range g.Unpack() {
				visit(member, fn)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}
