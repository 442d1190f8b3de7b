package errors

import (
	"fmt"
	"strings"
)

const (
	// SuccessABCICode is the code of a response without an error.
	SuccessABCICode = 0

	// Errors that carry no code of their own are internal. Their message
	// is hidden outside of debug mode.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log a response carries for err. The log
// holds the message only, never a stack trace, so that ABCIError can map
// it back on the client.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	if code == internalABCICode && !debug {
		return internalABCICode, internalABCILog
	}
	return code, err.Error()
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the outermost coder in err.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	code := internalABCICode
	visit(err, func(x error) bool {
		c, ok := x.(coder)
		if ok {
			code = c.ABCICode()
		}
		return !ok
	})
	return code
}

// ABCIError turns the code and log of a response back into an error. A
// registered code gives the registered root, so that ErrNotFound.Is works
// on errors received from a node. It is meant for clients only.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	if e, ok := registered[code]; ok {
		return Wrap(e, strings.TrimSuffix(log, ": "+e.desc))
	}
	return Wrap(&unknownError{code: code, desc: log}, "unknown error")
}

// unknownError is a code this build never registered.
type unknownError struct {
	code uint32
	desc string
}

func (e *unknownError) Error() string {
	return fmt.Sprintf("code %d: %s", e.code, e.desc)
}

func (e *unknownError) ABCICode() uint32 {
	return e.code
}
