package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches err to the named field of a message or model. Nested
// fields use dots, list elements their index, as in "Coins.0.Ticker".
// A nil err gives nil.
func Field(name string, err error, desc string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		desc = fmt.Sprintf(desc, args...)
	}
	return &fieldError{field: name, desc: desc, parent: err}
}

// AppendField adds a field error to errs, see Append.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldError struct {
	field  string
	desc   string
	parent error
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error { return e.parent }

func (e *fieldError) Field() string { return e.field }

// FieldErrors returns the outermost errors attached to the named field
// found anywhere in err.
func FieldErrors(err error, name string) []error {
	var found []error
	visit(err, func(x error) bool {
		if f, ok := x.(interface{ Field() string }); ok && f.Field() == name {
			found = append(found, x)
			return false
		}
		return true
	})
	return found
}
