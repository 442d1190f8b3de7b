package errors

import (
	"fmt"
	"strings"
)

// Append groups errs into one error, dropping nils and flattening groups.
// It returns nil for no errors and the error itself for a single one.
func Append(errs ...error) error {
	var group multiErr
	for _, err := range errs {
		switch e := err.(type) {
		case unpacker:
			group = append(group, e.Unpack()...)
		default:
			if !isNilErr(err) {
				group = append(group, err)
			}
		}
	}
	switch len(group) {
	case 0:
		return nil
	case 1:
		return group[0]
	}
	return group
}

// multiErr never holds nil errors.
type multiErr []error

func (errs multiErr) Error() string {
	lines := make([]string, 0, len(errs)+1)
	lines = append(lines, fmt.Sprintf("%d errors occurred:", len(errs)))
	for _, e := range errs {
		lines = append(lines, "* "+e.Error())
	}
	return strings.Join(lines, "\n\t")
}

// ABCICode is the code of the first error, as if the group failed fast.
func (errs multiErr) ABCICode() uint32 {
	if len(errs) == 0 {
		return SuccessABCICode
	}
	return abciCode(errs[0])
}

func (errs multiErr) Unpack() []error {
	return errs
}
