package pension

import "github.com/pensionledger/weave/errors"

// pension takes 1100-1110
var (
	// ErrDuplicateRegistration is returned when an address that already
	// owns a pension record attempts to register again.
	ErrDuplicateRegistration = errors.Register(1100, "duplicate registration")

	// ErrInvalidRetirementTime is returned when a new registration declares
	// a retirement time that is not in the future.
	ErrInvalidRetirementTime = errors.Register(1101, "invalid retirement time")

	// ErrRecordNotFound is returned when an operation requires a pension
	// record that does not exist.
	ErrRecordNotFound = errors.Register(1102, "pension record not found")

	// ErrAlreadyRetired is returned when a retired record is modified.
	ErrAlreadyRetired = errors.Register(1103, "already retired")

	// ErrIndexOutOfRange is returned when a pensioner list position has no
	// registration.
	ErrIndexOutOfRange = errors.Register(1104, "index out of range")
)
