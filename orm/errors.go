package orm

import "github.com/pensionledger/weave/errors"

// Codes 100 to 109 belong to this package.
var ErrInvalidIndex = errors.Register(100, "invalid index")
