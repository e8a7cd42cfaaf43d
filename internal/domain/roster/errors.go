package roster

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrBadRecord      = errors.New("invalid roster record")
	ErrDuplicateLogin = errors.New("duplicate login id")
)
