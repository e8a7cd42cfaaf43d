package table

import "errors"

// Sentinel kinds for frame errors.
var (
	ErrShape         = errors.New("frame shape mismatch")
	ErrUnknownColumn = errors.New("unknown column")
)
