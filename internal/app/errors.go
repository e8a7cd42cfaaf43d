package service

import "errors"

// Sentinel kinds for pipeline errors.
var (
	ErrMissingInput = errors.New("run input incomplete")
)
