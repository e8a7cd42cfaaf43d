package ingest

import "errors"

// Sentinel kinds for ingest errors.
var (
	ErrBadInput      = errors.New("malformed input")
	ErrMissingColumn = errors.New("required column missing")
	ErrBadSheet      = errors.New("unreadable sheet")
	ErrBadPoints     = errors.New("unparseable point value")
)
