package schema

import "errors"

// Sentinel kinds for schema lookups. Callers use errors.Is to distinguish a
// malformed schema (fatal to the run) from a missing per-role column (fatal
// only to the response being processed).
var (
	ErrColumnNotFound  = errors.New("schema column not found")
	ErrColumnAmbiguous = errors.New("schema column ambiguous")
	ErrShapeMismatch   = errors.New("schema shape mismatch")
)
