package lexicon

import "errors"

// ErrUnknownLabel marks a rating label with no point mapping. Callers treat
// it as fatal to the run: the point map is presumed misconfigured.
var ErrUnknownLabel = errors.New("rating label not in lexicon")
