package prompt

import "errors"

// ErrExhausted means a scripted prompter ran out of canned answers.
var ErrExhausted = errors.New("scripted prompter exhausted")
