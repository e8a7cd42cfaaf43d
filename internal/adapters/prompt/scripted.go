package prompt

import (
	"context"
	"fmt"

	"github.com/tmarren/peerweave/internal/domain/resolve"
)

// Scripted replays canned answers in order, for deterministic tests.
type Scripted struct {
	answers []string
	next    int

	// Queries keeps every query asked, in order, for assertions.
	Queries []resolve.Query
}

// NewScripted creates a prompter that answers with the given strings.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Ask returns the next canned answer, or ErrExhausted when none remain.
func (s *Scripted) Ask(_ context.Context, q resolve.Query) (string, error) {
	s.Queries = append(s.Queries, q)
	if s.next >= len(s.answers) {
		return "", fmt.Errorf("%w: %d answers consumed", ErrExhausted, len(s.answers))
	}
	answer := s.answers[s.next]
	s.next++
	return answer, nil
}

// SkipAll answers every query with the skip token. It backs non-interactive
// runs, where unresolved responses are dropped rather than prompted for.
type SkipAll struct{}

// Ask always skips.
func (SkipAll) Ask(context.Context, resolve.Query) (string, error) {
	return "NA", nil
}
