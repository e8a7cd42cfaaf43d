// Package prompt implements the identity resolver's interactive boundary:
// a terminal prompter for operators and a scripted one for tests and
// non-interactive runs.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/tmarren/peerweave/internal/domain/resolve"
)

// Terminal asks the operator for a roster name on the controlling terminal.
type Terminal struct {
	out io.Writer
}

// TerminalOption adjusts the terminal prompter.
type TerminalOption func(*Terminal)

// WithOutput redirects the rejection notice (default stderr).
func WithOutput(w io.Writer) TerminalOption {
	return func(t *Terminal) {
		if w != nil {
			t.out = w
		}
	}
}

// NewTerminal creates a terminal prompter.
func NewTerminal(opts ...TerminalOption) *Terminal {
	t := &Terminal{out: os.Stderr}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Ask shows all identifying context and reads one name. Ctrl-C during the
// prompt surfaces as an error and aborts the run.
func (t *Terminal) Ask(_ context.Context, q resolve.Query) (string, error) {
	if q.Rejected != "" {
		fmt.Fprintf(t.out, "Student not found in gradebook: %s\n", q.Rejected)
	}

	var answer string
	err := survey.AskOne(&survey.Input{Message: message(q)}, &answer)
	if err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", fmt.Errorf("prompt interrupted: %w", err)
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// message renders the prompt the way operators know it: who needs
// identifying, where they sit, and which teammates corroborate it.
func message(q resolve.Query) string {
	var b strings.Builder
	b.WriteString("Who is this student? ")
	if q.Self {
		fmt.Fprintf(&b, "%q, %q", q.LoginID, q.Name)
	} else {
		fmt.Fprintf(&b, "%q", q.Subject)
	}
	fmt.Fprintf(&b, " in Section %s, Team %s", q.Section, q.Team)
	if !q.Self {
		others := append([]string{q.Name}, q.Teammates...)
		fmt.Fprintf(&b, "\nOther team members evaluated by this person: %s", strings.Join(others, ", "))
	}
	b.WriteString("\nEnter their name as listed in Canvas (First Last). " +
		`To skip this student or ignore this result, enter "NA".`)
	return b.String()
}
