// Package resolve matches one ambiguously-identified survey response to
// exactly one roster record.
//
// Strategies run in strict order, each only when the previous one fails:
// login id derived from the email, exact display name, normalized display
// name, then an interactive fallback through the Prompter. A strategy that
// matches more than one record is a failure, never an arbitrary pick.
package resolve

import (
	"context"
	"fmt"

	"github.com/tmarren/peerweave/internal/domain/roster"
	"github.com/tmarren/peerweave/internal/domain/table"
)

// Info carries the identifying fragments extracted from one response.
// Teammates are the other people this respondent claims to have evaluated;
// they are shown to the operator as corroborating context, never matched on.
type Info struct {
	Email     string
	Name      string
	Section   string
	Team      string
	Subject   string // stated name of the person being identified
	Teammates []string
	Self      bool // true when identifying the respondent themself
}

// Query is what the Prompter presents to a human operator.
type Query struct {
	Info
	LoginID  string // derived from Email when present
	Rejected string // previous answer that was not in the roster, if any
}

// Prompter requests a display name from an external mechanism. It returns
// the entered string verbatim; validation is the resolver's job. The
// implementation may be a terminal, a GUI, or a scripted test double.
type Prompter interface {
	Ask(ctx context.Context, q Query) (string, error)
}

// Resolution is the tagged outcome of a resolve: a matched login id or an
// intentional skip. There is no third state; every response is classified.
type Resolution struct {
	login   string
	skipped bool
}

// Matched tags a successful resolution.
func Matched(login string) Resolution { return Resolution{login: login} }

// Skipped tags an intentional skip.
func Skipped() Resolution { return Resolution{skipped: true} }

// Login returns the matched login id and whether one is present.
func (r Resolution) Login() (string, bool) { return r.login, !r.skipped }

// IsSkipped reports whether the response was intentionally skipped.
func (r Resolution) IsSkipped() bool { return r.skipped }

// Resolver runs the matching strategies against a roster.
type Resolver struct {
	prompter Prompter
	missing  table.MissingSet
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithPrompter sets the interactive fallback. Without one, unresolved
// responses are skipped instead of prompting.
func WithPrompter(p Prompter) Option {
	return func(r *Resolver) { r.prompter = p }
}

// WithMissingSet overrides the tokens accepted as the skip answer.
func WithMissingSet(m table.MissingSet) Option {
	return func(r *Resolver) {
		if m != nil {
			r.missing = m
		}
	}
}

// NewResolver creates a resolver with options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{missing: table.DefaultMissingSet()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the unique roster record for info. Automatic strategies are
// deterministic; only the fallback consults the Prompter. The error return
// is reserved for prompter failures.
func (r *Resolver) Resolve(ctx context.Context, info Info, ros *roster.Roster) (Resolution, error) {
	// 1. Login id from email, exact and final when it hits. The email always
	// belongs to the respondent, so it only identifies the respondent; when a
	// Subject is named we are identifying someone else and skip this.
	if info.Subject == "" && info.Email != "" && !r.missing.Has(info.Email) {
		if rec, ok := ros.ByLogin(roster.LoginFromEmail(info.Email)); ok {
			return Matched(rec.LoginID), nil
		}
	}

	// 2. Exact display name, then 3. normalized display name. More than one
	// hit is ambiguous and falls through.
	name := info.Subject
	if name == "" {
		name = info.Name
	}
	if name != "" && !r.missing.Has(name) {
		if recs := ros.ByName(name); len(recs) == 1 {
			return Matched(recs[0].LoginID), nil
		}
		if recs := ros.ByNormalizedName(name); len(recs) == 1 {
			return Matched(recs[0].LoginID), nil
		}
	}

	// 4. Interactive fallback, re-asked until the answer is a roster name or
	// a skip token.
	return r.fallback(ctx, info, ros)
}

func (r *Resolver) fallback(ctx context.Context, info Info, ros *roster.Roster) (Resolution, error) {
	if r.prompter == nil {
		return Skipped(), nil
	}
	q := Query{Info: info}
	if info.Email != "" && !r.missing.Has(info.Email) {
		q.LoginID = roster.LoginFromEmail(info.Email)
	}
	for {
		if err := ctx.Err(); err != nil {
			return Resolution{}, fmt.Errorf("identity prompt cancelled: %w", err)
		}
		answer, err := r.prompter.Ask(ctx, q)
		if err != nil {
			return Resolution{}, fmt.Errorf("identity prompt failed: %w", err)
		}
		if r.missing.Has(answer) {
			return Skipped(), nil
		}
		if recs := ros.ByName(answer); len(recs) == 1 {
			return Matched(recs[0].LoginID), nil
		}
		q.Rejected = answer
	}
}
