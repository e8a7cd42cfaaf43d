// Package service runs the merge pipeline: self-evaluations, peer-evaluation
// aggregation, then self/peer discrepancies, all writing into one roster.
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/tmarren/peerweave/internal/domain/lexicon"
	"github.com/tmarren/peerweave/internal/domain/resolve"
	"github.com/tmarren/peerweave/internal/domain/roster"
	"github.com/tmarren/peerweave/internal/domain/schema"
	"github.com/tmarren/peerweave/internal/domain/table"
	"github.com/tmarren/peerweave/pkg/logger"
	"github.com/tmarren/peerweave/pkg/metrics"
)

// Pipeline stage names used in logs and metrics.
const (
	stageSelf = "self"
	stagePeer = "peer"
	stageDiff = "diff"
)

// Output label constants.
const (
	selfPrefix    = "SE"
	diffPrefix    = "SE-PE"
	peerCountCol  = "PE: N"
	avgSuffix     = "avg"
	stdSuffix     = "std"
	defaultSep    = " | "
	defaultDigits = 2
)

// RunInput bundles the parsed tables one run operates on. The roster is
// mutated in place and is also the output.
type RunInput struct {
	Roster    *roster.Roster
	Responses *table.Frame
	Schema    *schema.Map
	Lexicon   *lexicon.Lexicon
}

// Report summarizes what one run did with every response. No response goes
// unaccounted: each is merged, skipped, blank, or dropped on a schema error.
type Report struct {
	RunID string

	SelfProcessed  int
	SelfMerged     int
	SelfSkipped    int
	SelfOverwrites int

	PeerRows     int
	PeerMerged   int
	PeerSkipped  int
	PeerBlank    int
	PeerSubjects int

	DiscrepancyColumns int
	SchemaErrors       int
	Prompts            int
}

// Service orchestrates the pipeline over a single roster.
type Service struct {
	log      logger.Logger
	metrics  *metrics.Manager
	prompter resolve.Prompter

	separator string
	precision int
	missing   table.MissingSet
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithPrompter sets the interactive identity fallback. Without one,
// unresolved responses are skipped silently.
func WithPrompter(p resolve.Prompter) Option {
	return func(s *Service) { s.prompter = p }
}

// WithCommentSeparator sets the join separator for aggregated comments.
func WithCommentSeparator(sep string) Option {
	return func(s *Service) {
		if sep != "" {
			s.separator = sep
		}
	}
}

// WithRatingPrecision sets decimal places for means, deviations, and diffs.
func WithRatingPrecision(p int) Option {
	return func(s *Service) {
		if p >= 0 {
			s.precision = p
		}
	}
}

// WithMissingSet overrides the tokens treated as absent data.
func WithMissingSet(m table.MissingSet) Option {
	return func(s *Service) {
		if m != nil {
			s.missing = m
		}
	}
}

// New creates a Service with options.
func New(opts ...Option) *Service {
	s := &Service{
		separator: defaultSep,
		precision: defaultDigits,
		missing:   table.DefaultMissingSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	if s.metrics == nil {
		s.metrics = metrics.Get()
	}
	return s
}

// Run executes the full pipeline. The input roster is enriched in place;
// the report accounts for every response. Lexicon failures abort the run,
// per-response schema failures are downgraded to skips.
func (s *Service) Run(ctx context.Context, in RunInput) (*Report, error) {
	if in.Roster == nil || in.Responses == nil || in.Schema == nil || in.Lexicon == nil {
		return nil, ErrMissingInput
	}

	rep := &Report{RunID: uuid.NewString()}
	s.metrics.SetRosterSize(in.Roster.Len())
	s.log.Info(ctx, "run started",
		logger.String("run_id", rep.RunID),
		logger.Int("roster_size", in.Roster.Len()),
		logger.Int("responses", in.Responses.Len()))

	resolver := resolve.NewResolver(
		resolve.WithPrompter(s.countingPrompter(rep)),
		resolve.WithMissingSet(s.missing),
	)

	stages := []struct {
		name string
		run  func(context.Context, RunInput, *resolve.Resolver, *Report) error
	}{
		{stageSelf, s.mergeSelfEvals},
		{stagePeer, s.aggregatePeerEvals},
		{stageDiff, s.calcDiscrepancies},
	}
	for _, st := range stages {
		start := time.Now()
		if err := st.run(ctx, in, resolver, rep); err != nil {
			return nil, fmt.Errorf("%s stage: %w", st.name, err)
		}
		s.metrics.RecordStageDuration(st.name, time.Since(start))
	}

	s.log.Info(ctx, "run finished",
		logger.String("run_id", rep.RunID),
		logger.Int("self_merged", rep.SelfMerged),
		logger.Int("self_skipped", rep.SelfSkipped),
		logger.Int("peer_rows", rep.PeerRows),
		logger.Int("peer_skipped", rep.PeerSkipped),
		logger.Int("peer_subjects", rep.PeerSubjects),
		logger.Int("schema_errors", rep.SchemaErrors),
		logger.Int("prompts", rep.Prompts))
	return rep, nil
}

// countingPrompter wraps the configured prompter so every prompt shown is
// counted in the report and metrics.
func (s *Service) countingPrompter(rep *Report) resolve.Prompter {
	if s.prompter == nil {
		return nil
	}
	return promptCounter{inner: s.prompter, svc: s, rep: rep}
}

type promptCounter struct {
	inner resolve.Prompter
	svc   *Service
	rep   *Report
}

func (p promptCounter) Ask(ctx context.Context, q resolve.Query) (string, error) {
	p.rep.Prompts++
	p.svc.metrics.RecordPrompt()
	return p.inner.Ask(ctx, q)
}

// respondentInfo collects the identifying context of the respondent who
// filled in response row. Lookups are lenient: a survey without, say, a team
// question just yields an empty field in the prompt.
func (s *Service) respondentInfo(in RunInput, row int) resolve.Info {
	info := resolve.Info{
		Email:   s.cellByRole(in, row, schema.RoleSelf, schema.CategoryEmail),
		Name:    s.cellByRole(in, row, schema.RoleSelf, schema.CategoryName),
		Section: s.cellByRole(in, row, schema.RoleSelf, schema.CategorySection),
		Team:    s.cellByRole(in, row, schema.RoleSelf, schema.CategoryTeam),
	}
	for _, slot := range in.Schema.PeerSlots() {
		peer := s.cellByRole(in, row, slot, schema.CategoryName)
		if peer != "" && !s.missing.Has(peer) {
			info.Teammates = append(info.Teammates, peer)
		}
	}
	return info
}

// cellByRole reads a response cell through a unique (role, category) lookup,
// returning "" when the schema has no such column.
func (s *Service) cellByRole(in RunInput, row int, role, category string) string {
	col, err := in.Schema.UniqueColumn(role, category)
	if err != nil {
		return ""
	}
	v, err := in.Responses.Cell(row, col)
	if err != nil {
		return ""
	}
	return v
}

// cellValue converts a raw cell into a result Value: missing tokens become
// the missing marker, rating cells go through the lexicon, everything else
// is kept verbatim.
func (s *Service) cellValue(raw string, rating bool, lex *lexicon.Lexicon) (roster.Value, error) {
	if s.missing.Has(raw) {
		return roster.Missing(), nil
	}
	if !rating {
		return roster.Text(raw), nil
	}
	pts, ok, err := lex.Points(raw)
	if err != nil {
		return roster.Value{}, err
	}
	if !ok {
		return roster.Missing(), nil
	}
	return roster.Number(pts), nil
}

func (s *Service) round(v float64) float64 {
	scale := math.Pow(10, float64(s.precision))
	return math.Round(v*scale) / scale
}

// labeled filters entries down to the ones with a usable output label.
func labeled(entries []schema.Entry) []schema.Entry {
	var out []schema.Entry
	for _, e := range entries {
		if e.Label != "" && e.Label != "nan" {
			out = append(out, e)
		}
	}
	return out
}

func prefixed(prefix, label string) string { return prefix + ": " + label }

func suffixed(label, suffix string) string { return label + " (" + suffix + ")" }
