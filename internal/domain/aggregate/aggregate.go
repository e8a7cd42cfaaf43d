// Package aggregate reduces many evaluations of one subject to a single row
// of counts, means, sample standard deviations, and joined comments.
package aggregate

import (
	"fmt"
	"math"

	"github.com/tmarren/peerweave/internal/domain/lexicon"
	"github.com/tmarren/peerweave/internal/domain/table"
)

// Default reduction settings.
const (
	defaultSeparator = " | "
	defaultPrecision = 2
)

// Row is one evaluation keyed by output label.
type Row map[string]string

// Result is the reduction of one subject's bucket. A rating label absent
// from Means had no usable value; absent from Stdevs means the deviation is
// undefined (fewer than two values), never zero.
type Result struct {
	Count    int
	Means    map[string]float64
	Stdevs   map[string]float64
	Comments map[string]string
}

// Reducer folds buckets of rows. It is pure: reducing the same bucket twice
// yields identical results.
type Reducer struct {
	lex       *lexicon.Lexicon
	separator string
	precision int
	missing   table.MissingSet
}

// Option applies a configuration option to the Reducer.
type Option func(*Reducer)

// WithSeparator sets the comment join separator.
func WithSeparator(sep string) Option {
	return func(r *Reducer) {
		if sep != "" {
			r.separator = sep
		}
	}
}

// WithPrecision sets the number of decimal places for means and deviations.
func WithPrecision(p int) Option {
	return func(r *Reducer) {
		if p >= 0 {
			r.precision = p
		}
	}
}

// WithMissingSet overrides the tokens treated as absent cells.
func WithMissingSet(m table.MissingSet) Option {
	return func(r *Reducer) {
		if m != nil {
			r.missing = m
		}
	}
}

// NewReducer creates a reducer that converts ratings through lex.
func NewReducer(lex *lexicon.Lexicon, opts ...Option) *Reducer {
	r := &Reducer{
		lex:       lex,
		separator: defaultSeparator,
		precision: defaultPrecision,
		missing:   table.DefaultMissingSet(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce folds rows into one Result. ratingLabels and commentLabels select
// which row fields are numeric and which are free text; everything else in
// the rows is ignored. An unknown rating label aborts with the lexicon error.
func (r *Reducer) Reduce(rows []Row, ratingLabels, commentLabels []string) (Result, error) {
	res := Result{
		Count:    len(rows),
		Means:    make(map[string]float64, len(ratingLabels)),
		Stdevs:   make(map[string]float64, len(ratingLabels)),
		Comments: make(map[string]string, len(commentLabels)),
	}

	for _, label := range commentLabels {
		joined := ""
		for _, row := range rows {
			c, ok := row[label]
			if !ok || r.missing.Has(c) {
				continue
			}
			if joined != "" {
				joined += r.separator
			}
			joined += c
		}
		res.Comments[label] = joined
	}

	for _, label := range ratingLabels {
		var vals []float64
		for _, row := range rows {
			raw, ok := row[label]
			if !ok {
				continue
			}
			pts, present, err := r.lex.Points(raw)
			if err != nil {
				return Result{}, fmt.Errorf("reduce %q: %w", label, err)
			}
			if present {
				vals = append(vals, pts)
			}
		}
		if len(vals) == 0 {
			continue
		}
		res.Means[label] = r.round(mean(vals))
		if len(vals) >= 2 {
			res.Stdevs[label] = r.round(sampleStdev(vals))
		}
	}

	return res, nil
}

func (r *Reducer) round(v float64) float64 {
	scale := math.Pow(10, float64(r.precision))
	return math.Round(v*scale) / scale
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStdev is the Bessel-corrected (N−1) standard deviation. Callers
// guarantee len(vals) >= 2.
func sampleStdev(vals []float64) float64 {
	m := mean(vals)
	ss := 0.0
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}
