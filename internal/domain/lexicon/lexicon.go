// Package lexicon converts categorical rating labels to point values.
package lexicon

import (
	"fmt"
	"math"

	"github.com/tmarren/peerweave/internal/domain/table"
)

// Lexicon is a total mapping from rating label to points. Looking up a label
// it does not carry is an error, never a silent default.
type Lexicon struct {
	points  map[string]float64
	missing table.MissingSet
}

// Option applies a configuration option to the Lexicon.
type Option func(*Lexicon)

// WithMissingSet overrides the tokens treated as absent ratings.
func WithMissingSet(m table.MissingSet) Option {
	return func(l *Lexicon) {
		if m != nil {
			l.missing = m
		}
	}
}

// New creates a lexicon from a label -> points map.
func New(points map[string]float64, opts ...Option) *Lexicon {
	l := &Lexicon{
		points:  make(map[string]float64, len(points)),
		missing: table.DefaultMissingSet(),
	}
	for label, pts := range points {
		l.points[label] = pts
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Len returns the number of labels carried.
func (l *Lexicon) Len() int { return len(l.points) }

// Points converts one label. Missing-token cells report ok=false without
// error; an unknown non-missing label is ErrUnknownLabel.
func (l *Lexicon) Points(label string) (pts float64, ok bool, err error) {
	if l.missing.Has(label) {
		return 0, false, nil
	}
	pts, found := l.points[label]
	if !found {
		return 0, false, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return pts, true, nil
}

// Convert maps a block of raw rating cells to points cell-by-cell,
// preserving shape. Missing cells convert to NaN; any unknown label aborts.
func (l *Lexicon) Convert(cells [][]string) ([][]float64, error) {
	out := make([][]float64, len(cells))
	for i, row := range cells {
		out[i] = make([]float64, len(row))
		for j, raw := range row {
			pts, ok, err := l.Points(raw)
			if err != nil {
				return nil, err
			}
			if !ok {
				out[i][j] = math.NaN()
				continue
			}
			out[i][j] = pts
		}
	}
	return out, nil
}
