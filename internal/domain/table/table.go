// Package table contains the tabular structures passed between layers.
// Ingest adapters produce Frames; the pipeline consumes them.
package table

import (
	"fmt"
	"strings"
)

// Frame is an ordered-column table of raw string cells. A blank cell is the
// empty string; see MissingSet for the tokens treated as absent data.
type Frame struct {
	headers []string
	index   map[string]int
	rows    [][]string
}

// NewFrame creates a frame with the given column headers.
func NewFrame(headers []string) *Frame {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return &Frame{
		headers: append([]string(nil), headers...),
		index:   idx,
	}
}

// Headers returns the column headers in order.
func (f *Frame) Headers() []string {
	return append([]string(nil), f.headers...)
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// AppendRow adds a row. Short rows are padded with blanks; long rows are an error.
func (f *Frame) AppendRow(cells []string) error {
	if len(cells) > len(f.headers) {
		return fmt.Errorf("%w: row has %d cells, frame has %d columns", ErrShape, len(cells), len(f.headers))
	}
	row := make([]string, len(f.headers))
	copy(row, cells)
	f.rows = append(f.rows, row)
	return nil
}

// Cell returns the raw value at (row, column header).
func (f *Frame) Cell(row int, header string) (string, error) {
	if row < 0 || row >= len(f.rows) {
		return "", fmt.Errorf("%w: row %d of %d", ErrShape, row, len(f.rows))
	}
	i, ok := f.index[header]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, header)
	}
	return f.rows[row][i], nil
}

// Row returns one row keyed by header.
func (f *Frame) Row(row int) (map[string]string, error) {
	if row < 0 || row >= len(f.rows) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrShape, row, len(f.rows))
	}
	out := make(map[string]string, len(f.headers))
	for i, h := range f.headers {
		out[h] = f.rows[row][i]
	}
	return out, nil
}

// Column returns all values of one column in row order.
func (f *Frame) Column(header string) ([]string, error) {
	i, ok := f.index[header]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, header)
	}
	out := make([]string, len(f.rows))
	for r, row := range f.rows {
		out[r] = row[i]
	}
	return out, nil
}

// Select returns the listed columns for one row, in the given order.
func (f *Frame) Select(row int, headers []string) ([]string, error) {
	out := make([]string, len(headers))
	for i, h := range headers {
		v, err := f.Cell(row, h)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// MissingSet decides which raw cell values count as absent data.
type MissingSet map[string]struct{}

// Default tokens survey exports use for "no answer".
var defaultMissingTokens = []string{"NA", "na", "N/A", "n/a", "N/a", "nan", ""}

// DefaultMissingSet returns the canonical token set.
func DefaultMissingSet() MissingSet {
	return NewMissingSet(defaultMissingTokens...)
}

// NewMissingSet builds a set from explicit tokens.
func NewMissingSet(tokens ...string) MissingSet {
	m := make(MissingSet, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// Has reports whether the raw cell value counts as missing. Surrounding
// whitespace is ignored.
func (m MissingSet) Has(raw string) bool {
	if _, ok := m[raw]; ok {
		return true
	}
	_, ok := m[strings.TrimSpace(raw)]
	return ok
}
