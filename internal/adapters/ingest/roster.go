// Package ingest parses the roster CSV, the survey workbook, and standalone
// schema/lexicon files into the domain structures the pipeline consumes.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/tmarren/peerweave/internal/domain/roster"
)

// Canvas gradebook column names.
const (
	colStudent = "Student"
	colLogin   = "SIS Login ID"
	colSection = "Section"
)

// Gradebook columns carried through to the output. Anything else in the
// export is dropped.
var keepColumns = []string{colStudent, "ID", "SIS User ID", colLogin, "Root Account", colSection}

// RosterOption adjusts roster CSV parsing.
type RosterOption func(*rosterOpts)

type rosterOpts struct {
	skipLeading  int
	skipTrailing int
}

// WithSkipLeading drops n rows after the header (Canvas "Points Possible"
// rows).
func WithSkipLeading(n int) RosterOption {
	return func(o *rosterOpts) {
		if n >= 0 {
			o.skipLeading = n
		}
	}
}

// WithSkipTrailing drops n rows at the end (Canvas "Test Student" rows).
func WithSkipTrailing(n int) RosterOption {
	return func(o *rosterOpts) {
		if n >= 0 {
			o.skipTrailing = n
		}
	}
}

// ReadRosterCSV reads a Canvas gradebook export into a Roster. Display
// names arrive as "Last, First" and are flipped to "First Last"; login ids
// are case-folded so email-derived logins compare directly.
func ReadRosterCSV(path string, opts ...RosterOption) (*roster.Roster, error) {
	o := rosterOpts{skipLeading: 1, skipTrailing: 1}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty roster file", ErrBadInput)
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{colStudent, colLogin, colSection} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: roster column %q", ErrMissingColumn, required)
		}
	}

	rows := records[1:]
	if o.skipLeading > len(rows) {
		return nil, fmt.Errorf("%w: skip_leading %d exceeds %d rows", ErrBadInput, o.skipLeading, len(rows))
	}
	rows = rows[o.skipLeading:]
	if o.skipTrailing > len(rows) {
		return nil, fmt.Errorf("%w: skip_trailing %d exceeds %d rows", ErrBadInput, o.skipTrailing, len(rows))
	}
	rows = rows[:len(rows)-o.skipTrailing]

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	ros := roster.New()
	for _, row := range rows {
		rec := &roster.Record{
			LoginID: strings.ToLower(cell(row, colLogin)),
			Name:    roster.FlipName(cell(row, colStudent)),
			Section: cell(row, colSection),
			Extra:   make(map[string]string, len(keepColumns)),
		}
		for _, col := range keepColumns {
			if col == colLogin || col == colSection {
				continue
			}
			rec.Extra[col] = cell(row, col)
		}
		if err := ros.Add(rec); err != nil {
			return nil, fmt.Errorf("roster row for %q: %w", cell(row, colStudent), err)
		}
	}
	return ros, nil
}
