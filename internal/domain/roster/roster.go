// Package roster holds the authoritative list of enrolled people and the
// result fields the pipeline appends to each of them.
package roster

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// valueKind discriminates Value states.
type valueKind int

const (
	kindMissing valueKind = iota
	kindText
	kindNumber
)

// Value is one result-field cell: a number, a text, or the explicit missing
// marker. Missing is distinct from zero and from the empty string.
type Value struct {
	kind valueKind
	num  float64
	text string
}

// Missing returns the missing marker.
func Missing() Value { return Value{kind: kindMissing} }

// Number wraps a numeric result.
func Number(v float64) Value { return Value{kind: kindNumber, num: v} }

// Text wraps a textual result.
func Text(s string) Value { return Value{kind: kindText, text: s} }

// IsMissing reports whether the value is the missing marker.
func (v Value) IsMissing() bool { return v.kind == kindMissing }

// Float returns the numeric value and whether one is present.
func (v Value) Float() (float64, bool) { return v.num, v.kind == kindNumber }

// String renders the value for export. Missing renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindText:
		return v.text
	default:
		return ""
	}
}

// Record is one authoritative person. LoginID is the stable identity key;
// Name is the human-entered display name ("First Last" after preparation).
type Record struct {
	LoginID string
	Name    string
	Section string

	// Extra keeps pass-through roster columns (student id, root account, ...).
	Extra map[string]string

	results map[string]Value
	// SelfMerges counts self-responses written to this record; above one
	// means a later response overwrote an earlier one.
	SelfMerges int
}

// Result returns the named result field, or the missing marker when the
// column was never added.
func (r *Record) Result(label string) Value {
	if v, ok := r.results[label]; ok {
		return v
	}
	return Missing()
}

// SetResult writes one result field.
func (r *Record) SetResult(label string, v Value) {
	if r.results == nil {
		r.results = make(map[string]Value)
	}
	r.results[label] = v
}

// Roster indexes records by login id and by normalized display name, and
// tracks the result columns appended during a run in encounter order.
type Roster struct {
	records    []*Record
	byLogin    map[string]*Record
	byNormName map[string][]*Record

	resultCols []string
	colSeen    map[string]bool
}

// New creates an empty roster.
func New() *Roster {
	return &Roster{
		byLogin:    make(map[string]*Record),
		byNormName: make(map[string][]*Record),
		colSeen:    make(map[string]bool),
	}
}

// Add inserts a record. Login ids are unique; a duplicate is an error.
func (ros *Roster) Add(rec *Record) error {
	if rec.LoginID == "" {
		return fmt.Errorf("%w: empty login id for %q", ErrBadRecord, rec.Name)
	}
	if _, exists := ros.byLogin[rec.LoginID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateLogin, rec.LoginID)
	}
	ros.records = append(ros.records, rec)
	ros.byLogin[rec.LoginID] = rec
	norm := NormalizeName(rec.Name)
	ros.byNormName[norm] = append(ros.byNormName[norm], rec)
	return nil
}

// Len returns the number of records.
func (ros *Roster) Len() int { return len(ros.records) }

// Records returns all records in insertion order.
func (ros *Roster) Records() []*Record {
	return append([]*Record(nil), ros.records...)
}

// ByLogin looks up the record with the given login id.
func (ros *Roster) ByLogin(login string) (*Record, bool) {
	rec, ok := ros.byLogin[login]
	return rec, ok
}

// ByName returns all records whose display name equals name exactly.
func (ros *Roster) ByName(name string) []*Record {
	var out []*Record
	for _, rec := range ros.records {
		if rec.Name == name {
			out = append(out, rec)
		}
	}
	return out
}

// ByNormalizedName returns all records whose normalized display name equals
// the normalized form of name.
func (ros *Roster) ByNormalizedName(name string) []*Record {
	return append([]*Record(nil), ros.byNormName[NormalizeName(name)]...)
}

// AddResultColumns registers output columns and fills them with the missing
// marker on every record. Re-adding a column is a no-op.
func (ros *Roster) AddResultColumns(labels []string) {
	for _, label := range labels {
		if ros.colSeen[label] {
			continue
		}
		ros.colSeen[label] = true
		ros.resultCols = append(ros.resultCols, label)
		for _, rec := range ros.records {
			rec.SetResult(label, Missing())
		}
	}
}

// ResultColumns returns the appended columns in encounter order.
func (ros *Roster) ResultColumns() []string {
	return append([]string(nil), ros.resultCols...)
}

// NormalizeName trims surrounding whitespace and title-cases each
// space-separated token ("jANE  doe" -> "Jane Doe"). Interior runs of
// whitespace collapse to one space.
func NormalizeName(name string) string {
	tokens := strings.Fields(name)
	for i, tok := range tokens {
		runes := []rune(strings.ToLower(tok))
		runes[0] = unicode.ToUpper(runes[0])
		tokens[i] = string(runes)
	}
	return strings.Join(tokens, " ")
}

// FlipName converts a "Last, First" roster name to "First Last". Names
// without a comma are returned unchanged.
func FlipName(name string) string {
	last, first, ok := strings.Cut(name, ",")
	if !ok {
		return name
	}
	return strings.TrimSpace(first) + " " + strings.TrimSpace(last)
}

// LoginFromEmail derives the login id from an email address: the text before
// the first "@", case-folded.
func LoginFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return strings.ToLower(strings.TrimSpace(local))
}
