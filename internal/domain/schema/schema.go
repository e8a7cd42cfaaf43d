// Package schema maps survey questions to respondent roles and semantic
// categories, and answers the column lookups every pipeline stage relies on.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Well-known roles and categories as they appear in the response map sheet.
const (
	RoleSelf    = "self"
	RoleGeneral = "general"
	RolePeer    = "peer" // matches every peerN slot in lookups

	CategoryAny     = "any"
	CategoryRating  = "rating"
	CategoryComment = "comment"
	CategoryName    = "name"
	CategoryEmail   = "email"
	CategorySection = "section"
	CategoryTeam    = "team"
)

// Entry describes one survey question: which respondent role it belongs to,
// its semantic category, the output label to publish results under, and the
// raw column identifier in the response table.
type Entry struct {
	Role     string
	Category string
	Label    string
	Column   string
}

// Map holds all entries in survey-column order.
type Map struct {
	entries []Entry
}

// New creates a map from entries, kept in the given order.
func New(entries []Entry) *Map {
	return &Map{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// BindColumns rebinds entry column identifiers positionally to the actual
// response-table headers. The response map sheet is maintained by hand, so
// its column text can drift from the export; position is authoritative.
func (m *Map) BindColumns(headers []string) error {
	if len(headers) != len(m.entries) {
		return fmt.Errorf("%w: %d response columns, %d map entries", ErrShapeMismatch, len(headers), len(m.entries))
	}
	for i := range m.entries {
		m.entries[i].Column = headers[i]
	}
	return nil
}

// roleMatches reports whether an entry role satisfies a lookup role. The
// lookup "peer" fans out to every peerN slot; anything else is exact. A role
// like "notpeer" never matches "peer".
func roleMatches(entryRole, query string) bool {
	if entryRole == query {
		return true
	}
	if query != RolePeer {
		return false
	}
	rest, ok := strings.CutPrefix(entryRole, RolePeer)
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// categoryMatches uses substring matching so "rating" tolerates "ratings"
// and "comment" tolerates "comments".
func categoryMatches(entryCategory, query string) bool {
	if query == CategoryAny || query == "" {
		return true
	}
	return strings.Contains(entryCategory, query)
}

// Entries returns all entries matching role and category, in map order.
// Category "any" (or empty) matches every category.
func (m *Map) Entries(role, category string) []Entry {
	var out []Entry
	for _, e := range m.entries {
		if roleMatches(e.Role, role) && categoryMatches(e.Category, category) {
			out = append(out, e)
		}
	}
	return out
}

// LookupOption adjusts label lookups.
type LookupOption func(*lookupOpts)

type lookupOpts struct {
	prefix string
	suffix string
}

// WithPrefix renders labels as "P: label".
func WithPrefix(p string) LookupOption {
	return func(o *lookupOpts) { o.prefix = p }
}

// WithSuffix renders labels as "label (s)".
func WithSuffix(s string) LookupOption {
	return func(o *lookupOpts) { o.suffix = s }
}

// Labels returns the output labels of matching entries, skipping entries
// without a label. Prefix/suffix transforms apply here and only here; raw
// column lookups are never decorated.
func (m *Map) Labels(role, category string, opts ...LookupOption) []string {
	var o lookupOpts
	for _, opt := range opts {
		opt(&o)
	}
	var out []string
	for _, e := range m.Entries(role, category) {
		if e.Label == "" || e.Label == "nan" {
			continue
		}
		out = append(out, decorate(e.Label, o))
	}
	return out
}

// Columns returns the raw survey column identifiers of matching entries.
func (m *Map) Columns(role, category string) []string {
	var out []string
	for _, e := range m.Entries(role, category) {
		out = append(out, e.Column)
	}
	return out
}

// UniqueColumn returns the single raw column for (role, category). Required
// for identity extraction, where exactly one name/email column must exist.
func (m *Map) UniqueColumn(role, category string) (string, error) {
	cols := m.Columns(role, category)
	switch len(cols) {
	case 1:
		return cols[0], nil
	case 0:
		return "", fmt.Errorf("%w: role %q category %q", ErrColumnNotFound, role, category)
	default:
		return "", fmt.Errorf("%w: role %q category %q has %d columns", ErrColumnAmbiguous, role, category, len(cols))
	}
}

// PeerSlots returns the distinct peerN roles, sorted.
func (m *Map) PeerSlots() []string {
	seen := make(map[string]bool)
	var slots []string
	for _, e := range m.entries {
		if e.Role == RolePeer || !roleMatches(e.Role, RolePeer) {
			continue
		}
		if !seen[e.Role] {
			seen[e.Role] = true
			slots = append(slots, e.Role)
		}
	}
	sort.Strings(slots)
	return slots
}

// FirstPeerSlot returns the lexicographically smallest peer slot, the
// canonical template for peer output columns. All slots are assumed to share
// its category structure.
func (m *Map) FirstPeerSlot() (string, error) {
	slots := m.PeerSlots()
	if len(slots) == 0 {
		return "", fmt.Errorf("%w: no peer slots in schema", ErrColumnNotFound)
	}
	return slots[0], nil
}

func decorate(label string, o lookupOpts) string {
	if o.prefix != "" {
		return o.prefix + ": " + label
	}
	if o.suffix != "" {
		return label + " (" + o.suffix + ")"
	}
	return label
}
