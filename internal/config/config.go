// Package config defines tool configuration structures and loading hooks.
//
// Conventions:
// - Provide New() returning defaults; Load() layers file and env on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "github.com/tmarren/peerweave/internal/domain/table"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Interactive enables the human identity-resolution fallback. When
	// false, unresolved responses are skipped without prompting.
	Interactive bool `koanf:"interactive"`

	// CommentSeparator joins aggregated peer comments.
	CommentSeparator string `koanf:"comment_separator"`

	// RatingPrecision is the number of decimal places for means and
	// standard deviations.
	RatingPrecision int `koanf:"rating_precision"`

	// MissingTokens are the raw cell values treated as absent data.
	MissingTokens []string `koanf:"missing_tokens"`

	// Roster CSV shape: rows to drop after the header (points-possible
	// rows) and before the end (test-student rows).
	RosterSkipLeading  int `koanf:"roster_skip_leading"`
	RosterSkipTrailing int `koanf:"roster_skip_trailing"`

	// Survey workbook sheet names and the header row (0-based) of the two
	// map sheets.
	SheetResponses string `koanf:"sheet_responses"`
	SheetSchemaMap string `koanf:"sheet_schema_map"`
	SheetLexicon   string `koanf:"sheet_lexicon"`
	MapHeaderRow   int    `koanf:"map_header_row"`

	// MetricsDump, when set, is a file path receiving the Prometheus text
	// dump at the end of the run.
	MetricsDump string `koanf:"metrics_dump"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Interactive:        true,
		CommentSeparator:   " | ",
		RatingPrecision:    2,
		MissingTokens:      []string{"NA", "na", "N/A", "n/a", "N/a", "nan", ""},
		RosterSkipLeading:  1,
		RosterSkipTrailing: 1,
		SheetResponses:     "Form Responses 1",
		SheetSchemaMap:     "ResponseMap",
		SheetLexicon:       "PointMap",
		MapHeaderRow:       3,
	}
}

// MissingSet builds the configured missing-token set.
func (c *Config) MissingSet() table.MissingSet {
	return table.NewMissingSet(c.MissingTokens...)
}
