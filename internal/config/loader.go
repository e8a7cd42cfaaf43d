package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PEERWEAVE_CONFIG is set
//  3. env (prefix PEERWEAVE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PEERWEAVE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Env keys like PEERWEAVE_RATING_PRECISION -> rating_precision,
	// preserving underscores to match the koanf tags on the struct.
	envProvider := env.Provider("PEERWEAVE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "peerweave_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if cfg.RatingPrecision < 0 {
		return nil, fmt.Errorf("%w: rating_precision must not be negative", ErrInvalidConfig)
	}
	if cfg.RosterSkipLeading < 0 || cfg.RosterSkipTrailing < 0 {
		return nil, fmt.Errorf("%w: roster skip counts must not be negative", ErrInvalidConfig)
	}
	if cfg.SheetResponses == "" || cfg.SheetSchemaMap == "" || cfg.SheetLexicon == "" {
		return nil, fmt.Errorf("%w: workbook sheet names must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}
