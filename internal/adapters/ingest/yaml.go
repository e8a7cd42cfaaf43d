package ingest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tmarren/peerweave/internal/domain/schema"
)

// schemaDoc is the YAML shape of a standalone schema-map file, an
// alternative to the workbook's ResponseMap sheet for surveys exported as
// plain CSV.
type schemaDoc struct {
	Questions []struct {
		Role     string `yaml:"role"`
		Category string `yaml:"category"`
		Label    string `yaml:"label"`
		Column   string `yaml:"column"`
	} `yaml:"questions"`
}

// ReadSchemaYAML reads a schema map from a YAML file. Entries keep file
// order; roles and categories are case-folded.
func ReadSchemaYAML(path string) (*schema.Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	var doc schemaDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	if len(doc.Questions) == 0 {
		return nil, fmt.Errorf("%w: schema file has no questions", ErrBadInput)
	}
	entries := make([]schema.Entry, len(doc.Questions))
	for i, q := range doc.Questions {
		entries[i] = schema.Entry{
			Role:     strings.ToLower(strings.TrimSpace(q.Role)),
			Category: strings.ToLower(strings.TrimSpace(q.Category)),
			Label:    strings.TrimSpace(q.Label),
			Column:   q.Column,
		}
	}
	return schema.New(entries), nil
}

// ReadLexiconYAML reads a label -> points map from a YAML file.
func ReadLexiconYAML(path string) (map[string]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}
	var points map[string]float64
	if err := yaml.Unmarshal(raw, &points); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: lexicon file has no ratings", ErrBadInput)
	}
	return points, nil
}
