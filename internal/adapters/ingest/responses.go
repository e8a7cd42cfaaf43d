package ingest

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/tmarren/peerweave/internal/domain/table"
)

// ReadResponsesCSV reads a survey response export in CSV form, for surveys
// whose schema map and lexicon come from standalone YAML files instead of a
// workbook. Header row is the first row.
func ReadResponsesCSV(path string) (*table.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open responses: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read responses: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty response file", ErrBadInput)
	}

	headers := uniqueHeaders(records[0])
	frame := table.NewFrame(headers)
	for _, row := range records[1:] {
		if len(row) > len(headers) {
			row = row[:len(headers)]
		}
		if err := frame.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
