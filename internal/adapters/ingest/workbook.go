package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tmarren/peerweave/internal/domain/lexicon"
	"github.com/tmarren/peerweave/internal/domain/schema"
	"github.com/tmarren/peerweave/internal/domain/table"
)

// Survey bundles the three parsed sheets of one survey workbook.
type Survey struct {
	Responses *table.Frame
	Schema    *schema.Map
	Lexicon   *lexicon.Lexicon
}

// WorkbookOption adjusts workbook parsing.
type WorkbookOption func(*workbookOpts)

type workbookOpts struct {
	sheetResponses string
	sheetSchema    string
	sheetLexicon   string
	mapHeaderRow   int
	missing        table.MissingSet
}

// WithSheets overrides the three sheet names.
func WithSheets(responses, schemaMap, lexiconSheet string) WorkbookOption {
	return func(o *workbookOpts) {
		if responses != "" {
			o.sheetResponses = responses
		}
		if schemaMap != "" {
			o.sheetSchema = schemaMap
		}
		if lexiconSheet != "" {
			o.sheetLexicon = lexiconSheet
		}
	}
}

// WithMapHeaderRow sets the 0-based header row of the two map sheets.
func WithMapHeaderRow(row int) WorkbookOption {
	return func(o *workbookOpts) {
		if row >= 0 {
			o.mapHeaderRow = row
		}
	}
}

// WithMissingSet passes the missing-token set into the built lexicon.
func WithMissingSet(m table.MissingSet) WorkbookOption {
	return func(o *workbookOpts) {
		if m != nil {
			o.missing = m
		}
	}
}

// ReadWorkbook reads a survey export workbook: the response sheet, the
// response map (question -> role/category/label), and the point map. The
// schema's column identifiers are re-bound positionally to the response
// sheet's actual headers, since the map sheet is maintained by hand.
func ReadWorkbook(path string, opts ...WorkbookOption) (*Survey, error) {
	o := workbookOpts{
		sheetResponses: "Form Responses 1",
		sheetSchema:    "ResponseMap",
		sheetLexicon:   "PointMap",
		mapHeaderRow:   3,
		missing:        table.DefaultMissingSet(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	responses, err := readResponses(f, o.sheetResponses)
	if err != nil {
		return nil, err
	}
	sm, err := readSchemaSheet(f, o.sheetSchema, o.mapHeaderRow)
	if err != nil {
		return nil, err
	}
	if err := sm.BindColumns(responses.Headers()); err != nil {
		return nil, fmt.Errorf("bind %q to %q: %w", o.sheetSchema, o.sheetResponses, err)
	}
	points, err := readPointSheet(f, o.sheetLexicon, o.mapHeaderRow)
	if err != nil {
		return nil, err
	}

	return &Survey{
		Responses: responses,
		Schema:    sm,
		Lexicon:   lexicon.New(points, lexicon.WithMissingSet(o.missing)),
	}, nil
}

func readResponses(f *excelize.File, sheet string) (*table.Frame, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrBadSheet, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrBadSheet, sheet)
	}

	headers := uniqueHeaders(rows[0])
	frame := table.NewFrame(headers)
	for _, row := range rows[1:] {
		if len(row) > len(headers) {
			row = row[:len(headers)]
		}
		if err := frame.AppendRow(row); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
	}
	return frame, nil
}

// uniqueHeaders disambiguates repeated question text the way spreadsheet
// tools do, so label-keyed lookups stay unambiguous.
func uniqueHeaders(raw []string) []string {
	seen := make(map[string]int, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		seen[h]++
		if n := seen[h]; n > 1 {
			h = fmt.Sprintf("%s (%d)", h, n)
		}
		out[i] = h
	}
	return out
}

func readSchemaSheet(f *excelize.File, sheet string, headerRow int) (*schema.Map, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrBadSheet, sheet, err)
	}
	if headerRow >= len(rows) {
		return nil, fmt.Errorf("%w: sheet %q has no header row %d", ErrBadSheet, sheet, headerRow)
	}

	head := rows[headerRow]
	idx := func(name string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}
	iRole, iCategory, iLabel := idx("student"), idx("category"), idx("newhead")
	if iRole < 0 || iCategory < 0 || iLabel < 0 {
		return nil, fmt.Errorf("%w: sheet %q needs student/category/newhead columns", ErrMissingColumn, sheet)
	}

	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	// Every row below the header maps positionally to one response column,
	// so blank rows are kept as empty entries.
	var entries []schema.Entry
	for _, row := range rows[headerRow+1:] {
		label := cell(row, iLabel)
		if label == "nan" {
			label = ""
		}
		entries = append(entries, schema.Entry{
			Role:     strings.ToLower(cell(row, iRole)),
			Category: strings.ToLower(cell(row, iCategory)),
			Label:    label,
		})
	}
	return schema.New(entries), nil
}

func readPointSheet(f *excelize.File, sheet string, headerRow int) (map[string]float64, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrBadSheet, sheet, err)
	}
	if headerRow >= len(rows) {
		return nil, fmt.Errorf("%w: sheet %q has no header row %d", ErrBadSheet, sheet, headerRow)
	}

	head := rows[headerRow]
	iRating, iPoints := -1, -1
	for i, h := range head {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "rating":
			iRating = i
		case "points":
			iPoints = i
		}
	}
	if iRating < 0 || iPoints < 0 {
		return nil, fmt.Errorf("%w: sheet %q needs Rating/Points columns", ErrMissingColumn, sheet)
	}

	points := make(map[string]float64)
	for _, row := range rows[headerRow+1:] {
		if iRating >= len(row) || strings.TrimSpace(row[iRating]) == "" {
			continue
		}
		label := strings.TrimSpace(row[iRating])
		rawPts := ""
		if iPoints < len(row) {
			rawPts = strings.TrimSpace(row[iPoints])
		}
		pts, err := strconv.ParseFloat(rawPts, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: label %q has points %q", ErrBadPoints, label, rawPts)
		}
		points[label] = pts
	}
	return points, nil
}
