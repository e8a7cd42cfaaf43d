// Package export writes the enriched roster back out as a workbook or CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/tmarren/peerweave/internal/domain/roster"
)

const sheetName = "Sheet1"

// headersFor builds the output column order: identity columns, pass-through
// gradebook columns, then the appended result columns in encounter order.
func headersFor(ros *roster.Roster) []string {
	base := []string{"SIS Login ID", "Student", "Name", "Section"}
	extraSeen := make(map[string]bool)
	for _, h := range base {
		extraSeen[h] = true
	}
	var extras []string
	for _, rec := range ros.Records() {
		for k := range rec.Extra {
			if !extraSeen[k] {
				extraSeen[k] = true
				extras = append(extras, k)
			}
		}
	}
	sort.Strings(extras)
	return append(append(base, extras...), ros.ResultColumns()...)
}

// cellsFor renders one record under headers. Missing result values render
// blank; numeric results stay numeric for the workbook writer.
func cellsFor(rec *roster.Record, ros *roster.Roster, headers []string) []any {
	resultCol := make(map[string]bool)
	for _, c := range ros.ResultColumns() {
		resultCol[c] = true
	}
	out := make([]any, len(headers))
	for i, h := range headers {
		switch {
		case h == "SIS Login ID":
			out[i] = rec.LoginID
		case h == "Name":
			out[i] = rec.Name
		case h == "Section":
			out[i] = rec.Section
		case resultCol[h]:
			v := rec.Result(h)
			if n, ok := v.Float(); ok {
				out[i] = n
			} else {
				out[i] = v.String()
			}
		default:
			out[i] = rec.Extra[h]
		}
	}
	return out
}

// WriteXLSX writes the roster to a new workbook at path.
func WriteXLSX(path string, ros *roster.Roster) error {
	f := excelize.NewFile()
	defer f.Close()

	headers := headersFor(ros)
	for c, h := range headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
	}
	for r, rec := range ros.Records() {
		for c, v := range cellsFor(rec, ros, headers) {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// WriteCSV writes the roster to a CSV file at path.
func WriteCSV(path string, ros *roster.Roster) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	headers := headersFor(ros)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, rec := range ros.Records() {
		row := make([]string, len(headers))
		for i, v := range cellsFor(rec, ros, headers) {
			row[i] = fmt.Sprint(v)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
