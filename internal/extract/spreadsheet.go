package extract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet extracts leading rows from the first sheets of .xlsx files.
type Spreadsheet struct {
	MaxSheets int
	// MaxRows bounds the physical rows read after the header row.
	MaxRows int
}

// NewSpreadsheet returns a Spreadsheet extractor reading 3 sheets of 20 rows.
func NewSpreadsheet() *Spreadsheet {
	return &Spreadsheet{MaxSheets: 3, MaxRows: 20}
}

// Extract renders each sheet as a header line, a column line and one line
// per non-empty row. The output is not capped here.
func (e *Spreadsheet) Extract(path string) Output {
	return run("Excel file", func() (string, error) {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return "", err
		}
		defer f.Close()

		sheets := f.GetSheetList()
		shown := sheets
		if e.MaxSheets > 0 && len(shown) > e.MaxSheets {
			shown = shown[:e.MaxSheets]
		}

		var lines []string
		for _, sheet := range shown {
			sheetLines, err := e.sheet(f, sheet)
			if err != nil {
				return "", fmt.Errorf("sheet %q: %w", sheet, err)
			}
			lines = append(lines, sheetLines...)
		}

		if omitted := len(sheets) - len(shown); omitted > 0 {
			lines = append(lines, fmt.Sprintf("\n[Note: File has %d sheets, %d omitted; only first %d shown]",
				len(sheets), omitted, len(shown)))
		}
		return strings.Join(lines, "\n"), nil
	})
}

func (e *Spreadsheet) sheet(f *excelize.File, name string) ([]string, error) {
	lines := []string{fmt.Sprintf("\n=== Sheet: %s ===", name)}

	rows, err := f.Rows(name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	read, data := 0, 0
	for rows.Next() {
		if e.MaxRows > 0 && read > e.MaxRows {
			break
		}
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		cells := nonEmpty(cols)

		if read == 0 {
			if len(cells) > 0 {
				lines = append(lines, "Columns: "+strings.Join(cells, ", "))
			}
		} else if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " | "))
			data++
		}
		read++
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}

	switch {
	case read == 0:
		lines = append(lines, "[Empty sheet]")
	case data == 0:
		lines = append(lines, "[No data rows]")
	}
	return lines, nil
}
