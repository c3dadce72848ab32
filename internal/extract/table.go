package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Table extracts leading rows from comma-separated files.
type Table struct {
	// MaxRows bounds the data rows shown after the header row.
	MaxRows int
}

// NewTable returns a Table extractor showing 20 rows.
func NewTable() *Table {
	return &Table{MaxRows: 20}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extract parses every row, then renders the header, a row-count notice and
// up to MaxRows data lines.
func (e *Table) Extract(path string) Output {
	return run("CSV", func() (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}

		r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		rows, err := r.ReadAll()
		if err != nil {
			return "", err
		}
		if len(rows) == 0 {
			return "[Empty CSV file]", nil
		}

		total := len(rows) - 1
		limit := total
		if e.MaxRows > 0 && limit > e.MaxRows {
			limit = e.MaxRows
		}

		lines := []string{
			"Columns: " + strings.Join(nonEmpty(rows[0]), ", "),
			fmt.Sprintf("Showing %d of %d rows:\n", limit, total),
		}

		shown := 0
		for _, row := range rows[1 : limit+1] {
			cells := nonEmpty(row)
			if len(cells) == 0 {
				continue
			}
			lines = append(lines, strings.Join(cells, " | "))
			shown++
		}
		if shown == 0 {
			lines = append(lines, "[No data rows found]")
		}
		if total > limit {
			lines = append(lines, fmt.Sprintf("\n[%d more rows not shown]", total-limit))
		}
		return strings.Join(lines, "\n"), nil
	})
}
