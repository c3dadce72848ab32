package extract

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// Document extracts paragraphs and table rows from .docx files.
type Document struct {
	// Limit caps the returned text in runes.
	Limit int
}

// NewDocument returns a Document extractor capped at 1500 runes.
func NewDocument() *Document {
	return &Document{Limit: 1500}
}

// Extract emits the non-empty body paragraphs in order, then one line per
// table row with the non-empty cells joined by " | ".
func (e *Document) Extract(path string) Output {
	out := run("document", func() (string, error) {
		r, err := docx.ReadDocxFile(path)
		if err != nil {
			return "", err
		}
		defer r.Close()

		paragraphs, rows, err := parseDocumentXML(r.Editable().GetContent())
		if err != nil {
			return "", err
		}
		return strings.Join(append(paragraphs, rows...), "\n"), nil
	})
	return capped(out, e.Limit)
}

// parseDocumentXML walks word/document.xml. Paragraphs outside tables are
// returned separately from table rows so rows can follow all paragraphs.
func parseDocumentXML(content string) (paragraphs, rows []string, err error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		tableDepth int
		inText     bool
		para       strings.Builder
		cell       strings.Builder
		cells      []string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth == 1 {
					cells = cells[:0]
				}
			case "tc":
				if tableDepth == 1 {
					cell.Reset()
				}
			case "p":
				if tableDepth == 0 {
					para.Reset()
				} else if cell.Len() > 0 {
					cell.WriteString("\n")
				}
			case "t":
				inText = true
			case "tab":
				writeRun(tableDepth, &para, &cell, "\t")
			case "br", "cr":
				writeRun(tableDepth, &para, &cell, "\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
				}
			case "tr":
				if tableDepth == 1 {
					if line := nonEmpty(cells); len(line) > 0 {
						rows = append(rows, strings.Join(line, " | "))
					}
				}
			case "tc":
				if tableDepth == 1 {
					cells = append(cells, cell.String())
				}
			case "p":
				if tableDepth == 0 {
					if text := strings.TrimSpace(para.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				writeRun(tableDepth, &para, &cell, string(t))
			}
		}
	}

	return paragraphs, rows, nil
}

// writeRun appends s to the paragraph outside tables and to the current cell
// of a top-level table. Nested table text folds into the enclosing cell.
func writeRun(tableDepth int, para, cell *strings.Builder, s string) {
	if tableDepth == 0 {
		para.WriteString(s)
		return
	}
	cell.WriteString(s)
}
