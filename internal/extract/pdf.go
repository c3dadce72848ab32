package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts page text from .pdf files.
type PDF struct {
	// MaxPages bounds how many leading pages are read.
	MaxPages int
	// Limit caps the returned text in runes.
	Limit int
}

// NewPDF returns a PDF extractor reading 5 pages capped at 1500 runes.
func NewPDF() *PDF {
	return &PDF{MaxPages: 5, Limit: 1500}
}

// Extract reads the first MaxPages pages and collapses their whitespace.
// ledongthuc/pdf panics on some malformed files; those become diagnostics.
func (e *PDF) Extract(path string) Output {
	out := run("PDF", func() (string, error) {
		f, r, err := pdf.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()

		total := r.NumPage()
		pages := total
		if e.MaxPages > 0 && pages > e.MaxPages {
			pages = e.MaxPages
		}

		var b strings.Builder
		for i := 1; i <= pages; i++ {
			p := r.Page(i)
			if p.V.IsNull() {
				continue
			}
			text, err := p.GetPlainText(map[string]*pdf.Font{})
			if err != nil {
				return "", fmt.Errorf("page %d: %w", i, err)
			}
			if text != "" {
				b.WriteString(text)
				b.WriteString("\n")
			}
		}

		if pages < total {
			fmt.Fprintf(&b, "\n[Note: PDF has %d total pages, only first %d extracted]", total, pages)
		}
		return collapse(b.String()), nil
	})
	return capped(out, e.Limit)
}
