package attachments

import (
	"path/filepath"
	"strings"
)

// Kind classifies an attachment for extraction.
type Kind int

const (
	KindUnsupported Kind = iota
	KindDocument
	KindSpreadsheet
	KindTable
	KindImage
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindSpreadsheet:
		return "spreadsheet"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	case KindError:
		return "extraction-error"
	default:
		return "unsupported"
	}
}

// Format identifies the extractor for a filename suffix. Several formats
// can share a Kind; PDF and Word files are both documents.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatWord  Format = "docx"
	FormatExcel Format = "xlsx"
	FormatCSV   Format = "csv"
	FormatImage Format = "image"
)

type formatInfo struct {
	kind  Kind
	label string
}

var formats = map[Format]formatInfo{
	FormatPDF:   {KindDocument, "PDF"},
	FormatWord:  {KindDocument, "Word Document"},
	FormatExcel: {KindSpreadsheet, "Excel Spreadsheet"},
	FormatCSV:   {KindTable, "CSV File"},
	FormatImage: {KindImage, "Image"},
}

var suffixes = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatWord,
	".xlsx": FormatExcel,
	".csv":  FormatCSV,
	".png":  FormatImage,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
}

// Kind reports the classification of files in this format.
func (f Format) Kind() Kind {
	if info, ok := formats[f]; ok {
		return info.kind
	}
	return KindUnsupported
}

// Label is the name shown for this format in summaries.
func (f Format) Label() string {
	if info, ok := formats[f]; ok {
		return info.label
	}
	return labelUnsupported
}

const (
	labelUnsupported = "Unsupported"
	labelError       = "Error"
)

// FormatOf returns the format for filename by its lowercased suffix.
func FormatOf(filename string) (Format, bool) {
	f, ok := suffixes[Suffix(filename)]
	return f, ok
}

// Classify returns the kind of filename by its suffix alone.
func Classify(filename string) Kind {
	f, ok := FormatOf(filename)
	if !ok {
		return KindUnsupported
	}
	return f.Kind()
}

// Suffix returns the lowercased extension of filename, including the dot.
func Suffix(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
