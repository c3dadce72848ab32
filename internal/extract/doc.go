// Package extract converts staged attachment files into bounded plain text.
//
// There is one extractor per supported format: PDF, Word documents, Excel
// workbooks, CSV tables and images (through a Recognizer). Extractors never
// return errors. A failure, including a panic inside a parsing library, is
// reported as an inline "[ERROR reading <format>: <cause>]" diagnostic with
// Output.Failed set, so callers can always treat the result as text.
//
// Caps are per extractor: PDF and documents stop at 1500 runes and images at
// 1000. Spreadsheets and tables are bounded by rows and sheets instead.
package extract
