// Package ocr recognizes text in images with Tesseract.
//
// It needs cgo and the libtesseract/libleptonica headers at build time, so it
// lives apart from the pure-Go extractors.
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language used when none is set.
const DefaultLanguage = "eng"

// Tesseract implements extract.Recognizer.
type Tesseract struct {
	Languages []string
	// TessdataPrefix overrides the trained data location when non-empty.
	TessdataPrefix string
}

// New returns a recognizer for English text.
func New() *Tesseract {
	return &Tesseract{Languages: []string{DefaultLanguage}}
}

// Recognize treats the image as a single uniform block of text. A client is
// created per call since gosseract clients are not safe for concurrent use.
func (t *Tesseract) Recognize(png []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	langs := t.Languages
	if len(langs) == 0 {
		langs = []string{DefaultLanguage}
	}
	if err := client.SetLanguage(langs...); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}
	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to recognize text: %w", err)
	}
	return text, nil
}
