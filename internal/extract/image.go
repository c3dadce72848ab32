package extract

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // register decoder
	"image/png"
	"os"
	"strings"
)

// NoTextDetected is returned when recognition yields only whitespace.
const NoTextDetected = "[No text detected in image]"

// Recognizer runs optical character recognition over a PNG image.
type Recognizer interface {
	Recognize(png []byte) (string, error)
}

// Image extracts text from .png and .jpg files.
type Image struct {
	Recognizer Recognizer
	// Limit caps the returned text in runes.
	Limit int
}

// NewImage returns an Image extractor capped at 1000 runes.
func NewImage(r Recognizer) *Image {
	return &Image{Recognizer: r, Limit: 1000}
}

var errNoRecognizer = errors.New("no text recognizer configured")

// Extract flattens the image onto an opaque white canvas, re-encodes it as
// PNG and passes it to the Recognizer.
func (e *Image) Extract(path string) Output {
	out := run("image", func() (string, error) {
		if e.Recognizer == nil {
			return "", errNoRecognizer
		}

		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()

		src, _, err := image.Decode(f)
		if err != nil {
			return "", err
		}

		buf, err := flatten(src)
		if err != nil {
			return "", err
		}

		text, err := e.Recognizer.Recognize(buf)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return NoTextDetected, nil
		}
		return text, nil
	})
	return capped(out, e.Limit)
}

// flatten draws src over white so transparent and paletted images reach the
// recognizer as plain RGB.
func flatten(src image.Image) ([]byte, error) {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
