package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Output is the text produced from one staged file.
type Output struct {
	Text string
	// Truncated is set when the extractor shortened Text to its cap.
	Truncated bool
	// Failed is set when Text is a diagnostic rather than file content.
	Failed bool
}

// Extractor converts one staged file into plain text. Implementations never
// return errors; failures are reported through Output.Failed.
type Extractor interface {
	Extract(path string) Output
}

// Func adapts a plain function to the Extractor interface.
type Func func(path string) Output

// Extract calls f(path).
func (f Func) Extract(path string) Output {
	return f(path)
}

// Failure builds the diagnostic output for a file of the given format.
func Failure(format string, cause any) Output {
	return Output{
		Text:   fmt.Sprintf("[ERROR reading %s: %v]", format, cause),
		Failed: true,
	}
}

// run calls fn and converts an error or a panic into a Failure.
func run(format string, fn func() (string, error)) (out Output) {
	defer func() {
		if r := recover(); r != nil {
			out = Failure(format, r)
		}
	}()

	text, err := fn()
	if err != nil {
		return Failure(format, err)
	}
	return Output{Text: text}
}

// Truncate shortens s to at most limit runes. A limit of zero or less means
// no limit.
func Truncate(s string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	i, n := 0, 0
	for i = range s {
		if n == limit {
			break
		}
		n++
	}
	return s[:i], true
}

// capped applies limit to a successful output.
func capped(out Output, limit int) Output {
	if out.Failed {
		return out
	}
	out.Text, out.Truncated = Truncate(out.Text, limit)
	return out
}

// collapse joins the whitespace-separated fields of s with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nonEmpty returns the trimmed, non-empty values of cells.
func nonEmpty(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
