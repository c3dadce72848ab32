package prompt

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	invisibleSpace = strings.NewReplacer("\ufeff", " ", "\u2007", " ")
	boilerplate    = regexp.MustCompile(`(?i)tap to apply|click here|unsubscribe`)
)

// CleanBody normalizes a message body before it is sent to the model. It
// turns invisible spacing into spaces, collapses whitespace and drops common
// call-to-action boilerplate.
func CleanBody(text string) string {
	text = invisibleSpace.Replace(text)
	text = strings.Join(strings.Fields(text), " ")
	text = boilerplate.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// truncate shortens s to limit runes and appends marker when it does.
func truncate(s string, limit int, marker string) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + marker
		}
		n++
	}
	return s
}
