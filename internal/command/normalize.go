package command

import (
	"regexp"
	"strings"
)

var (
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	queryNoise  = regexp.MustCompile(`[^\p{L}\p{N}_\s@.]`)
)

// Normalize lowercases text, turns punctuation into spaces and collapses
// whitespace.
func Normalize(text string) string {
	text = punctuation.ReplaceAllString(strings.ToLower(text), " ")
	return strings.Join(strings.Fields(text), " ")
}

// SenderQuery reports whether text asks for mail from a sender and returns
// the sender part. The query may be empty when text names no sender.
func SenderQuery(text string) (string, bool) {
	norm := Normalize(text)
	if !strings.Contains(norm, "email from") && !strings.Contains(norm, "emails from") {
		return "", false
	}

	raw := strings.ToLower(text)
	i := strings.LastIndex(raw, "from")
	if i < 0 {
		return "", true
	}
	query := queryNoise.ReplaceAllString(raw[i+len("from"):], "")
	return strings.TrimSpace(query), true
}
