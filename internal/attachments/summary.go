package attachments

import (
	"fmt"
	"strings"
)

// TruncatedNotice follows an attachment whose text was shortened.
const TruncatedNotice = "[Content truncated for brevity]"

// Summarize renders extracted attachments as one block for a prompt.
// Unreadable attachments are still listed so the reader knows they exist.
func Summarize(items []Extracted) string {
	if len(items) == 0 {
		return ""
	}

	parts := []string{"\n\n=== ATTACHMENTS ==="}
	for i, item := range items {
		parts = append(parts, fmt.Sprintf("\n--- Attachment %d: %s (%s) ---", i+1, item.Filename, item.Label))

		switch item.Kind {
		case KindError, KindUnsupported:
			parts = append(parts, fmt.Sprintf("[Could not extract content: %s]", item.Text))
		default:
			parts = append(parts, item.Text)
			if item.Truncated {
				parts = append(parts, TruncatedNotice)
			}
		}
	}
	return strings.Join(parts, "\n")
}
