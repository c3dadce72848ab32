// Package display provides terminal formatting for inboxai output.
package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/teemow/inboxai/internal/command"
	"github.com/teemow/inboxai/internal/inbox"
	"github.com/teemow/inboxai/internal/prompt"
)

var (
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))

	PrimaryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb"))
	UpdatesStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	SocialStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7c3aed"))
	PromotionsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	SpamStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
)

// maxSummaryLines caps the summary lines printed per message.
const maxSummaryLines = 6

// CategoryStyle returns the style for a category.
func CategoryStyle(c prompt.Category) lipgloss.Style {
	switch c {
	case prompt.Primary:
		return PrimaryStyle
	case prompt.Updates:
		return UpdatesStyle
	case prompt.Social:
		return SocialStyle
	case prompt.Promotions:
		return PromotionsStyle
	case prompt.Spam:
		return SpamStyle
	default:
		return Dim
	}
}

// CategoryLabel returns a padded, styled category name.
func CategoryLabel(c prompt.Category) string {
	return CategoryStyle(c).Render(fmt.Sprintf("%-10s", string(c)))
}

// Truncate shortens a string to maxLen runes, adding an ellipsis if needed.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// SuccessMsg writes a green checkmark and message.
func SuccessMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Success.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// ErrorMsg writes a red cross and message.
func ErrorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, ErrStyle.Render("✗")+" "+fmt.Sprintf(format, args...))
}

// Header writes a section header.
func Header(w io.Writer, title string) {
	fmt.Fprintln(w, Bold.Render(title))
}

// Summary writes one message summary in tree style.
// connector is one of "┌─", "├─", "└─".
func Summary(w io.Writer, connector string, s inbox.Summary) {
	from := Bold.Render(Truncate(s.Sender, 60))
	subject := Dim.Render(Truncate(s.Subject, 60))
	fmt.Fprintf(w, "  %s %s  ·  %s\n", Muted.Render(connector), from, subject)

	prefix := "  │  "
	if connector == "└─" {
		prefix = "     "
	}

	if s.Error != "" {
		fmt.Fprintf(w, "%s%s\n", Muted.Render(prefix), ErrStyle.Render(s.Error))
		return
	}

	lines := strings.Split(strings.TrimSpace(s.Summary), "\n")
	for i, line := range lines {
		if i >= maxSummaryLines {
			fmt.Fprintf(w, "%s%s\n", Muted.Render(prefix), Dim.Render(fmt.Sprintf("... (%d more lines)", len(lines)-maxSummaryLines)))
			break
		}
		fmt.Fprintf(w, "%s%s\n", Muted.Render(prefix), Truncate(strings.TrimSpace(line), 100))
	}
	if s.Attachments > 0 {
		fmt.Fprintf(w, "%s%s\n", Muted.Render(prefix), Dim.Render(fmt.Sprintf("%d attachment(s)", s.Attachments)))
	}
}

// Summaries writes every summary under a header.
func Summaries(w io.Writer, summaries []inbox.Summary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, Muted.Render(command.NoUnreadReply))
		return
	}
	Header(w, fmt.Sprintf("%d unread email(s)", len(summaries)))
	for i, s := range summaries {
		Summary(w, connector(i, len(summaries)), s)
	}
}

// Categories writes per-category counts followed by one line per message.
func Categories(w io.Writer, items []inbox.Categorized) {
	if len(items) == 0 {
		fmt.Fprintln(w, Muted.Render(command.NoUnreadReply))
		return
	}

	counts := make(map[prompt.Category]int)
	for _, it := range items {
		counts[it.Category]++
	}
	names := make([]prompt.Category, 0, len(counts))
	for c := range counts {
		names = append(names, c)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	Header(w, fmt.Sprintf("%d unread email(s)", len(items)))
	for _, c := range names {
		fmt.Fprintf(w, "  %s %d\n", CategoryLabel(c), counts[c])
	}
	fmt.Fprintln(w)
	for _, it := range items {
		fmt.Fprintf(w, "  %s %s  ·  %s\n", CategoryLabel(it.Category),
			Bold.Render(Truncate(it.Sender, 40)), Dim.Render(Truncate(it.Subject, 60)))
	}
}

// Reply writes a dispatcher outcome.
func Reply(w io.Writer, out command.Outcome) {
	fmt.Fprintln(w, out.Reply)
}

func connector(i, n int) string {
	switch {
	case n == 1 || i == n-1:
		return "└─"
	case i == 0:
		return "┌─"
	default:
		return "├─"
	}
}
