package prompt

import (
	"fmt"
	"strings"
)

const (
	BodyTruncated        = "... [body truncated]"
	AttachmentsTruncated = "... [attachments truncated]"
)

// Budget bounds the text interpolated into prompts, in runes.
type Budget struct {
	Body         int
	Attachments  int
	CategoryBody int
}

// DefaultBudget returns the budgets used when configuration sets none.
func DefaultBudget() Budget {
	return Budget{
		Body:         2000,
		Attachments:  1500,
		CategoryBody: 500,
	}
}

// SummaryInput is the message content a summary prompt is built from.
type SummaryInput struct {
	Sender  string
	Subject string
	Body    string
	// Attachments is the block produced by attachments.Summarize.
	Attachments string
}

const summaryTemplate = `Explain this email clearly in natural language.

Rules:
- No greetings. No opinions.
- Do not talk about summarizing, reading or the structure of the email
- Do not copy lines from the email
- Explain what the email is about, who sent it and what is expected from the reader, if anything
- If there are attachments, say what they contain
- Use 2-3 concise, natural sentences

Sender: %s
Subject: %s

Body:
%s%s`

// BuildSummary returns the prompt asking the model for a short summary.
func BuildSummary(in SummaryInput, b Budget) string {
	body := truncate(CleanBody(in.Body), b.Body, BodyTruncated)
	attachments := truncate(in.Attachments, b.Attachments, AttachmentsTruncated)
	return fmt.Sprintf(summaryTemplate, in.Sender, in.Subject, body, attachments)
}

// Category is one of the fixed mailbox categories.
type Category string

const (
	Primary    Category = "Primary"
	Promotions Category = "Promotions"
	Social     Category = "Social"
	Spam       Category = "Spam"
	Updates    Category = "Updates"
)

// Categories lists the allowed categories in prompt order.
var Categories = []Category{Primary, Promotions, Social, Spam, Updates}

const categoryTemplate = `Categorize the email into ONE category:
%s

Sender: %s
Subject: %s
Body: %s

Respond with ONLY the category name.`

// BuildCategory returns the single-label categorization prompt.
func BuildCategory(sender, subject, body string, b Budget) string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return fmt.Sprintf(categoryTemplate, strings.Join(names, ", "), sender, subject,
		truncate(body, b.CategoryBody, "..."))
}

// NormalizeCategory maps a model answer onto a Category. Anything outside the
// fixed set is Primary.
func NormalizeCategory(answer string) Category {
	answer = strings.TrimSpace(answer)
	for _, c := range Categories {
		if answer == string(c) {
			return c
		}
	}
	return Primary
}
