package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanBody(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whitespace collapsed", "  Hello\n\n\tworld  ", "Hello world"},
		{"invisible spaces", "a\ufeffb\u2007c", "a b c"},
		{"boilerplate removed", "New role. Tap to apply now or CLICK HERE. Unsubscribe", "New role.  now or ."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanBody(tt.in))
		})
	}
}

func TestBuildSummary(t *testing.T) {
	got := BuildSummary(SummaryInput{
		Sender:      "Jane <jane@example.com>",
		Subject:     "Invoice",
		Body:        "Please  pay\nthe invoice.",
		Attachments: "\n\n=== ATTACHMENTS ===\n\n--- Attachment 1: inv.pdf (PDF) ---\nTotal 42",
	}, DefaultBudget())

	assert.Contains(t, got, "Sender: Jane <jane@example.com>\nSubject: Invoice")
	assert.Contains(t, got, "Body:\nPlease pay the invoice.\n\n=== ATTACHMENTS ===")
	assert.Contains(t, got, "No greetings")
	assert.Contains(t, got, "2-3 concise")
	assert.NotContains(t, got, BodyTruncated)
	assert.NotContains(t, got, AttachmentsTruncated)
}

func TestBuildSummary_Budgets(t *testing.T) {
	body := strings.Repeat("b", 50)
	attachments := strings.Repeat("a", 50)

	got := BuildSummary(SummaryInput{Sender: "s", Subject: "x", Body: body, Attachments: attachments},
		Budget{Body: 10, Attachments: 5})

	assert.Contains(t, got, strings.Repeat("b", 10)+BodyTruncated+strings.Repeat("a", 5)+AttachmentsTruncated)
	assert.NotContains(t, got, strings.Repeat("b", 11))
}

func TestBuildSummary_BudgetAppliesAfterCleaning(t *testing.T) {
	body := strings.Repeat("word    ", 3)

	got := BuildSummary(SummaryInput{Body: body}, Budget{Body: 14, Attachments: 10})

	assert.True(t, strings.HasSuffix(got, "Body:\nword word word"))
}

func TestBuildCategory(t *testing.T) {
	got := BuildCategory("news@shop.example", "Sale", strings.Repeat("x", 600), DefaultBudget())

	assert.Contains(t, got, "Primary, Promotions, Social, Spam, Updates")
	assert.Contains(t, got, "Sender: news@shop.example\nSubject: Sale")
	assert.Contains(t, got, "Body: "+strings.Repeat("x", 500)+"...\n")
	assert.NotContains(t, got, strings.Repeat("x", 501))
	assert.True(t, strings.HasSuffix(got, "Respond with ONLY the category name."))
}

func TestBuildCategory_ShortBody(t *testing.T) {
	got := BuildCategory("a@b.c", "", "hello", DefaultBudget())
	assert.Contains(t, got, "Body: hello\n")
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		answer string
		want   Category
	}{
		{"Primary", Primary},
		{"Promotions", Promotions},
		{" Social\n", Social},
		{"Spam", Spam},
		{"Updates", Updates},
		{"updates", Primary},
		{"Promotions.", Primary},
		{"Category: Spam", Primary},
		{"", Primary},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.answer))
		})
	}
}
