package command

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercased", "Show UNREAD Emails", "show unread emails"},
		{"punctuation becomes space", "what's my last email?!", "what s my last email"},
		{"whitespace collapsed", "  emails \t from\n\ngithub  ", "emails from github"},
		{"underscore kept", "snake_case", "snake_case"},
		{"unicode letters kept", "Grüße, André", "grüße andré"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSenderQuery(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantQuery string
		wantOK    bool
	}{
		{"plural", "Do I have emails from GitHub?", "github", true},
		{"singular", "any email from linkedin", "linkedin", true},
		{"address kept", "emails from noreply@github.com!", "noreply@github.com", true},
		{"last from wins", "emails from work from Alice", "alice", true},
		{"punctuation in pattern", "Any e-mails? Emails, from: Google", "google", true},
		{"empty query", "show me emails from", "", true},
		{"no pattern", "summarize my inbox", "", false},
		{"from without email", "messages from bob", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, ok := SenderQuery(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("SenderQuery(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if query != tt.wantQuery {
				t.Errorf("SenderQuery(%q) = %q, want %q", tt.in, query, tt.wantQuery)
			}
		})
	}
}

func TestProperty_Normalize(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("normalizing is idempotent", prop.ForAll(
		func(s string) bool {
			once := Normalize(s)
			return Normalize(once) == once
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
