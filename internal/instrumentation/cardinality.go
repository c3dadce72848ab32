package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// Label values that can originate from model output or user input are
// reduced to a closed set before they reach a metric.

// knownOperations is the closed set of operation label values.
var knownOperations = map[string]bool{
	"get_unread_emails_summary":   true,
	"get_last_email_summary":      true,
	"get_unread_email_categories": true,
	"check_emails_from_sender":    true,
	"summarize_email":             true,
	"summarize":                   true,
	"categorize":                  true,
	OperationNone:                 true,
}

// OperationLabel maps an operation name to a bounded metric label.
// Names the model invented collapse to "unknown".
func OperationLabel(name string) string {
	if name == "" {
		return OperationNone
	}
	if knownOperations[name] {
		return name
	}
	return StatusUnknown
}

// ExtractUserDomain extracts the domain part from an email address.
//
// Example:
//
//	ExtractUserDomain("jane@example.com")  // "example.com"
//	ExtractUserDomain("invalid")           // "unknown"
func ExtractUserDomain(email string) string {
	if i := strings.LastIndex(email, "<"); i >= 0 {
		email = strings.TrimSuffix(email[i+1:], ">")
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return StatusUnknown
	}
	return strings.ToLower(email[at+1:])
}

// Mail provider operation types.
const (
	OperationList       = "list"
	OperationGet        = "get"
	OperationAttachment = "attachment"
)

// Model operation types.
const (
	ModelOperationComplete = "complete"
	ModelOperationSelect   = "select_function"
	ModelOperationPhrase   = "complete_with_context"
)
