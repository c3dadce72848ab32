package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/teemow/inboxai/internal/inbox"
	"github.com/teemow/inboxai/internal/llm"
)

// Name identifies a catalog operation.
type Name string

// Catalog operations.
const (
	UnreadSummary    Name = "get_unread_emails_summary"
	LastSummary      Name = "get_last_email_summary"
	UnreadCategories Name = "get_unread_email_categories"
	FromSender       Name = "check_emails_from_sender"
)

// SenderQueryArg is the argument name of FromSender.
const SenderQueryArg = "sender_query"

// Replies produced by the operations themselves.
const (
	NoUnreadReply  = "You have no unread emails."
	AskSenderReply = "Which sender should I look for?"
	FallbackReply  = "I'm here to help with your emails!"
	FailureReply   = "Sorry, something went wrong while checking your inbox."
)

// Outcome is the answer to one instruction.
type Outcome struct {
	Reply string         `json:"reply"`
	Data  map[string]any `json:"data,omitempty"`
}

// Operations is the inbox surface the catalog runs against.
type Operations interface {
	Summaries(ctx context.Context) ([]inbox.Summary, error)
	Last(ctx context.Context) (*inbox.Summary, error)
	Categories(ctx context.Context) ([]inbox.Categorized, error)
	FromSender(ctx context.Context, query string) ([]inbox.Header, error)
}

// RunFunc executes an operation. An Outcome with an empty Reply carries only
// data and is phrased by the model.
type RunFunc func(ctx context.Context, args map[string]any) (Outcome, error)

// Entry is one catalog operation.
type Entry struct {
	Name        Name
	Description string
	Parameters  map[string]any
	Run         RunFunc
}

// Registry maps operation names to entries.
type Registry struct {
	entries []Entry
	byName  map[Name]Entry
}

// Catalog returns the fixed operation registry bound to ops.
func Catalog(ops Operations) *Registry {
	noParams := func() map[string]any {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		}
	}

	entries := []Entry{
		{
			Name:        UnreadSummary,
			Description: "Get summaries of all unread emails in the inbox",
			Parameters:  noParams(),
			Run: func(ctx context.Context, _ map[string]any) (Outcome, error) {
				return unreadSummary(ctx, ops)
			},
		},
		{
			Name:        LastSummary,
			Description: "Get summary of the most recent/last unread email",
			Parameters:  noParams(),
			Run: func(ctx context.Context, _ map[string]any) (Outcome, error) {
				return lastSummary(ctx, ops)
			},
		},
		{
			Name:        UnreadCategories,
			Description: "Get categories for all unread emails",
			Parameters:  noParams(),
			Run: func(ctx context.Context, _ map[string]any) (Outcome, error) {
				return unreadCategories(ctx, ops)
			},
		},
		{
			Name:        FromSender,
			Description: "Check how many unread emails are from a specific sender (e.g., GitHub, Google, LinkedIn)",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					SenderQueryArg: map[string]any{
						"type":        "string",
						"description": "Sender name or keyword to search for",
					},
				},
				"required": []string{SenderQueryArg},
			},
			Run: func(ctx context.Context, args map[string]any) (Outcome, error) {
				query, _ := args[SenderQueryArg].(string)
				return fromSender(ctx, ops, query)
			},
		},
	}

	r := &Registry{entries: entries, byName: make(map[Name]Entry, len(entries))}
	for _, e := range entries {
		r.byName[e.Name] = e
	}
	return r
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.byName[Name(name)]
	return e, ok
}

// Entries returns the operations in catalog order.
func (r *Registry) Entries() []Entry {
	return r.entries
}

// Specs describes the operations for model function selection.
func (r *Registry) Specs() []llm.FunctionSpec {
	specs := make([]llm.FunctionSpec, 0, len(r.entries))
	for _, e := range r.entries {
		specs = append(specs, llm.FunctionSpec{
			Name:        string(e.Name),
			Description: e.Description,
			Parameters:  e.Parameters,
		})
	}
	return specs
}

func unreadSummary(ctx context.Context, ops Operations) (Outcome, error) {
	summaries, err := ops.Summaries(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if len(summaries) == 0 {
		return Outcome{Reply: NoUnreadReply, Data: map[string]any{"count": 0}}, nil
	}
	return Outcome{Data: map[string]any{
		"count":  len(summaries),
		"emails": summaries,
	}}, nil
}

func lastSummary(ctx context.Context, ops Operations) (Outcome, error) {
	sum, err := ops.Last(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if sum == nil {
		return Outcome{Reply: NoUnreadReply}, nil
	}
	return Outcome{Data: map[string]any{"email": sum}}, nil
}

func unreadCategories(ctx context.Context, ops Operations) (Outcome, error) {
	items, err := ops.Categories(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if len(items) == 0 {
		return Outcome{Reply: NoUnreadReply, Data: map[string]any{"count": 0}}, nil
	}

	counts := make(map[string]int)
	for _, it := range items {
		counts[string(it.Category)]++
	}
	return Outcome{Data: map[string]any{
		"count":      len(items),
		"categories": counts,
		"emails":     items,
	}}, nil
}

func fromSender(ctx context.Context, ops Operations, query string) (Outcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Outcome{Reply: AskSenderReply}, nil
	}

	matches, err := ops.FromSender(ctx, query)
	if err != nil {
		return Outcome{}, err
	}

	data := map[string]any{
		SenderQueryArg: query,
		"count":        len(matches),
		"emails":       matches,
	}
	switch len(matches) {
	case 0:
		return Outcome{Reply: fmt.Sprintf("You have no unread emails from %s.", query), Data: data}, nil
	case 1:
		return Outcome{Reply: fmt.Sprintf("You have 1 unread email from %s.", query), Data: data}, nil
	default:
		return Outcome{Reply: fmt.Sprintf("You have %d unread emails from %s.", len(matches), query), Data: data}, nil
	}
}
