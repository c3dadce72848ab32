package inbox

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxai/internal/attachments"
	"github.com/teemow/inboxai/internal/extract"
	"github.com/teemow/inboxai/internal/message"
	"github.com/teemow/inboxai/internal/prompt"
)

type fakeProvider struct {
	ids         []string
	messages    map[string]*message.Envelope
	attachments map[string][]byte
	listErr     error
	lastLimit   int
}

func (f *fakeProvider) ListUnread(_ context.Context, limit int) ([]string, error) {
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit < len(f.ids) {
		return f.ids[:limit], nil
	}
	return f.ids, nil
}

func (f *fakeProvider) GetMessage(_ context.Context, id string) (*message.Envelope, error) {
	env, ok := f.messages[id]
	if !ok {
		return nil, errors.New("message not found")
	}
	return env, nil
}

func (f *fakeProvider) GetAttachment(_ context.Context, _, ref string) ([]byte, error) {
	b, ok := f.attachments[ref]
	if !ok {
		return nil, errors.New("attachment not found")
	}
	return b, nil
}

type fakeModel struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (m *fakeModel) Complete(_ context.Context, p string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, p)
	m.mu.Unlock()
	if m.reply == nil {
		return "summary", nil
	}
	return m.reply(p)
}

func envelope(id, from, subject string, root message.Part) *message.Envelope {
	return &message.Envelope{
		ID:      id,
		Headers: []message.Header{{Name: "From", Value: from}, {Name: "Subject", Value: subject}},
		Root:    root,
	}
}

func plain(body string) *message.Node {
	return &message.Node{Type: "text/plain", Body: []byte(body)}
}

func withAttachment(body, name, ref string) *message.Node {
	return &message.Node{Type: "multipart/mixed", Parts: []*message.Node{
		plain(body),
		{Type: "application/octet-stream", Name: name, Ref: ref},
	}}
}

// csvPipeline reads staged CSV files verbatim so tests can see staged content.
func csvPipeline(seen *[]string) *attachments.Pipeline {
	return attachments.New(map[attachments.Format]extract.Extractor{
		attachments.FormatCSV: extract.Func(func(path string) extract.Output {
			*seen = append(*seen, path)
			b, err := os.ReadFile(path)
			if err != nil {
				return extract.Failure("CSV", err)
			}
			return extract.Output{Text: string(b)}
		}),
	})
}

func TestService_SummarizeMessage(t *testing.T) {
	var seen []string
	root := t.TempDir()
	provider := &fakeProvider{
		messages: map[string]*message.Envelope{
			"m1": envelope("m1", "alice@example.com", "Q3 numbers", withAttachment("See attached.", "q3.csv", "a1")),
		},
		attachments: map[string][]byte{"a1": []byte("region,total\nnorth,10")},
	}
	model := &fakeModel{}
	svc := New(provider, model, csvPipeline(&seen), WithScratchRoot(root))

	sum, err := svc.SummarizeMessage(context.Background(), "m1")
	require.NoError(t, err)

	assert.Equal(t, Summary{
		ID: "m1", Sender: "alice@example.com", Subject: "Q3 numbers", Summary: "summary", Attachments: 1,
	}, sum)

	require.Len(t, model.prompts, 1)
	p := model.prompts[0]
	assert.Contains(t, p, "Sender: alice@example.com")
	assert.Contains(t, p, "See attached.")
	assert.Contains(t, p, "=== ATTACHMENTS ===")
	assert.Contains(t, p, "--- Attachment 1: q3.csv (CSV File) ---")
	assert.Contains(t, p, "north,10")

	// staged files and their directory are gone
	require.Len(t, seen, 1)
	_, err = os.Stat(seen[0])
	assert.True(t, os.IsNotExist(err))
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_SummarizeMessage_NoContent(t *testing.T) {
	provider := &fakeProvider{
		messages: map[string]*message.Envelope{
			"m1": envelope("m1", "a@b.c", "empty", plain("   ")),
			// attachment that cannot be fetched
			"m2": envelope("m2", "a@b.c", "lost", withAttachment("", "x.csv", "missing")),
		},
	}
	model := &fakeModel{}
	svc := New(provider, model, attachments.New(nil), WithScratchRoot(t.TempDir()))

	for _, id := range []string{"m1", "m2"} {
		sum, err := svc.SummarizeMessage(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, NoContent, sum.Summary)
	}
	assert.Empty(t, model.prompts)
}

func TestService_SummarizeMessage_ModelError(t *testing.T) {
	var seen []string
	root := t.TempDir()
	provider := &fakeProvider{
		messages:    map[string]*message.Envelope{"m1": envelope("m1", "a@b.c", "s", withAttachment("hi", "d.csv", "a1"))},
		attachments: map[string][]byte{"a1": []byte("x")},
	}
	model := &fakeModel{reply: func(string) (string, error) { return "", errors.New("rate limited") }}
	svc := New(provider, model, csvPipeline(&seen), WithScratchRoot(root))

	_, err := svc.SummarizeMessage(context.Background(), "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory should be removed on failure")
}

func TestService_Summaries(t *testing.T) {
	provider := &fakeProvider{
		ids: []string{"m1", "gone", "m2"},
		messages: map[string]*message.Envelope{
			"m1": envelope("m1", "a@b.c", "one", plain("first")),
			"m2": envelope("m2", "d@e.f", "two", plain("second")),
		},
	}
	model := &fakeModel{reply: func(p string) (string, error) {
		if strings.Contains(p, "first") {
			return "about first", nil
		}
		return "about second", nil
	}}
	svc := New(provider, model, attachments.New(nil), WithUnreadLimit(5))

	got, err := svc.Summaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, provider.lastLimit)

	require.Len(t, got, 3)
	assert.Equal(t, "about first", got[0].Summary)
	assert.Equal(t, "gone", got[1].ID)
	assert.Equal(t, "Error processing email: message not found", got[1].Summary)
	assert.Equal(t, "message not found", got[1].Error)
	assert.Equal(t, "about second", got[2].Summary)
}

func TestService_Summaries_ListError(t *testing.T) {
	svc := New(&fakeProvider{listErr: errors.New("unauthorized")}, &fakeModel{}, attachments.New(nil))

	_, err := svc.Summaries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestService_Last(t *testing.T) {
	provider := &fakeProvider{
		ids: []string{"m1", "m2"},
		messages: map[string]*message.Envelope{
			"m1": envelope("m1", "a@b.c", "newest", plain("hello")),
		},
	}
	svc := New(provider, &fakeModel{}, attachments.New(nil))

	sum, err := svc.Last(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, "newest", sum.Subject)
	assert.Equal(t, 1, provider.lastLimit)

	empty := New(&fakeProvider{}, &fakeModel{}, attachments.New(nil))
	sum, err = empty.Last(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sum)
}

func TestService_UnreadCount(t *testing.T) {
	svc := New(&fakeProvider{ids: []string{"a", "b", "c"}}, &fakeModel{}, attachments.New(nil), WithUnreadLimit(2))

	n, err := svc.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestService_Categories(t *testing.T) {
	provider := &fakeProvider{
		ids: []string{"m1", "m2", "m3", "gone"},
		messages: map[string]*message.Envelope{
			"m1": envelope("m1", "shop@example.com", "50% off", plain("sale")),
			"m2": envelope("m2", "friend@example.com", "dinner", plain("tonight?")),
			"m3": envelope("m3", "x@example.com", "broken", plain("boom")),
		},
	}
	model := &fakeModel{reply: func(p string) (string, error) {
		switch {
		case strings.Contains(p, "sale"):
			return " Promotions \n", nil
		case strings.Contains(p, "boom"):
			return "", errors.New("model down")
		default:
			return "Friends", nil
		}
	}}
	svc := New(provider, model, attachments.New(nil))

	got, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, prompt.Promotions, got[0].Category)
	assert.Empty(t, got[0].Error)
	assert.Equal(t, prompt.Primary, got[1].Category, "unknown answers fall back to primary")
	assert.Equal(t, prompt.Primary, got[2].Category)
	assert.Equal(t, "model down", got[2].Error)
	assert.Equal(t, prompt.Primary, got[3].Category)
	assert.NotEmpty(t, got[3].Error)
}

func TestService_FromSender(t *testing.T) {
	provider := &fakeProvider{
		ids: []string{"m1", "m2", "gone", "m3"},
		messages: map[string]*message.Envelope{
			"m1": envelope("m1", "Amazon <orders@amazon.com>", "shipped", plain("x")),
			"m2": envelope("m2", "bob@example.com", "hi", plain("x")),
			"m3": envelope("m3", "AMAZON Prime <prime@amazon.com>", "renewal", plain("x")),
		},
	}
	svc := New(provider, &fakeModel{}, attachments.New(nil))

	got, err := svc.FromSender(context.Background(), "  amazon ")
	require.NoError(t, err)
	assert.Equal(t, []Header{
		{ID: "m1", Sender: "Amazon <orders@amazon.com>", Subject: "shipped"},
		{ID: "m3", Sender: "AMAZON Prime <prime@amazon.com>", Subject: "renewal"},
	}, got)

	none, err := svc.FromSender(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	blank, err := svc.FromSender(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, blank, "a blank query must not match every sender")
}

func TestService_Unread(t *testing.T) {
	provider := &fakeProvider{
		ids: []string{"m1", "gone", "m2"},
		messages: map[string]*message.Envelope{
			"m1": envelope("m1", "a@example.com", "one", plain("x")),
			"m2": envelope("m2", "b@example.com", "", plain("x")),
		},
	}
	svc := New(provider, &fakeModel{}, attachments.New(nil))

	got, err := svc.Unread(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Header{
		{ID: "m1", Sender: "a@example.com", Subject: "one"},
		{ID: "m2", Sender: "b@example.com", Subject: message.NoSubject},
	}, got)

	provider.listErr = errors.New("quota exceeded")
	_, err = svc.Unread(context.Background())
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestService_SummarizeText(t *testing.T) {
	model := &fakeModel{}
	svc := New(&fakeProvider{}, model, attachments.New(nil))

	got, err := svc.SummarizeText(context.Background(), "", "", "  \n ")
	require.NoError(t, err)
	assert.Equal(t, NoContent, got)
	assert.Empty(t, model.prompts)

	got, err = svc.SummarizeText(context.Background(), "", "", "Meeting moved to 3pm")
	require.NoError(t, err)
	assert.Equal(t, "summary", got)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Sender: "+message.UnknownSender)
	assert.Contains(t, model.prompts[0], "Subject: "+message.NoSubject)
}
