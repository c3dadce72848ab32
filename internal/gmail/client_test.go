package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/inboxai/internal/message"
)

// fakeGmail serves the subset of the Gmail REST API the client uses.
type fakeGmail struct {
	messages    map[string]*gmail.Message
	attachments map[string]*gmail.MessagePartBody
	unread      []string
	requests    []string
}

func (f *fakeGmail) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests = append(f.requests, r.URL.Path+"?"+r.URL.RawQuery)
	path := strings.TrimPrefix(r.URL.Path, "/gmail/v1/users/me/")
	parts := strings.Split(path, "/")

	switch {
	case path == "messages":
		var list []*gmail.Message
		for _, id := range f.unread {
			list = append(list, &gmail.Message{Id: id})
		}
		writeJSON(w, &gmail.ListMessagesResponse{Messages: list})
	case len(parts) == 2 && parts[0] == "messages":
		msg, ok := f.messages[parts[1]]
		if !ok {
			http.Error(w, `{"error":{"code":404,"message":"Not Found"}}`, http.StatusNotFound)
			return
		}
		writeJSON(w, msg)
	case len(parts) == 4 && parts[2] == "attachments":
		body, ok := f.attachments[parts[3]]
		if !ok {
			http.Error(w, `{"error":{"code":404,"message":"Not Found"}}`, http.StatusNotFound)
			return
		}
		writeJSON(w, body)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, fake *fakeGmail) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), WithHTTPClient(srv.Client()), WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return c
}

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestNewClient_RequiresHTTPClient(t *testing.T) {
	_, err := NewClient(context.Background())
	assert.Error(t, err)
}

func TestClient_ListUnread(t *testing.T) {
	fake := &fakeGmail{unread: []string{"m3", "m2", "m1"}}
	c := newTestClient(t, fake)

	ids, err := c.ListUnread(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m2"}, ids)

	require.Len(t, fake.requests, 1)
	assert.Contains(t, fake.requests[0], "labelIds=UNREAD")
	assert.Contains(t, fake.requests[0], "maxResults=2")

	_, err = c.ListUnread(context.Background(), 0)
	require.NoError(t, err)
	assert.Contains(t, fake.requests[1], "maxResults=10")
}

func TestClient_GetMessage(t *testing.T) {
	fake := &fakeGmail{messages: map[string]*gmail.Message{
		"m1": {
			Id: "m1",
			Payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Headers: []*gmail.MessagePartHeader{
					{Name: "From", Value: "GitHub <noreply@github.com>"},
					{Name: "Subject", Value: "[repo] New issue"},
				},
				Parts: []*gmail.MessagePart{
					{
						MimeType: "multipart/alternative",
						Parts: []*gmail.MessagePart{
							{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: b64("<p>html body</p>")}},
							{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("plain body")}},
						},
					},
					{
						MimeType: "application/pdf",
						Filename: "report.pdf",
						Body:     &gmail.MessagePartBody{AttachmentId: "att-1", Size: 1024},
					},
				},
			},
		},
	}}
	c := newTestClient(t, fake)

	env, err := c.GetMessage(context.Background(), "m1")
	require.NoError(t, err)

	assert.Equal(t, "m1", env.ID)
	assert.Equal(t, "GitHub <noreply@github.com>", env.Sender())
	assert.Equal(t, "[repo] New issue", env.Subject())
	assert.Equal(t, "plain body", message.ExtractBody(env.Root))
	assert.Equal(t, []message.Descriptor{{Filename: "report.pdf", Ref: "att-1"}}, message.ExtractAttachments(env.Root))
	assert.Contains(t, fake.requests[0], "format=full")

	_, err = c.GetMessage(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get message missing")
}

func TestClient_GetAttachment(t *testing.T) {
	fake := &fakeGmail{attachments: map[string]*gmail.MessagePartBody{
		"att-1": {Data: b64("a,b\n1,2\n"), Size: 8},
		"huge":  {Data: b64("x"), Size: MaxAttachmentSize + 1},
		"bad":   {Data: "!!!not base64!!!", Size: 3},
	}}
	c := newTestClient(t, fake)

	data, err := c.GetAttachment(context.Background(), "m1", "att-1")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
	assert.Contains(t, fake.requests[0], "/gmail/v1/users/me/messages/m1/attachments/att-1?")

	tests := []struct {
		name      string
		messageID string
		ref       string
		wantErr   string
	}{
		{"too large", "m1", "huge", "exceeds maximum size"},
		{"undecodable", "m1", "bad", "failed to decode attachment data"},
		{"unknown", "m1", "nope", "failed to get attachment nope"},
		{"no message id", "", "att-1", "messageID is required"},
		{"no reference", "m1", "", "attachment reference is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.GetAttachment(context.Background(), tt.messageID, tt.ref)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
