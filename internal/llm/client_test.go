package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves canned chat completion responses in order and keeps the
// decoded request bodies.
type fakeAPI struct {
	mu        sync.Mutex
	responses []string
	status    int
	requests  []map[string]any
	auth      []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	var req map[string]any
	_ = json.Unmarshal(body, &req)
	f.requests = append(f.requests, req)
	f.auth = append(f.auth, r.Header.Get("Authorization"))

	if r.URL.Path != "/chat/completions" {
		http.NotFound(w, r)
		return
	}
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable"}}`))
		return
	}

	resp := f.responses[0]
	f.responses = f.responses[1:]
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(resp))
}

func completion(message string) string {
	return `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"llama-3.1-8b-instant",` +
		`"choices":[{"index":0,"finish_reason":"stop","message":` + message + `}]}`
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL + "/"
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func messages(req map[string]any) []map[string]any {
	raw, _ := req["messages"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, m := range raw {
		out = append(out, m.(map[string]any))
	}
	return out
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(DefaultConfig())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClient_FillsDefaults(t *testing.T) {
	c, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, DefaultBaseURL, c.config.BaseURL)
	assert.Equal(t, int64(500), c.config.MaxTokens)
	assert.Equal(t, int64(1000), c.config.PhrasingMaxTokens)
}

func TestClient_Complete(t *testing.T) {
	api := &fakeAPI{responses: []string{completion(`{"role":"assistant","content":"  Your invoice is due.  "}`)}}
	c := newTestClient(t, api)

	got, err := c.Complete(context.Background(), "summarize this")

	require.NoError(t, err)
	assert.Equal(t, "Your invoice is due.", got)

	require.Len(t, api.requests, 1)
	req := api.requests[0]
	assert.Equal(t, "Bearer test-key", api.auth[0])
	assert.Equal(t, DefaultModel, req["model"])
	assert.InDelta(t, 0.3, req["temperature"], 1e-9)
	assert.EqualValues(t, 500, req["max_tokens"])
	assert.Nil(t, req["tools"])

	msgs := messages(req)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0]["role"])
	assert.Equal(t, SummarySystemPrompt, msgs[0]["content"])
	assert.Equal(t, "user", msgs[1]["role"])
	assert.Equal(t, "summarize this", msgs[1]["content"])
}

func TestClient_SelectFunction_NoCalls(t *testing.T) {
	api := &fakeAPI{responses: []string{completion(`{"role":"assistant","content":"Hello! How can I help?"}`)}}
	c := newTestClient(t, api)

	sel, err := c.SelectFunction(context.Background(), "hello", []FunctionSpec{
		{Name: "get_last_email_summary", Description: "Get the last email"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help?", sel.Content)
	assert.Empty(t, sel.Calls)

	req := api.requests[0]
	assert.Equal(t, "auto", req["tool_choice"])
	assert.InDelta(t, 0.7, req["temperature"], 1e-9)
	tools, ok := req["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "get_last_email_summary", fn["name"])
	assert.Equal(t, "Get the last email", fn["description"])
}

func TestClient_SelectThenPhrase(t *testing.T) {
	api := &fakeAPI{responses: []string{
		completion(`{"role":"assistant","content":null,"tool_calls":[` +
			`{"id":"call_1","type":"function","function":{"name":"check_emails_from_sender","arguments":"{\"sender_query\":\"github\"}"}}]}`),
		completion(`{"role":"assistant","content":"You have 2 emails from GitHub."}`),
	}}
	c := newTestClient(t, api)

	sel, err := c.SelectFunction(context.Background(), "anything from github?", []FunctionSpec{{
		Name:        "check_emails_from_sender",
		Description: "Count unread emails from a sender",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{"sender_query": map[string]any{"type": "string"}},
			"required":   []string{"sender_query"},
		},
	}})
	require.NoError(t, err)
	require.Len(t, sel.Calls, 1)
	assert.Equal(t, FunctionCall{ID: "call_1", Name: "check_emails_from_sender", Arguments: `{"sender_query":"github"}`}, sel.Calls[0])

	got, err := c.CompleteWithContext(context.Background(), sel, []CallResult{
		{Call: sel.Calls[0], Result: map[string]any{"count": 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "You have 2 emails from GitHub.", got)

	require.Len(t, api.requests, 2)
	req := api.requests[1]
	assert.EqualValues(t, 1000, req["max_tokens"])
	assert.Nil(t, req["tools"])

	msgs := messages(req)
	require.Len(t, msgs, 4)
	assert.Equal(t, "assistant", msgs[2]["role"])
	assert.NotNil(t, msgs[2]["tool_calls"])
	assert.Equal(t, "tool", msgs[3]["role"])
	assert.Equal(t, "call_1", msgs[3]["tool_call_id"])
	assert.JSONEq(t, `{"count":2}`, msgs[3]["content"].(string))
}

func TestClient_PhraseAnswersEveryCall(t *testing.T) {
	api := &fakeAPI{responses: []string{
		completion(`{"role":"assistant","content":null,"tool_calls":[` +
			`{"id":"c1","type":"function","function":{"name":"get_unread_emails_summary","arguments":"{}"}},` +
			`{"id":"c2","type":"function","function":{"name":"delete_everything","arguments":"{}"}}]}`),
		completion(`{"role":"assistant","content":"You have 3 unread emails."}`),
	}}
	c := newTestClient(t, api)

	sel, err := c.SelectFunction(context.Background(), "summarize and clean up", []FunctionSpec{{
		Name:        "get_unread_emails_summary",
		Description: "Summarize unread emails",
	}})
	require.NoError(t, err)
	require.Len(t, sel.Calls, 2)

	// only the known operation was executed
	got, err := c.CompleteWithContext(context.Background(), sel, []CallResult{
		{Call: sel.Calls[0], Result: map[string]any{"count": 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "You have 3 unread emails.", got)

	msgs := messages(api.requests[1])
	require.Len(t, msgs, 5)
	assert.Len(t, msgs[2]["tool_calls"], 2)

	assert.Equal(t, "tool", msgs[3]["role"])
	assert.Equal(t, "c1", msgs[3]["tool_call_id"])
	assert.JSONEq(t, `{"count":3}`, msgs[3]["content"].(string))

	assert.Equal(t, "tool", msgs[4]["role"])
	assert.Equal(t, "c2", msgs[4]["tool_call_id"])
	assert.JSONEq(t, unansweredCall, msgs[4]["content"].(string))
}

func TestClient_Errors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, &fakeAPI{status: http.StatusServiceUnavailable})
		_, err := c.Complete(context.Background(), "x")
		assert.Error(t, err)
	})

	t.Run("no retries", func(t *testing.T) {
		api := &fakeAPI{status: http.StatusInternalServerError}
		c := newTestClient(t, api)
		_, _ = c.Complete(context.Background(), "x")
		assert.Len(t, api.requests, 1)
	})

	t.Run("empty choices", func(t *testing.T) {
		api := &fakeAPI{responses: []string{`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`}}
		c := newTestClient(t, api)
		_, err := c.Complete(context.Background(), "x")
		assert.True(t, errors.Is(err, ErrEmptyResponse))
	})

	t.Run("nil selection", func(t *testing.T) {
		c := newTestClient(t, &fakeAPI{})
		_, err := c.CompleteWithContext(context.Background(), nil, nil)
		assert.Error(t, err)
	})
}
