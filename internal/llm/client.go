package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/logging"
)

var (
	// ErrNotConfigured indicates that no API key was provided.
	ErrNotConfigured = errors.New("language model not configured")
	// ErrEmptyResponse indicates a completion without choices.
	ErrEmptyResponse = errors.New("language model returned no choices")
)

const (
	// SummarySystemPrompt frames every Complete call.
	SummarySystemPrompt = "You are an expert email summarizer. Summarize emails concisely in 2-3 sentences, " +
		"mentioning key points from both the email body and any attachments."

	// CommandSystemPrompt frames function selection.
	CommandSystemPrompt = `You are InboxAI, a friendly and helpful email assistant.

When users greet you, respond warmly and naturally.
When users ask about their emails, use the appropriate function to help them.
Keep responses conversational and natural.

- "what's my last email?" -> get_last_email_summary
- "show unread emails" or "summarize my inbox" -> get_unread_emails_summary
- questions about categories, labels or types of emails -> get_unread_email_categories
- questions about emails from a specific sender (GitHub, Google, LinkedIn, "from X") -> check_emails_from_sender with the sender name`
)

// FunctionSpec describes one operation the model may select.
type FunctionSpec struct {
	Name        string
	Description string
	// Parameters is a JSON schema object. Nil means no parameters.
	Parameters map[string]any
}

// FunctionCall is one operation selected by the model.
type FunctionCall struct {
	ID        string
	Name      string
	Arguments string
}

// Selection is the model's answer to an instruction: free text, calls, or
// both. It keeps the conversation so results can be phrased afterwards.
type Selection struct {
	Content string
	Calls   []FunctionCall

	messages []openai.ChatCompletionMessageParamUnion
}

// CallResult pairs an executed call with its result for the phrasing pass.
type CallResult struct {
	Call   FunctionCall
	Result any
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	api     openai.Client
	config  Config
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	httpClient *http.Client
}

// WithLogger sets the logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithMetrics records every request.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithHTTPClient replaces the transport, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// NewClient creates a client for cfg. Empty fields fall back to
// DefaultConfig.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.PhrasingMaxTokens <= 0 {
		cfg.PhrasingMaxTokens = defaults.PhrasingMaxTokens
	}

	o := clientOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(cfg.Timeout))
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}

	return &Client{
		api:     openai.NewClient(reqOpts...),
		config:  cfg,
		logger:  o.logger,
		metrics: o.metrics,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

// Complete sends prompt under the summarizer system prompt and returns the
// trimmed answer.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.create(ctx, instrumentation.ModelOperationComplete, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SummarySystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.config.SummaryTemperature),
		MaxTokens:   openai.Int(c.config.MaxTokens),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(msg.Content), nil
}

// SelectFunction lets the model pick zero or more of specs for instruction.
func (c *Client) SelectFunction(ctx context.Context, instruction string, specs []FunctionSpec) (*Selection, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(CommandSystemPrompt),
		openai.UserMessage(instruction),
	}

	tools := make([]openai.ChatCompletionToolParam, 0, len(specs))
	for _, s := range specs {
		fn := openai.FunctionDefinitionParam{
			Name:        s.Name,
			Description: openai.String(s.Description),
		}
		if s.Parameters != nil {
			fn.Parameters = openai.FunctionParameters(s.Parameters)
		}
		tools = append(tools, openai.ChatCompletionToolParam{Function: fn})
	}

	params := openai.ChatCompletionNewParams{
		Messages:    messages,
		Tools:       tools,
		Temperature: openai.Float(c.config.CommandTemperature),
		MaxTokens:   openai.Int(c.config.MaxTokens),
	}
	if len(tools) > 0 {
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("auto")}
	}

	msg, err := c.create(ctx, instrumentation.ModelOperationSelect, params)
	if err != nil {
		return nil, err
	}

	sel := &Selection{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		sel.Calls = append(sel.Calls, FunctionCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	if len(sel.Calls) > 0 {
		sel.messages = append(messages, msg.ToParam())
	} else {
		sel.messages = messages
	}
	return sel, nil
}

// unansweredCall is the tool message for a selected call that was not run.
const unansweredCall = `{"error":"unknown operation"}`

// CompleteWithContext returns the model's phrasing of results in the
// conversation that produced sel. Each result is sent as JSON. Every call
// in sel gets a tool message; calls without a result are answered with an
// error so the conversation stays well formed.
func (c *Client) CompleteWithContext(ctx context.Context, sel *Selection, results []CallResult) (string, error) {
	if sel == nil {
		return "", errors.New("selection is required")
	}

	answers := make(map[string]string, len(results))
	for _, r := range results {
		content, err := json.Marshal(r.Result)
		if err != nil {
			return "", fmt.Errorf("failed to encode result of %s: %w", r.Call.Name, err)
		}
		answers[r.Call.ID] = string(content)
	}

	messages := append([]openai.ChatCompletionMessageParamUnion(nil), sel.messages...)
	for _, call := range sel.Calls {
		content, ok := answers[call.ID]
		if !ok {
			content = unansweredCall
		}
		messages = append(messages, openai.ToolMessage(content, call.ID))
	}

	msg, err := c.create(ctx, instrumentation.ModelOperationPhrase, openai.ChatCompletionNewParams{
		Messages:    messages,
		Temperature: openai.Float(c.config.CommandTemperature),
		MaxTokens:   openai.Int(c.config.PhrasingMaxTokens),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(msg.Content), nil
}

// create performs one chat completion with tracing and metrics and returns
// the first choice's message.
func (c *Client) create(ctx context.Context, operation string, params openai.ChatCompletionNewParams) (*openai.ChatCompletionMessage, error) {
	params.Model = openai.ChatModel(c.config.Model)

	ctx, span := instrumentation.StartModelSpan(ctx, c.config.Model, operation)
	defer span.End()

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err == nil && len(resp.Choices) == 0 {
		err = ErrEmptyResponse
	}
	duration := time.Since(start)

	if err != nil {
		instrumentation.SetSpanError(span, err)
		c.metrics.RecordModelRequest(ctx, operation, c.config.Model, instrumentation.StatusError, duration)
		c.logger.Error("model request failed",
			logging.Operation(operation), slog.Duration(logging.KeyDuration, duration), logging.Err(err))
		return nil, fmt.Errorf("model %s request failed: %w", operation, err)
	}

	instrumentation.SetSpanSuccess(span)
	c.metrics.RecordModelRequest(ctx, operation, c.config.Model, instrumentation.StatusSuccess, duration)
	return &resp.Choices[0].Message, nil
}
