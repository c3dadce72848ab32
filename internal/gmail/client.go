package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/logging"
	"github.com/teemow/inboxai/internal/message"
)

const (
	providerName = "gmail"
	me           = "me"
	unreadLabel  = "UNREAD"

	// DefaultListLimit is used when ListUnread is called without a limit.
	DefaultListLimit = 10
)

// Client wraps the Gmail Users service for one authorized account.
type Client struct {
	svc     *gmail.UsersService
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// WithHTTPClient sets the authenticated HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithEndpoint overrides the Gmail API base URL.
func WithEndpoint(url string) Option {
	return func(o *clientOptions) {
		o.endpoint = url
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithMetrics records every API call.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// NewClient creates a Gmail client. An HTTP client carrying OAuth
// credentials must be supplied with WithHTTPClient.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	o := clientOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		return nil, fmt.Errorf("gmail client requires an authenticated HTTP client")
	}

	svcOpts := []option.ClientOption{option.WithHTTPClient(o.httpClient)}
	if o.endpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(o.endpoint))
	}

	svc, err := gmail.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		logger:  o.logger,
		metrics: o.metrics,
	}, nil
}

// ListUnread returns up to limit unread message ids, newest first.
func (c *Client) ListUnread(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var ids []string
	err := c.observe(ctx, "list_unread", func(ctx context.Context) error {
		res, err := c.svc.Messages.List(me).
			LabelIds(unreadLabel).
			MaxResults(int64(limit)).
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to list unread messages: %w", err)
		}
		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// GetMessage fetches a full message.
func (c *Client) GetMessage(ctx context.Context, id string) (*message.Envelope, error) {
	var env *message.Envelope
	err := c.observe(ctx, "get_message", func(ctx context.Context) error {
		msg, err := c.svc.Messages.Get(me, id).Format("full").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to get message %s: %w", id, err)
		}
		env = Envelope(msg)
		return nil
	})
	return env, err
}

func (c *Client) observe(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := instrumentation.StartProviderSpan(ctx, providerName, operation)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		c.logger.Debug("gmail call failed", logging.Operation(operation), logging.Err(err))
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	c.metrics.RecordProviderCall(ctx, providerName, operation, status, time.Since(start))
	return err
}
