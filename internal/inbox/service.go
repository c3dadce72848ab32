package inbox

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/teemow/inboxai/internal/attachments"
	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/message"
	"github.com/teemow/inboxai/internal/prompt"
)

// DefaultUnreadLimit bounds how many unread messages one request reads.
const DefaultUnreadLimit = 10

// Provider is the mail account the service reads from.
type Provider interface {
	// ListUnread returns up to limit unread message ids, newest first.
	ListUnread(ctx context.Context, limit int) ([]string, error)
	GetMessage(ctx context.Context, id string) (*message.Envelope, error)
	GetAttachment(ctx context.Context, messageID, ref string) ([]byte, error)
}

// Completer turns a prompt into model text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service implements the inbox read operations.
type Service struct {
	provider    Provider
	model       Completer
	pipeline    *attachments.Pipeline
	scratchRoot string
	limit       int
	budget      prompt.Budget
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithScratchRoot sets the directory under which attachments are staged.
func WithScratchRoot(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.scratchRoot = dir
		}
	}
}

// WithUnreadLimit sets how many unread messages are read per request.
func WithUnreadLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithBudget sets the prompt budgets.
func WithBudget(b prompt.Budget) Option {
	return func(s *Service) {
		s.budget = b
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics records processed messages.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// DefaultScratchRoot is the staging root when none is configured.
func DefaultScratchRoot() string {
	return filepath.Join(os.TempDir(), "inboxai")
}

// New creates a Service reading from provider and summarizing with model.
func New(provider Provider, model Completer, pipeline *attachments.Pipeline, opts ...Option) *Service {
	s := &Service{
		provider:    provider,
		model:       model,
		pipeline:    pipeline,
		scratchRoot: DefaultScratchRoot(),
		limit:       DefaultUnreadLimit,
		budget:      prompt.DefaultBudget(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
