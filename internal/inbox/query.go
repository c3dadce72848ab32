package inbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/logging"
	"github.com/teemow/inboxai/internal/message"
	"github.com/teemow/inboxai/internal/prompt"
)

// Categorized is one unread message with its assigned category.
type Categorized struct {
	ID       string          `json:"id"`
	Sender   string          `json:"sender"`
	Subject  string          `json:"subject"`
	Category prompt.Category `json:"category"`
	Error    string          `json:"error,omitempty"`
}

// UnreadCount returns the number of unread messages, up to the unread limit.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	ids, err := s.provider.ListUnread(ctx, s.limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list unread messages: %w", err)
	}
	return len(ids), nil
}

// Categories assigns a category to every unread message. A message that
// cannot be read or classified is placed in the primary category.
func (s *Service) Categories(ctx context.Context) ([]Categorized, error) {
	ids, err := s.provider.ListUnread(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}

	out := make([]Categorized, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.categorize(ctx, id))
	}
	return out, nil
}

func (s *Service) categorize(ctx context.Context, id string) Categorized {
	logger := logging.WithMessage(s.logger, id)
	c := Categorized{ID: id, Category: prompt.Primary}

	env, err := s.provider.GetMessage(ctx, id)
	if err != nil {
		logger.Warn("failed to fetch message for categorization", logging.Err(err))
		c.Error = err.Error()
		s.metrics.RecordMessageProcessed(ctx, "categorize", instrumentation.StatusError)
		return c
	}

	c.Sender = env.Sender()
	c.Subject = env.Subject()
	body := message.ExtractBody(env.Root)

	answer, err := s.model.Complete(ctx, prompt.BuildCategory(c.Sender, c.Subject, body, s.budget))
	if err != nil {
		logger.Warn("failed to categorize message", logging.Err(err))
		c.Error = err.Error()
		s.metrics.RecordMessageProcessed(ctx, "categorize", instrumentation.StatusError)
		return c
	}

	c.Category = prompt.NormalizeCategory(answer)
	s.metrics.RecordMessageProcessed(ctx, "categorize", instrumentation.StatusSuccess)
	return c
}

// Unread returns the headers of the unread messages, up to the unread
// limit. Messages that cannot be read are skipped.
func (s *Service) Unread(ctx context.Context) ([]Header, error) {
	ids, err := s.provider.ListUnread(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}

	headers := make([]Header, 0, len(ids))
	for _, id := range ids {
		env, err := s.provider.GetMessage(ctx, id)
		if err != nil {
			logging.WithMessage(s.logger, id).Warn("skipping unreadable message", logging.Err(err))
			continue
		}
		headers = append(headers, Header{ID: id, Sender: env.Sender(), Subject: env.Subject()})
	}
	return headers, nil
}

// FromSender lists unread messages whose sender contains query, ignoring
// case. Messages that cannot be read are skipped. A blank query matches
// nothing.
func (s *Service) FromSender(ctx context.Context, query string) ([]Header, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	headers, err := s.Unread(ctx)
	if err != nil {
		return nil, err
	}

	var matches []Header
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h.Sender), query) {
			matches = append(matches, h)
		}
	}
	return matches, nil
}
