package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/teemow/inboxai/internal/attachments"
	"github.com/teemow/inboxai/internal/batch"
	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/logging"
	"github.com/teemow/inboxai/internal/message"
	"github.com/teemow/inboxai/internal/prompt"
)

// NoContent is the summary of a message with nothing to summarize.
const NoContent = "No readable email content was found."

// Summaries summarizes every unread message. A listing failure is returned;
// a failure on one message only replaces that message's summary.
func (s *Service) Summaries(ctx context.Context) ([]Summary, error) {
	ids, err := s.provider.ListUnread(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}

	results := batch.Process(ctx, ids, s.SummarizeMessage)

	summaries := make([]Summary, 0, len(results))
	for _, r := range results {
		if r.OK() {
			summaries = append(summaries, r.Value)
			continue
		}
		summaries = append(summaries, Summary{
			ID:      r.ID,
			Summary: "Error processing email: " + r.Error,
			Error:   r.Error,
		})
	}
	return summaries, nil
}

// Last summarizes the newest unread message. It returns nil when there are
// no unread messages.
func (s *Service) Last(ctx context.Context) (*Summary, error) {
	ids, err := s.provider.ListUnread(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	sum, err := s.SummarizeMessage(ctx, ids[0])
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// SummarizeMessage fetches one message, extracts its body and attachments
// and asks the model for a summary. Staged attachments are always removed.
func (s *Service) SummarizeMessage(ctx context.Context, id string) (sum Summary, err error) {
	logger := logging.WithMessage(s.logger, id)
	defer func() {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			logger.Warn("failed to summarize message", logging.Err(err))
		}
		s.metrics.RecordMessageProcessed(ctx, "summarize", status)
	}()

	env, err := s.provider.GetMessage(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	msg := Load(env)
	sum = Summary{ID: id, Sender: msg.Sender, Subject: msg.Subject, Attachments: len(msg.Attachments)}

	var staged []message.Descriptor
	if len(msg.Attachments) > 0 {
		dir := filepath.Join(s.scratchRoot, uuid.NewString())
		stager := &message.Stager{Fetcher: s.provider, Dir: dir, Logger: logger}
		staged = stager.Stage(ctx, id, msg.Attachments)
		defer func() {
			s.pipeline.Cleanup(staged)
			if rmErr := attachments.RemoveEmptyDir(dir); rmErr != nil {
				logger.Warn("failed to remove scratch directory", logging.Err(rmErr))
			}
		}()
	}

	if strings.TrimSpace(msg.Body) == "" && len(staged) == 0 {
		sum.Summary = NoContent
		return sum, nil
	}

	extracted := s.pipeline.ProcessAll(ctx, staged)
	msg.AttachmentBlock = attachments.Summarize(extracted)

	text, err := s.model.Complete(ctx, prompt.BuildSummary(prompt.SummaryInput{
		Sender:      msg.Sender,
		Subject:     msg.Subject,
		Body:        msg.Body,
		Attachments: msg.AttachmentBlock,
	}, s.budget))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize message %s: %w", id, err)
	}

	logger.Debug("message summarized",
		logging.Sender(msg.Sender), slog.Int("attachments", len(extracted)))
	sum.Summary = text
	return sum, nil
}

// SummarizeText summarizes a message supplied by the caller rather than
// fetched from the provider.
func (s *Service) SummarizeText(ctx context.Context, sender, subject, body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return NoContent, nil
	}
	if sender == "" {
		sender = message.UnknownSender
	}
	if subject == "" {
		subject = message.NoSubject
	}

	text, err := s.model.Complete(ctx, prompt.BuildSummary(prompt.SummaryInput{
		Sender:  sender,
		Subject: subject,
		Body:    body,
	}, s.budget))
	if err != nil {
		return "", fmt.Errorf("failed to summarize email: %w", err)
	}
	return text, nil
}
