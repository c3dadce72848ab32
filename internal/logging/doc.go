// Package logging provides structured logging utilities for inboxai.
//
// All packages log through log/slog. This package holds the shared attribute
// keys and helpers, and New, which builds the process logger with optional
// rotating file output.
//
// # Usage Patterns
//
//	logger := logging.WithOperation(slog.Default(), "get_unread_emails_summary")
//	logger.Info("summarized message",
//	    logging.MessageID(id),
//	    logging.Sender(sender))
//
// # Security Considerations
//
// Sender addresses are logged as their domain only (Sender) or as a hash
// (AnonymizeEmail). Credentials are reduced to their length (SanitizeToken).
package logging
