// Package inbox implements the read operations over a mail account: unread
// counts, per-message summaries with attachment content, categorization and
// sender lookups. Mail access and text generation are supplied through the
// Provider and Completer interfaces.
package inbox
