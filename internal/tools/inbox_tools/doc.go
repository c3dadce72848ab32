// Package inbox_tools exposes the inbox through MCP (Model Context Protocol)
// tools.
//
// Every catalog operation is registered as a tool under its own name:
//   - get_unread_emails_summary: Summaries of the unread messages
//   - get_last_email_summary: Summary of the most recent unread message
//   - get_unread_email_categories: Category of each unread message
//   - check_emails_from_sender: Unread messages whose sender matches a query
//
// Three more tools sit on top of the catalog:
//   - inbox_command: Interpret a free-text instruction through the dispatcher
//   - summarize_messages: Summarize messages by ID (string or array)
//   - summarize_email: Summarize sender, subject and body supplied by the caller
//
// Catalog and command tools return the JSON-encoded outcome ({"reply", "data"}).
// Every handler is wrapped with common.InstrumentedToolHandler.
package inbox_tools
