// Package cmd implements the command-line interface for inboxai.
//
// This package provides the following commands:
//   - serve: Start the HTTP API for the browser extension (default)
//   - mcp: Start the MCP server (stdio or streamable-http)
//   - summarize: Summarize unread emails, the last one, or messages by ID
//   - categories: Categorize unread emails
//   - ask: Answer a free-text instruction through the command dispatcher
//   - cleanup: Remove leftover attachment scratch directories
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
