// Package resources provides read-only MCP resources for the inbox.
// Resources are data sources that MCP clients can fetch without invoking a
// tool: the headers of the unread emails and the operation catalog.
package resources
