// Package server exposes inboxai over HTTP.
//
// # Key Components
//
// ServerContext carries the inbox service and the command dispatcher shared
// by all requests. It is also handed to the MCP tool handlers.
//
// NewRouter builds the gin engine serving the browser extension:
//   - GET  /                 static status
//   - POST /command          free-text instruction, answered by the dispatcher
//   - POST /summarize/email  summary of a message supplied in the request
//
// The Kubernetes probes from HealthChecker are mounted on the same engine,
// and MetricsServer serves Prometheus metrics on a dedicated port.
package server
