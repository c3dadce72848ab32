package server

import (
	"context"
	"sync"

	"github.com/teemow/inboxai/internal/command"
	"github.com/teemow/inboxai/internal/inbox"
	"github.com/teemow/inboxai/internal/instrumentation"
)

// ServerContext holds the services shared by every request of one process.
type ServerContext struct {
	ctx        context.Context
	cancel     context.CancelFunc
	inbox      *inbox.Service
	dispatcher *command.Dispatcher
	metrics    *instrumentation.Metrics
	audit      *instrumentation.AuditLogger
	mu         sync.RWMutex
	shutdown   bool
}

// NewServerContext creates a server context around the inbox service and
// the command dispatcher.
func NewServerContext(ctx context.Context, svc *inbox.Service, dispatcher *command.Dispatcher) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:        shutdownCtx,
		cancel:     cancel,
		inbox:      svc,
		dispatcher: dispatcher,
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Inbox returns the inbox service.
func (sc *ServerContext) Inbox() *inbox.Service {
	return sc.inbox
}

// Dispatcher returns the command dispatcher.
func (sc *ServerContext) Dispatcher() *command.Dispatcher {
	return sc.dispatcher
}

// SetMetrics sets the metrics recorder used by tool handlers.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil if none is configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger used by tool handlers.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.audit = al
}

// AuditLogger returns the audit logger, or nil if none is configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.audit
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context. It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
