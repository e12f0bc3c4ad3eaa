package server

import (
	"context"
	"sync"
	"time"

	"calagent/internal/calendar"
)

// ServerContext holds the shared state for the MCP server: the calendar
// backend tool handlers dispatch to and a clock that tests can pin.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	backend  calendar.Backend
	now      func() time.Time
	mu       sync.Mutex
	shutdown bool
}

// NewServerContext creates a server context around the given backend.
func NewServerContext(ctx context.Context, backend calendar.Backend) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		backend: backend,
		now:     time.Now,
	}
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Backend returns the calendar backend.
func (sc *ServerContext) Backend() calendar.Backend {
	return sc.backend
}

// Now returns the current time. Tests override the clock with SetNow.
func (sc *ServerContext) Now() time.Time {
	return sc.now()
}

// SetNow overrides the clock.
func (sc *ServerContext) SetNow(now func() time.Time) {
	sc.now = now
}

// Shutdown cancels the server context. Safe to call more than once.
func (sc *ServerContext) Shutdown() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.shutdown {
		return
	}
	sc.shutdown = true
	sc.cancel()
}
