package engine

import (
	"context"

	"github.com/google/uuid"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports"
	"go.trai.ch/derive/internal/engine/expr"
)

// Session is the state of one evaluation request. It owns its Cache and Stack and
// borrows the shared Registry and the caller's InputProvider.
//
// A Session is discarded after the request; nothing it computes outlives it.
type Session struct {
	id        string
	registry  *Registry
	inputs    ports.InputProvider
	cache     *Cache
	flights   *flights
	stack     *Stack
	executor  ports.Executor
	telemetry ports.Telemetry
	logger    ports.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithExecutor sets the executor used by the batch resolver.
func WithExecutor(e ports.Executor) SessionOption {
	return func(s *Session) {
		s.executor = e
	}
}

// WithTelemetry sets the recorder for resolutions.
func WithTelemetry(t ports.Telemetry) SessionOption {
	return func(s *Session) {
		s.telemetry = t
	}
}

// WithLogger sets the session logger.
func WithLogger(l ports.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a session over registry and inputs. The registry is sealed.
func NewSession(registry *Registry, inputs ports.InputProvider, opts ...SessionOption) *Session {
	registry.Seal()

	s := &Session{
		id:        uuid.NewString(),
		registry:  registry,
		inputs:    inputs,
		cache:     NewCache(),
		flights:   newFlights(),
		stack:     NewStack(),
		executor:  inlineExecutor{},
		telemetry: noopTelemetry{},
		logger:    noopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the unique identifier of the session.
func (s *Session) ID() string { return s.id }

// Cache returns the session cache.
func (s *Session) Cache() *Cache { return s.cache }

// Stack returns the session evaluation stack.
func (s *Session) Stack() *Stack { return s.stack }

// Resolve returns the value of the named argument.
func (s *Session) Resolve(ctx context.Context, name string) (domain.Value, error) {
	return s.registry.Resolve(ctx, name, s)
}

// ResolveAsync resolves name on the session executor and delivers exactly one Result.
func (s *Session) ResolveAsync(ctx context.Context, name string) <-chan expr.Result {
	ch := make(chan expr.Result, 1)
	branch := s.fork()
	s.executor.Execute(func() {
		v, err := branch.Resolve(ctx, name)
		ch <- expr.Result{Value: v, Err: err}
	})
	return ch
}

// fork returns a view of the session with its own copy of the stack.
// The cache and the in-flight computations are shared.
func (s *Session) fork() *Session {
	branch := *s
	branch.stack = s.stack.Fork()
	return &branch
}
