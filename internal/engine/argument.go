// Package engine resolves arguments against a shared registry within per-request sessions.
package engine

import (
	"context"

	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/engine/expr"
	"go.trai.ch/zerr"
)

// Source is the variant of an argument.
type Source uint8

const (
	// SourceInput arguments are read from the session's InputProvider.
	SourceInput Source = iota + 1
	// SourceDerived arguments evaluate a compiled expression.
	SourceDerived
)

// String returns the name of the variant.
func (s Source) String() string {
	switch s {
	case SourceInput:
		return "input"
	case SourceDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// Argument is a named, typed value producer. It is immutable once created.
type Argument struct {
	name       domain.InternedString
	kind       domain.Kind
	cacheable  bool
	async      bool
	source     Source
	expression *expr.Expression
}

// Option configures an Argument.
type Option func(*Argument)

// WithCacheable memoizes the argument's value for the lifetime of a session.
func WithCacheable() Option {
	return func(a *Argument) {
		a.cacheable = true
	}
}

// WithAsync marks the argument as async. Only async expressions may reference it.
func WithAsync() Option {
	return func(a *Argument) {
		a.async = true
	}
}

// NewInput creates an argument whose value is supplied by the caller.
func NewInput(name string, kind domain.Kind, opts ...Option) *Argument {
	a := &Argument{
		name:   domain.NewInternedString(name),
		kind:   kind,
		source: SourceInput,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewDerived creates an argument computed from a compiled expression.
// The declared kind and async flag are taken from the expression.
func NewDerived(name string, expression *expr.Expression, opts ...Option) *Argument {
	a := &Argument{
		name:       domain.NewInternedString(name),
		source:     SourceDerived,
		expression: expression,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.kind = expression.Kind()
	a.async = expression.Async()
	return a
}

// Name returns the argument name.
func (a *Argument) Name() string { return a.name.String() }

// Kind returns the declared kind.
func (a *Argument) Kind() domain.Kind { return a.kind }

// Cacheable reports whether the value is memoized per session.
func (a *Argument) Cacheable() bool { return a.cacheable }

// Async reports whether the argument is resolved through the batch resolver.
func (a *Argument) Async() bool { return a.async }

// Source returns the argument variant.
func (a *Argument) Source() Source { return a.source }

// Expression returns the compiled expression of a derived argument, or nil.
func (a *Argument) Expression() *expr.Expression { return a.expression }

// Dependencies returns the names the argument references directly.
func (a *Argument) Dependencies() []string {
	if a.expression == nil {
		return nil
	}
	return a.expression.Dependencies()
}

// fetch produces the argument's value without consulting the cache.
func (a *Argument) fetch(ctx context.Context, s *Session) (domain.Value, error) {
	switch a.source {
	case SourceInput:
		name := a.Name()
		if !s.inputs.Exists(name) {
			return domain.Value{}, zerr.With(zerr.Wrap(domain.ErrValueNotFound, "input not provided"), "argument", name)
		}
		v, ok := s.inputs.Get(name)
		if !ok {
			return domain.Value{}, zerr.With(zerr.Wrap(domain.ErrValueNotFound, "input not provided"), "argument", name)
		}
		return v, nil
	case SourceDerived:
		return a.expression.Eval(ctx, s)
	default:
		return domain.Value{}, zerr.With(zerr.Wrap(domain.ErrUnknownArgument, "argument has no source"), "argument", a.Name())
	}
}

// check validates a fetched value against the declared kind.
func (a *Argument) check(v domain.Value) error {
	if !v.IsValid() {
		return zerr.With(zerr.Wrap(domain.ErrValueNotFound, "argument resolved to no value"), "argument", a.Name())
	}
	if v.Kind() != a.kind {
		err := zerr.With(zerr.Wrap(domain.ErrTypeMismatch, "resolved value does not match declared type"), "argument", a.Name())
		err = zerr.With(err, "expected", a.kind.String())
		return zerr.With(err, "actual", v.Kind().String())
	}
	return nil
}
