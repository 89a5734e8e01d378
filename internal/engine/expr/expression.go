package expr

import (
	"context"

	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scope resolves the arguments an expression references.
type Scope interface {
	// Resolve returns the value of a single argument.
	Resolve(ctx context.Context, name string) (domain.Value, error)
	// ResolveAll resolves names concurrently and returns once all of them have completed.
	ResolveAll(ctx context.Context, names []string) (map[string]domain.Value, error)
}

// Result is the outcome of an asynchronous evaluation.
type Result struct {
	Value domain.Value
	Err   error
}

// Expression is a compiled, immutable expression.
type Expression struct {
	source    string
	rewritten string
	kind      domain.Kind
	async     bool
	deps      []string
	asyncDeps []string
	root      node
}

// Source returns the original expression text.
func (e *Expression) Source() string { return e.source }

// Rewritten returns the expression text after reference substitution.
func (e *Expression) Rewritten() string { return e.rewritten }

// Kind returns the declared result kind.
func (e *Expression) Kind() domain.Kind { return e.kind }

// Async reports whether the expression batches its async dependencies.
func (e *Expression) Async() bool { return e.async }

// Dependencies returns the referenced argument names in order of first appearance.
func (e *Expression) Dependencies() []string {
	out := make([]string, len(e.deps))
	copy(out, e.deps)
	return out
}

// AsyncDependencies returns the referenced async arguments.
func (e *Expression) AsyncDependencies() []string {
	out := make([]string, len(e.asyncDeps))
	copy(out, e.asyncDeps)
	return out
}

// Eval evaluates the expression against scope.
//
// Async dependencies of an async expression are resolved as one batch before the body
// runs. Synchronous dependencies resolve inline, left to right, and only when the
// evaluation reaches them. Resolution failures are returned unchanged.
func (e *Expression) Eval(ctx context.Context, scope Scope) (domain.Value, error) {
	var prefetched map[string]domain.Value
	if e.async && len(e.asyncDeps) > 0 {
		values, err := scope.ResolveAll(ctx, e.asyncDeps)
		if err != nil {
			return domain.Value{}, err
		}
		prefetched = values
	}
	return e.evaluate(ctx, scope, prefetched)
}

// EvalAsync evaluates the expression on exec and delivers exactly one Result.
func (e *Expression) EvalAsync(ctx context.Context, scope Scope, exec ports.Executor) <-chan Result {
	ch := make(chan Result, 1)
	exec.Execute(func() {
		v, err := e.Eval(ctx, scope)
		ch <- Result{Value: v, Err: err}
	})
	return ch
}

func (e *Expression) evaluate(ctx context.Context, scope Scope, prefetched map[string]domain.Value) (domain.Value, error) {
	en := &env{
		ctx:        ctx,
		scope:      scope,
		prefetched: prefetched,
		source:     e.source,
	}

	v, err := e.root.eval(en)
	if err != nil {
		return domain.Value{}, err
	}
	if v.Kind() != e.kind {
		return domain.Value{}, zerr.With(mismatch(e.kind, v.Kind().String()), "source", e.source)
	}
	return v, nil
}
