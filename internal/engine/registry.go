package engine

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports"
	"go.trai.ch/derive/internal/engine/expr"
	"go.trai.ch/zerr"
)

// Registry is the catalog of arguments. It is built once, sealed, and then shared by
// every session.
type Registry struct {
	mu        sync.RWMutex
	arguments map[string]*Argument
	sealed    bool
}

// NewRegistry creates an empty, unsealed Registry.
func NewRegistry() *Registry {
	return &Registry{
		arguments: make(map[string]*Argument),
	}
}

// Register adds an argument. A duplicate name fails and the first registration is kept.
func (r *Registry) Register(a *Argument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return zerr.With(zerr.Wrap(domain.ErrRegistrySealed, "cannot register argument"), "argument", a.Name())
	}
	if _, exists := r.arguments[a.Name()]; exists {
		return zerr.With(zerr.Wrap(domain.ErrDuplicateArgument, "cannot register argument"), "argument", a.Name())
	}
	r.arguments[a.Name()] = a
	return nil
}

// Seal forbids further registrations.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether the registry accepts registrations.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the argument registered under name.
func (r *Registry) Lookup(name string) (*Argument, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.arguments[name]
	return a, ok
}

// Declaration implements expr.Catalog.
func (r *Registry) Declaration(name string) (expr.Declaration, bool) {
	a, ok := r.Lookup(name)
	if !ok {
		return expr.Declaration{}, false
	}
	return expr.Declaration{Kind: a.Kind(), Async: a.Async()}, true
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.arguments))
	for name := range r.arguments {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered arguments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.arguments)
}

// Dependencies returns the direct dependencies of the named argument.
func (r *Registry) Dependencies(name string) ([]string, error) {
	a, ok := r.Lookup(name)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownArgument, "cannot list dependencies"), "argument", name)
	}
	return a.Dependencies(), nil
}

// Graph returns the static dependency graph of the registry.
// A non-nil error reports a static cycle; the graph is returned regardless.
func (r *Registry) Graph() (*domain.Graph, error) {
	g := domain.NewGraph()
	for _, name := range r.Names() {
		a, _ := r.Lookup(name)
		if err := g.AddNode(&domain.Node{
			Name:         domain.NewInternedString(name),
			Dependencies: domain.NewInternedStrings(a.Dependencies()),
		}); err != nil {
			return g, err
		}
	}
	return g, g.Validate()
}

// Fingerprint returns a stable hash of the registered declarations.
func (r *Registry) Fingerprint() string {
	d := xxhash.New()
	for _, name := range r.Names() {
		a, _ := r.Lookup(name)
		_, _ = d.WriteString(name)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(a.Kind().String())
		_, _ = d.WriteString(strconv.FormatBool(a.Cacheable()))
		_, _ = d.WriteString(strconv.FormatBool(a.Async()))
		if e := a.Expression(); e != nil {
			_, _ = d.WriteString(e.Source())
		}
		_, _ = d.WriteString("\x00")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

// Resolve returns the value of the named argument within session s.
//
// The argument is pushed on the session stack for the duration of the call, so a
// resolution chain that re-enters it fails. Cacheable arguments are served from the
// session cache when present and stored there after a successful fetch. Failed
// fetches are never cached. A cacheable argument is computed at most once per session:
// a branch that asks for it while another branch computes it waits for that result,
// unless waiting would deadlock, which fails as a circular dependency.
func (r *Registry) Resolve(ctx context.Context, name string, s *Session) (domain.Value, error) {
	a, ok := r.Lookup(name)
	if !ok {
		return domain.Value{}, zerr.With(zerr.Wrap(domain.ErrUnknownArgument, "cannot resolve argument"), "argument", name)
	}

	if err := ctx.Err(); err != nil {
		return domain.Value{}, zerr.With(zerr.Wrap(domain.ErrResolutionCanceled, err.Error()), "argument", name)
	}

	opts := []ports.VertexOption{ports.WithSession(s.ID())}
	if parent, ok := s.stack.Top(); ok {
		opts = append(opts, ports.WithParent(parent))
	}

	release, err := s.stack.Push(name)
	if err != nil {
		return domain.Value{}, err
	}
	defer release()

	ctx, vertex := s.telemetry.Record(ctx, name, opts...)
	v, cached, err := r.load(ctx, a, s)
	if cached {
		vertex.Cached()
	}
	vertex.Complete(err)
	return v, err
}

func (r *Registry) load(ctx context.Context, a *Argument, s *Session) (domain.Value, bool, error) {
	if !a.Cacheable() {
		v, err := r.compute(ctx, a, s)
		return v, false, err
	}

	if v, ok := s.cache.Get(a.Name()); ok {
		return v, true, nil
	}

	self := s.stack.current()
	f, owner, err := s.flights.join(a.Name(), self)
	if err != nil {
		return domain.Value{}, false, err
	}

	if !owner {
		defer s.flights.leave(f, self)
		select {
		case <-f.done:
			return f.value, f.err == nil, f.err
		case <-ctx.Done():
			return domain.Value{}, false, zerr.With(zerr.Wrap(domain.ErrResolutionCanceled, ctx.Err().Error()), "argument", a.Name())
		}
	}

	// A flight that landed between the cache check and join has stored its value.
	if v, ok := s.cache.Get(a.Name()); ok {
		s.flights.land(a.Name(), f, v, nil)
		return v, true, nil
	}

	v, err := r.compute(ctx, a, s)
	if err == nil {
		v = s.cache.Put(a.Name(), v)
	}
	s.flights.land(a.Name(), f, v, err)
	return v, false, err
}

func (r *Registry) compute(ctx context.Context, a *Argument, s *Session) (domain.Value, error) {
	v, err := a.fetch(ctx, s)
	if err != nil {
		return domain.Value{}, err
	}
	if err := a.check(v); err != nil {
		return domain.Value{}, err
	}
	s.logger.Debug(fmt.Sprintf("resolved %s = %s", a.Name(), v))
	return v, nil
}
