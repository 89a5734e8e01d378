package engine

import (
	"errors"
	"fmt"
	"slices"

	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports"
	"go.trai.ch/derive/internal/engine/expr"
	"go.trai.ch/zerr"
)

// Builder turns argument descriptors into a sealed Registry.
type Builder struct {
	logger ports.Logger
}

// NewBuilder creates a Builder that reports non-fatal findings to logger.
func NewBuilder(logger ports.Logger) *Builder {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Builder{logger: logger}
}

type pending struct {
	desc domain.ArgumentDescriptor
	kind domain.Kind
}

// Build compiles every descriptor and registers the results.
//
// Building is all-or-nothing: every compilation error of the catalog is reported at
// once, joined, and no registry is returned.
func (b *Builder) Build(descriptors []domain.ArgumentDescriptor) (*Registry, error) {
	var errs []error

	decls := make(map[string]expr.Declaration, len(descriptors))
	accepted := make([]pending, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Name == "" {
			errs = append(errs, zerr.Wrap(domain.ErrInvalidArgumentName, "argument name is empty"))
			continue
		}
		if _, exists := decls[d.Name]; exists {
			errs = append(errs, zerr.With(zerr.Wrap(domain.ErrDuplicateArgument, "cannot register argument"), "argument", d.Name))
			continue
		}
		kind, err := domain.ParseKind(d.Type)
		if err != nil {
			errs = append(errs, zerr.With(err, "argument", d.Name))
			continue
		}
		if !expr.IsReferenceable(d.Name) {
			b.logger.Warn(fmt.Sprintf("argument %q cannot be referenced from expressions", d.Name))
		}
		decls[d.Name] = expr.Declaration{Kind: kind, Async: d.Async}
		accepted = append(accepted, pending{desc: d, kind: kind})
	}

	catalog := expr.CatalogFunc(func(name string) (expr.Declaration, bool) {
		decl, ok := decls[name]
		return decl, ok
	})

	arguments := make([]*Argument, 0, len(accepted))
	for _, p := range accepted {
		a, err := b.compile(p, catalog)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		arguments = append(arguments, a)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	registry := NewRegistry()
	for _, a := range arguments {
		if err := registry.Register(a); err != nil {
			return nil, err
		}
	}
	registry.Seal()

	b.logger.Debug(fmt.Sprintf("built registry with %d arguments", registry.Len()))
	return registry, nil
}

func (b *Builder) compile(p pending, catalog expr.Catalog) (*Argument, error) {
	d := p.desc

	var opts []Option
	if d.Cacheable {
		opts = append(opts, WithCacheable())
	}
	if d.Async {
		opts = append(opts, WithAsync())
	}

	for _, dep := range d.DependsOn {
		if _, ok := catalog.Declaration(dep); !ok {
			return nil, zerr.With(
				zerr.With(zerr.Wrap(domain.ErrUnresolvedReference, "declared dependency is not registered"), "argument", d.Name),
				"dependency", dep,
			)
		}
	}

	if !d.IsDerived() {
		if len(d.DependsOn) > 0 {
			b.logger.Warn(fmt.Sprintf("input argument %q declares dependencies that are ignored", d.Name))
		}
		return NewInput(d.Name, p.kind, opts...), nil
	}

	e, err := expr.Compile(d.Expression, p.kind, d.Async, catalog)
	if err != nil {
		return nil, zerr.With(err, "argument", d.Name)
	}

	if len(d.DependsOn) > 0 && !sameNames(d.DependsOn, e.Dependencies()) {
		b.logger.Warn(fmt.Sprintf("argument %q declares dependencies %v but references %v", d.Name, d.DependsOn, e.Dependencies()))
	}

	return NewDerived(d.Name, e, opts...), nil
}

func sameNames(a, b []string) bool {
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(slices.Compact(x), slices.Compact(y))
}
