// Package expr compiles argument expressions into sandboxed evaluators.
//
// An expression is ordinary arithmetic, comparison, logical and template syntax in
// which other arguments are referenced as `$name`. References are rewritten into
// registry access calls, the result is parsed with hclsyntax, and the parsed tree is
// translated into a typed evaluation tree. Only a small allow-list of syntax and
// functions is accepted, and the type of every node is known before evaluation.
//
// Integer arithmetic stays integer: `/` truncates toward zero and overflow is an
// error. An operation with a float operand is computed in floating point. Conditionals
// and the logical operators evaluate only the operands they need.
package expr

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/zerr"
)

// Declaration is what the compiler needs to know about a referenced argument.
type Declaration struct {
	Kind  domain.Kind
	Async bool
}

// Catalog exposes the declarations of the arguments an expression may reference.
type Catalog interface {
	Declaration(name string) (Declaration, bool)
}

// CatalogFunc adapts a function to the Catalog interface.
type CatalogFunc func(name string) (Declaration, bool)

// Declaration implements Catalog.
func (f CatalogFunc) Declaration(name string) (Declaration, bool) {
	return f(name)
}

// Compile rewrites, parses and type checks source into an Expression that evaluates
// to kind. The static type of the body must be exactly kind; an int body is not
// accepted for a float argument or the reverse. A synchronous expression may not
// reference an async argument.
func Compile(source string, kind domain.Kind, async bool, catalog Catalog) (*Expression, error) {
	if !kind.Valid() {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownType, "cannot compile expression"), "type", kind.String())
	}

	rewritten, deps, err := Rewrite(source, catalog)
	if err != nil {
		return nil, err
	}

	kinds := make(map[string]domain.Kind, len(deps))
	var asyncDeps []string
	for _, name := range deps {
		decl, _ := catalog.Declaration(name)
		kinds[name] = decl.Kind
		if !decl.Async {
			continue
		}
		if !async {
			return nil, zerr.With(
				zerr.With(zerr.Wrap(domain.ErrAsyncMismatch, "cannot compile expression"), "reference", name),
				"source", source,
			)
		}
		asyncDeps = append(asyncDeps, name)
	}

	body, diags := hclsyntax.ParseExpression([]byte(rewritten), "expression", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidExpression, diags.Error()), "source", source)
	}

	t := &translator{src: []byte(rewritten), deps: kinds}
	root, err := t.node(body)
	if err != nil {
		return nil, zerr.With(err, "source", source)
	}
	if root.kind() != kind {
		return nil, zerr.With(
			zerr.With(
				zerr.With(zerr.Wrap(domain.ErrIncompatibleType, "expression type does not match declared type"), "expected", kind.String()),
				"actual", root.kind().String(),
			),
			"source", source,
		)
	}

	return &Expression{
		source:    source,
		rewritten: rewritten,
		kind:      kind,
		async:     async,
		deps:      deps,
		asyncDeps: asyncDeps,
		root:      root,
	}, nil
}
