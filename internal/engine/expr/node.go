package expr

import (
	"context"
	"math"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/zerr"
)

// env carries the collaborators of one evaluation.
type env struct {
	ctx        context.Context
	scope      Scope
	prefetched map[string]domain.Value
	source     string
}

// fail reports a failure of the expression body.
func (en *env) fail(msg string) error {
	return zerr.With(zerr.Wrap(domain.ErrExpressionFailed, msg), "source", en.source)
}

// node is one typed step of a compiled expression. eval always returns a value of
// kind() or an error.
type node interface {
	kind() domain.Kind
	eval(en *env) (domain.Value, error)
}

type literal struct{ v domain.Value }

func (n literal) kind() domain.Kind               { return n.v.Kind() }
func (n literal) eval(*env) (domain.Value, error) { return n.v, nil }

// reference reads another argument. Resolution failures are returned unchanged.
type reference struct {
	name string
	k    domain.Kind
}

func (n reference) kind() domain.Kind { return n.k }

func (n reference) eval(en *env) (domain.Value, error) {
	v, ok := en.prefetched[n.name]
	if !ok {
		var err error
		v, err = en.scope.Resolve(en.ctx, n.name)
		if err != nil {
			return domain.Value{}, err
		}
	}
	if v.Kind() != n.k {
		return domain.Value{}, zerr.With(zerr.With(mismatch(n.k, v.Kind().String()), "argument", n.name), "source", en.source)
	}
	return v, nil
}

// widen converts an int operand to float.
type widen struct{ operand node }

func (widen) kind() domain.Kind { return domain.KindFloat }

func (n widen) eval(en *env) (domain.Value, error) {
	v, err := n.operand.eval(en)
	if err != nil {
		return domain.Value{}, err
	}
	return domain.Float(float64(v.AsInt())), nil
}

type negation struct{ operand node }

func (n negation) kind() domain.Kind { return n.operand.kind() }

func (n negation) eval(en *env) (domain.Value, error) {
	v, err := n.operand.eval(en)
	if err != nil {
		return domain.Value{}, err
	}
	if v.Kind() == domain.KindFloat {
		return domain.Float(-v.AsFloat()), nil
	}
	if v.AsInt() == math.MinInt64 {
		return domain.Value{}, en.fail("integer overflow")
	}
	return domain.Int(-v.AsInt()), nil
}

type inversion struct{ operand node }

func (inversion) kind() domain.Kind { return domain.KindBool }

func (n inversion) eval(en *env) (domain.Value, error) {
	v, err := n.operand.eval(en)
	if err != nil {
		return domain.Value{}, err
	}
	return domain.Bool(!v.AsBool()), nil
}

// arithmetic operands share one numeric kind.
type arithmetic struct {
	op       *hclsyntax.Operation
	lhs, rhs node
}

func (n arithmetic) kind() domain.Kind { return n.lhs.kind() }

func (n arithmetic) eval(en *env) (domain.Value, error) {
	a, b, err := operands(en, n.lhs, n.rhs)
	if err != nil {
		return domain.Value{}, err
	}
	if n.kind() == domain.KindInt {
		return intArithmetic(en, n.op, a.AsInt(), b.AsInt())
	}
	return floatArithmetic(en, n.op, a.AsFloat(), b.AsFloat())
}

func intArithmetic(en *env, op *hclsyntax.Operation, a, b int64) (domain.Value, error) {
	switch op {
	case hclsyntax.OpAdd:
		c := a + b
		if (c > a) != (b > 0) {
			return domain.Value{}, en.fail("integer overflow")
		}
		return domain.Int(c), nil
	case hclsyntax.OpSubtract:
		c := a - b
		if (c < a) != (b > 0) {
			return domain.Value{}, en.fail("integer overflow")
		}
		return domain.Int(c), nil
	case hclsyntax.OpMultiply:
		if a == 0 || b == 0 {
			return domain.Int(0), nil
		}
		c := a * b
		if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return domain.Value{}, en.fail("integer overflow")
		}
		return domain.Int(c), nil
	case hclsyntax.OpDivide:
		if b == 0 {
			return domain.Value{}, en.fail("division by zero")
		}
		if a == math.MinInt64 && b == -1 {
			return domain.Value{}, en.fail("integer overflow")
		}
		return domain.Int(a / b), nil
	default:
		if b == 0 {
			return domain.Value{}, en.fail("division by zero")
		}
		return domain.Int(a % b), nil
	}
}

func floatArithmetic(en *env, op *hclsyntax.Operation, a, b float64) (domain.Value, error) {
	var c float64
	switch op {
	case hclsyntax.OpAdd:
		c = a + b
	case hclsyntax.OpSubtract:
		c = a - b
	case hclsyntax.OpMultiply:
		c = a * b
	case hclsyntax.OpDivide:
		if b == 0 {
			return domain.Value{}, en.fail("division by zero")
		}
		c = a / b
	default:
		if b == 0 {
			return domain.Value{}, en.fail("division by zero")
		}
		c = math.Mod(a, b)
	}
	if math.IsNaN(c) {
		return domain.Value{}, en.fail("result is not a number")
	}
	return domain.Float(c), nil
}

// comparison operands share one numeric kind.
type comparison struct {
	op       *hclsyntax.Operation
	lhs, rhs node
}

func (comparison) kind() domain.Kind { return domain.KindBool }

func (n comparison) eval(en *env) (domain.Value, error) {
	a, b, err := operands(en, n.lhs, n.rhs)
	if err != nil {
		return domain.Value{}, err
	}

	var cmp int
	if a.Kind() == domain.KindInt {
		cmp = compare(a.AsInt(), b.AsInt())
	} else {
		cmp = compare(a.AsFloat(), b.AsFloat())
	}

	switch n.op {
	case hclsyntax.OpGreaterThan:
		return domain.Bool(cmp > 0), nil
	case hclsyntax.OpGreaterThanOrEqual:
		return domain.Bool(cmp >= 0), nil
	case hclsyntax.OpLessThan:
		return domain.Bool(cmp < 0), nil
	default:
		return domain.Bool(cmp <= 0), nil
	}
}

func compare[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

type equality struct {
	negate   bool
	lhs, rhs node
}

func (equality) kind() domain.Kind { return domain.KindBool }

func (n equality) eval(en *env) (domain.Value, error) {
	a, b, err := operands(en, n.lhs, n.rhs)
	if err != nil {
		return domain.Value{}, err
	}
	return domain.Bool(a.Equal(b) != n.negate), nil
}

// logical evaluates its right operand only when the left one does not decide.
type logical struct {
	and      bool
	lhs, rhs node
}

func (logical) kind() domain.Kind { return domain.KindBool }

func (n logical) eval(en *env) (domain.Value, error) {
	a, err := n.lhs.eval(en)
	if err != nil {
		return domain.Value{}, err
	}
	if a.AsBool() != n.and {
		return a, nil
	}
	return n.rhs.eval(en)
}

// conditional evaluates only the branch selected by its condition.
type conditional struct {
	cond, then, els node
}

func (n conditional) kind() domain.Kind { return n.then.kind() }

func (n conditional) eval(en *env) (domain.Value, error) {
	c, err := n.cond.eval(en)
	if err != nil {
		return domain.Value{}, err
	}
	if c.AsBool() {
		return n.then.eval(en)
	}
	return n.els.eval(en)
}

// template concatenates the text form of its parts.
type template struct{ parts []node }

func (template) kind() domain.Kind { return domain.KindString }

func (n template) eval(en *env) (domain.Value, error) {
	var b strings.Builder
	for _, part := range n.parts {
		v, err := part.eval(en)
		if err != nil {
			return domain.Value{}, err
		}
		b.WriteString(v.String())
	}
	return domain.String(b.String()), nil
}

type callNode struct {
	name string
	fn   builtin
	args []node
	k    domain.Kind
}

func (n callNode) kind() domain.Kind { return n.k }

func (n callNode) eval(en *env) (domain.Value, error) {
	args := make([]cty.Value, 0, len(n.args))
	for _, arg := range n.args {
		v, err := arg.eval(en)
		if err != nil {
			return domain.Value{}, err
		}
		cv, err := toCty(v)
		if err != nil {
			return domain.Value{}, zerr.With(zerr.With(err, "function", n.name), "source", en.source)
		}
		args = append(args, cv)
	}

	out, err := n.fn.fn.Call(args)
	if err != nil {
		return domain.Value{}, zerr.With(en.fail(err.Error()), "function", n.name)
	}
	v, err := fromCty(out, n.k)
	if err != nil {
		return domain.Value{}, zerr.With(zerr.With(err, "function", n.name), "source", en.source)
	}
	return v, nil
}

// operands evaluates both sides left to right.
func operands(en *env, lhs, rhs node) (domain.Value, domain.Value, error) {
	a, err := lhs.eval(en)
	if err != nil {
		return domain.Value{}, domain.Value{}, err
	}
	b, err := rhs.eval(en)
	if err != nil {
		return domain.Value{}, domain.Value{}, err
	}
	return a, b, nil
}
