package expr

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/zerr"
)

var operatorSymbols = map[*hclsyntax.Operation]string{
	hclsyntax.OpAdd:                "+",
	hclsyntax.OpSubtract:           "-",
	hclsyntax.OpMultiply:           "*",
	hclsyntax.OpDivide:             "/",
	hclsyntax.OpModulo:             "%",
	hclsyntax.OpGreaterThan:        ">",
	hclsyntax.OpGreaterThanOrEqual: ">=",
	hclsyntax.OpLessThan:           "<",
	hclsyntax.OpLessThanOrEqual:    "<=",
	hclsyntax.OpEqual:              "==",
	hclsyntax.OpNotEqual:           "!=",
	hclsyntax.OpLogicalAnd:         "&&",
	hclsyntax.OpLogicalOr:          "||",
	hclsyntax.OpLogicalNot:         "!",
	hclsyntax.OpNegate:             "-",
}

// translator turns a parsed syntax tree into a typed evaluation tree.
type translator struct {
	// src is the text the tree was parsed from.
	src  []byte
	deps map[string]domain.Kind
}

func (t *translator) node(expr hclsyntax.Expression) (node, error) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		return t.literal(e)
	case *hclsyntax.ParenthesesExpr:
		return t.node(e.Expression)
	case *hclsyntax.BinaryOpExpr:
		lhs, err := t.node(e.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := t.node(e.RHS)
		if err != nil {
			return nil, err
		}
		return binaryNode(e.Op, lhs, rhs)
	case *hclsyntax.UnaryOpExpr:
		operand, err := t.node(e.Val)
		if err != nil {
			return nil, err
		}
		return unaryNode(e.Op, operand)
	case *hclsyntax.ConditionalExpr:
		return t.conditional(e)
	case *hclsyntax.TemplateExpr:
		return t.template(e.Parts)
	case *hclsyntax.TemplateWrapExpr:
		return t.template([]hclsyntax.Expression{e.Wrapped})
	case *hclsyntax.FunctionCallExpr:
		return t.call(e)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidExpression, "unsupported syntax"), "node", fmt.Sprintf("%T", expr))
	}
}

// literal types a constant. A number is a float when its text has a fraction or an
// exponent and an int otherwise.
func (t *translator) literal(e *hclsyntax.LiteralValueExpr) (node, error) {
	v := e.Val
	if v.IsNull() || !v.IsKnown() {
		return nil, zerr.Wrap(domain.ErrInvalidExpression, "null is not a value")
	}

	switch {
	case v.Type().Equals(cty.Bool):
		return literal{v: domain.Bool(v.True())}, nil
	case v.Type().Equals(cty.String):
		return literal{v: domain.String(v.AsString())}, nil
	case v.Type().Equals(cty.Number):
		bf := v.AsBigFloat()
		text := string(t.src[e.SrcRange.Start.Byte:e.SrcRange.End.Byte])
		if strings.ContainsAny(text, ".eE") {
			f, _ := bf.Float64()
			return literal{v: domain.Float(f)}, nil
		}
		i, acc := bf.Int64()
		if !bf.IsInt() || acc != big.Exact {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidExpression, "integer literal out of range"), "literal", text)
		}
		return literal{v: domain.Int(i)}, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidExpression, "unsupported literal"), "type", v.Type().FriendlyName())
	}
}

func (t *translator) conditional(e *hclsyntax.ConditionalExpr) (node, error) {
	cond, err := t.node(e.Condition)
	if err != nil {
		return nil, err
	}
	if cond.kind() != domain.KindBool {
		return nil, incompatible("?", domain.KindBool, cond.kind())
	}

	then, err := t.node(e.TrueResult)
	if err != nil {
		return nil, err
	}
	els, err := t.node(e.FalseResult)
	if err != nil {
		return nil, err
	}
	if number(then.kind()) && number(els.kind()) {
		then, els = widenPair(then, els)
	}
	if then.kind() != els.kind() {
		return nil, incompatible("?", then.kind(), els.kind())
	}
	return conditional{cond: cond, then: then, els: els}, nil
}

func (t *translator) template(parts []hclsyntax.Expression) (node, error) {
	nodes := make([]node, 0, len(parts))
	for _, part := range parts {
		n, err := t.node(part)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 1 {
		if lit, ok := nodes[0].(literal); ok && lit.v.Kind() == domain.KindString {
			return lit, nil
		}
	}
	return template{parts: nodes}, nil
}

func (t *translator) call(call *hclsyntax.FunctionCallExpr) (node, error) {
	if call.ExpandFinal {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidExpression, "argument expansion is not supported"), "function", call.Name)
	}

	if call.Name == accessFunction {
		if len(call.Args) != 1 {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidExpression, "malformed argument access"), "function", call.Name)
		}
		name, ok := stringLiteral(call.Args[0])
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidExpression, "argument access requires a literal name"), "function", call.Name)
		}
		kind, ok := t.deps[name]
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidExpression, "argument access must use a $ reference"), "argument", name)
		}
		return reference{name: name, k: kind}, nil
	}

	fn, ok := builtins[call.Name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidExpression, "function is not allowed"), "function", call.Name)
	}

	args := make([]node, 0, len(call.Args))
	kinds := make([]domain.Kind, 0, len(call.Args))
	for _, arg := range call.Args {
		n, err := t.node(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
		kinds = append(kinds, n.kind())
	}
	kind, err := fn.check(call.Name, kinds)
	if err != nil {
		return nil, err
	}
	return callNode{name: call.Name, fn: fn, args: args, k: kind}, nil
}

func binaryNode(op *hclsyntax.Operation, lhs, rhs node) (node, error) {
	lk, rk := lhs.kind(), rhs.kind()
	switch op {
	case hclsyntax.OpAdd, hclsyntax.OpSubtract, hclsyntax.OpMultiply, hclsyntax.OpDivide, hclsyntax.OpModulo:
		if !number(lk) || !number(rk) {
			return nil, incompatible(operatorSymbols[op], lk, rk)
		}
		lhs, rhs = widenPair(lhs, rhs)
		return arithmetic{op: op, lhs: lhs, rhs: rhs}, nil
	case hclsyntax.OpGreaterThan, hclsyntax.OpGreaterThanOrEqual, hclsyntax.OpLessThan, hclsyntax.OpLessThanOrEqual:
		if !number(lk) || !number(rk) {
			return nil, incompatible(operatorSymbols[op], lk, rk)
		}
		lhs, rhs = widenPair(lhs, rhs)
		return comparison{op: op, lhs: lhs, rhs: rhs}, nil
	case hclsyntax.OpEqual, hclsyntax.OpNotEqual:
		if number(lk) && number(rk) {
			lhs, rhs = widenPair(lhs, rhs)
		} else if lk != rk {
			return nil, incompatible(operatorSymbols[op], lk, rk)
		}
		return equality{negate: op == hclsyntax.OpNotEqual, lhs: lhs, rhs: rhs}, nil
	case hclsyntax.OpLogicalAnd, hclsyntax.OpLogicalOr:
		if lk != domain.KindBool || rk != domain.KindBool {
			return nil, incompatible(operatorSymbols[op], lk, rk)
		}
		return logical{and: op == hclsyntax.OpLogicalAnd, lhs: lhs, rhs: rhs}, nil
	default:
		return nil, zerr.Wrap(domain.ErrInvalidExpression, "unsupported operator")
	}
}

func unaryNode(op *hclsyntax.Operation, operand node) (node, error) {
	switch op {
	case hclsyntax.OpNegate:
		if !number(operand.kind()) {
			return nil, incompatible("-", operand.kind(), operand.kind())
		}
		return negation{operand: operand}, nil
	case hclsyntax.OpLogicalNot:
		if operand.kind() != domain.KindBool {
			return nil, incompatible("!", operand.kind(), operand.kind())
		}
		return inversion{operand: operand}, nil
	default:
		return nil, zerr.Wrap(domain.ErrInvalidExpression, "unsupported operator")
	}
}

// widenPair converts the int side of a mixed int and float pair to float.
func widenPair(lhs, rhs node) (node, node) {
	switch {
	case lhs.kind() == domain.KindInt && rhs.kind() == domain.KindFloat:
		return widen{operand: lhs}, rhs
	case lhs.kind() == domain.KindFloat && rhs.kind() == domain.KindInt:
		return lhs, widen{operand: rhs}
	default:
		return lhs, rhs
	}
}

func incompatible(operator string, lhs, rhs domain.Kind) error {
	return zerr.With(
		zerr.With(zerr.Wrap(domain.ErrIncompatibleType, "operand types not accepted"), "operator", operator),
		"operands", lhs.String()+", "+rhs.String(),
	)
}

// stringLiteral returns the value of a quoted string with no interpolation.
func stringLiteral(expr hclsyntax.Expression) (string, bool) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		if e.Val.Type().Equals(cty.String) && e.Val.IsKnown() && !e.Val.IsNull() {
			return e.Val.AsString(), true
		}
	case *hclsyntax.TemplateExpr:
		if len(e.Parts) == 1 {
			return stringLiteral(e.Parts[0])
		}
	}
	return "", false
}
