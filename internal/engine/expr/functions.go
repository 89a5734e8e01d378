package expr

import (
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/zerr"
)

// param accepts the static kind of one call argument.
type param func(domain.Kind) bool

func is(k domain.Kind) param {
	return func(got domain.Kind) bool { return got == k }
}

func number(k domain.Kind) bool { return k == domain.KindInt || k == domain.KindFloat }

func anyKind(k domain.Kind) bool { return k.Valid() }

// builtin is an allow-listed function with its static signature.
type builtin struct {
	fn       function.Function
	params   []param
	variadic param
	// result computes the static result kind from the argument kinds.
	result func(args []domain.Kind) (domain.Kind, error)
}

func returns(k domain.Kind) func([]domain.Kind) (domain.Kind, error) {
	return func([]domain.Kind) (domain.Kind, error) { return k, nil }
}

// widest is float when any argument is a float and int otherwise.
func widest(args []domain.Kind) (domain.Kind, error) {
	if slices.Contains(args, domain.KindFloat) {
		return domain.KindFloat, nil
	}
	return domain.KindInt, nil
}

// same requires every argument to have one kind and returns it.
func same(args []domain.Kind) (domain.Kind, error) {
	for _, k := range args[1:] {
		if k != args[0] {
			return domain.KindInvalid, zerr.With(
				zerr.With(zerr.Wrap(domain.ErrIncompatibleType, "arguments must share one type"), "expected", args[0].String()),
				"actual", k.String(),
			)
		}
	}
	return args[0], nil
}

// builtins is the allow-list of functions an expression may call.
var builtins = map[string]builtin{
	"abs":       {fn: stdlib.AbsoluteFunc, params: []param{number}, result: widest},
	"ceil":      {fn: stdlib.CeilFunc, params: []param{number}, result: returns(domain.KindInt)},
	"floor":     {fn: stdlib.FloorFunc, params: []param{number}, result: returns(domain.KindInt)},
	"int":       {fn: stdlib.IntFunc, params: []param{number}, result: returns(domain.KindInt)},
	"log":       {fn: stdlib.LogFunc, params: []param{number, number}, result: returns(domain.KindFloat)},
	"max":       {fn: stdlib.MaxFunc, params: []param{number}, variadic: number, result: widest},
	"min":       {fn: stdlib.MinFunc, params: []param{number}, variadic: number, result: widest},
	"pow":       {fn: stdlib.PowFunc, params: []param{number, number}, result: returns(domain.KindFloat)},
	"signum":    {fn: stdlib.SignumFunc, params: []param{number}, result: returns(domain.KindInt)},
	"parseint":  {fn: stdlib.ParseIntFunc, params: []param{is(domain.KindString), is(domain.KindInt)}, result: returns(domain.KindInt)},
	"upper":     {fn: stdlib.UpperFunc, params: []param{is(domain.KindString)}, result: returns(domain.KindString)},
	"lower":     {fn: stdlib.LowerFunc, params: []param{is(domain.KindString)}, result: returns(domain.KindString)},
	"strlen":    {fn: stdlib.StrlenFunc, params: []param{is(domain.KindString)}, result: returns(domain.KindInt)},
	"substr":    {fn: stdlib.SubstrFunc, params: []param{is(domain.KindString), is(domain.KindInt), is(domain.KindInt)}, result: returns(domain.KindString)},
	"trimspace": {fn: stdlib.TrimSpaceFunc, params: []param{is(domain.KindString)}, result: returns(domain.KindString)},
	"coalesce":  {fn: stdlib.CoalesceFunc, params: []param{anyKind}, variadic: anyKind, result: same},
	"format":    {fn: stdlib.FormatFunc, params: []param{is(domain.KindString)}, variadic: anyKind, result: returns(domain.KindString)},
}

// check validates the argument kinds of a call and returns its result kind.
func (b builtin) check(name string, args []domain.Kind) (domain.Kind, error) {
	if len(args) < len(b.params) || (b.variadic == nil && len(args) > len(b.params)) {
		return domain.KindInvalid, zerr.With(
			zerr.With(zerr.Wrap(domain.ErrInvalidExpression, "wrong number of arguments"), "function", name),
			"arguments", len(args),
		)
	}
	for i, k := range args {
		accept := b.variadic
		if i < len(b.params) {
			accept = b.params[i]
		}
		if !accept(k) {
			return domain.KindInvalid, zerr.With(
				zerr.With(zerr.Wrap(domain.ErrIncompatibleType, "argument type not accepted"), "function", name),
				"actual", k.String(),
			)
		}
	}
	kind, err := b.result(args)
	if err != nil {
		return domain.KindInvalid, zerr.With(err, "function", name)
	}
	return kind, nil
}

// Builtins returns the names of the functions an expression may call, sorted.
func Builtins() []string {
	return slices.Sorted(maps.Keys(builtins))
}
