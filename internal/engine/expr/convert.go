package expr

import (
	"math"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/zerr"
)

// toCty converts a value into a function argument.
func toCty(v domain.Value) (cty.Value, error) {
	switch v.Kind() {
	case domain.KindInt:
		return cty.NumberIntVal(v.AsInt()), nil
	case domain.KindFloat:
		if math.IsNaN(v.AsFloat()) {
			return cty.NilVal, zerr.Wrap(domain.ErrUnsupportedValue, "NaN is not a number value")
		}
		return cty.NumberFloatVal(v.AsFloat()), nil
	case domain.KindString:
		return cty.StringVal(v.AsString()), nil
	case domain.KindBool:
		return cty.BoolVal(v.AsBool()), nil
	default:
		return cty.NilVal, zerr.Wrap(domain.ErrValueNotFound, "argument has no value")
	}
}

// fromCty converts a function result into a value of the statically known kind.
func fromCty(v cty.Value, kind domain.Kind) (domain.Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return domain.Value{}, zerr.Wrap(domain.ErrValueNotFound, "function produced no value")
	}

	switch kind {
	case domain.KindInt, domain.KindFloat:
		if !v.Type().Equals(cty.Number) {
			return domain.Value{}, mismatch(kind, v.Type().FriendlyName())
		}
		bf := v.AsBigFloat()
		if kind == domain.KindFloat {
			f, _ := bf.Float64()
			return domain.Float(f), nil
		}
		i, acc := bf.Int64()
		if !bf.IsInt() || acc != big.Exact {
			return domain.Value{}, zerr.With(zerr.Wrap(domain.ErrExpressionFailed, "result is not a 64-bit integer"), "value", bf.String())
		}
		return domain.Int(i), nil
	case domain.KindString:
		if !v.Type().Equals(cty.String) {
			return domain.Value{}, mismatch(kind, v.Type().FriendlyName())
		}
		return domain.String(v.AsString()), nil
	case domain.KindBool:
		if !v.Type().Equals(cty.Bool) {
			return domain.Value{}, mismatch(kind, v.Type().FriendlyName())
		}
		return domain.Bool(v.True()), nil
	default:
		return domain.Value{}, zerr.With(zerr.Wrap(domain.ErrUnknownType, "cannot convert result"), "type", kind.String())
	}
}

func mismatch(expected domain.Kind, actual string) error {
	return zerr.With(
		zerr.With(zerr.Wrap(domain.ErrTypeMismatch, "value does not match declared type"), "expected", expected.String()),
		"actual", actual,
	)
}
