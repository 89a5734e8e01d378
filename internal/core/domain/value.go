package domain

import (
	"fmt"
	"math"
	"strconv"

	"go.trai.ch/zerr"
)

// Value is a closed tagged value. The zero Value is absent.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

// Int returns an integer Value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating point Value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String returns a string Value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// ValueOf converts a Go value into a Value without changing its kind.
// Integers never become floats and floats never become integers.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return uintValue(uint64(v))
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return uintValue(v)
	case float32:
		return floatValue(float64(v))
	case float64:
		return floatValue(v)
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	default:
		return Value{}, zerr.With(zerr.Wrap(ErrUnsupportedValue, "cannot convert Go value"), "go_type", fmt.Sprintf("%T", x))
	}
}

func uintValue(v uint64) (Value, error) {
	if v > math.MaxInt64 {
		return Value{}, zerr.With(zerr.Wrap(ErrUnsupportedValue, "integer overflows int64"), "value", v)
	}
	return Int(int64(v)), nil
}

func floatValue(v float64) (Value, error) {
	if math.IsNaN(v) {
		return Value{}, zerr.Wrap(ErrUnsupportedValue, "NaN is not a number value")
	}
	return Float(v), nil
}

// Kind returns the discriminant of the value.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether the value is present.
func (v Value) IsValid() bool { return v.kind.Valid() }

// AsInt returns the integer payload. It is zero for other kinds.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the floating point payload. It is zero for other kinds.
func (v Value) AsFloat() float64 { return v.f }

// AsString returns the string payload. It is empty for other kinds.
func (v Value) AsString() string { return v.s }

// AsBool returns the boolean payload. It is false for other kinds.
func (v Value) AsBool() bool { return v.b }

// Interface returns the payload as a native Go value, or nil when absent.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v == o
}

// String formats the payload for display.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "<absent>"
	}
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}
