package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Kind is the declared type of an argument and the discriminant of a Value.
type Kind uint8

const (
	// KindInvalid marks an absent value. It is never a valid declared kind.
	KindInvalid Kind = iota
	// KindInt is a signed 64-bit integer.
	KindInt
	// KindFloat is a 64-bit floating point number.
	KindFloat
	// KindString is a UTF-8 string.
	KindString
	// KindBool is a boolean.
	KindBool
)

// kindAliases maps accepted type identifiers to their Kind.
// Identifiers are matched case-insensitively.
var kindAliases = map[string]Kind{
	"int":     KindInt,
	"integer": KindInt,
	"long":    KindInt,
	"int64":   KindInt,
	"float":   KindFloat,
	"double":  KindFloat,
	"number":  KindFloat,
	"float64": KindFloat,
	"string":  KindString,
	"str":     KindString,
	"bool":    KindBool,
	"boolean": KindBool,
}

// ParseKind converts a type identifier into a Kind.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return KindInvalid, zerr.With(zerr.Wrap(ErrUnknownType, "cannot parse type"), "type", s)
	}
	return k, nil
}

// String returns the canonical identifier of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Valid reports whether k can be declared by an argument.
func (k Kind) Valid() bool {
	return k >= KindInt && k <= KindBool
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
