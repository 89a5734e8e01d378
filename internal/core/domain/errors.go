package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

// Compilation errors are raised while a catalog is built, before any request is served.
var (
	// ErrDuplicateArgument is returned when an argument name is registered twice.
	ErrDuplicateArgument = zerr.New("argument already registered")

	// ErrUnresolvedReference is returned when an expression references an unregistered argument.
	ErrUnresolvedReference = zerr.New("unresolved argument reference")

	// ErrUnknownType is returned when a descriptor declares a type that has no Kind.
	ErrUnknownType = zerr.New("unknown argument type")

	// ErrAsyncMismatch is returned when a synchronous expression references an async argument.
	ErrAsyncMismatch = zerr.New("synchronous expression references async argument")

	// ErrInvalidExpression is returned when an expression cannot be parsed or uses
	// syntax outside the supported grammar.
	ErrInvalidExpression = zerr.New("invalid expression")

	// ErrIncompatibleType is returned when the static type of an expression, or of one of
	// its operands, does not fit where it is used.
	ErrIncompatibleType = zerr.New("incompatible expression type")

	// ErrInvalidArgumentName is returned when a descriptor has an empty name.
	ErrInvalidArgumentName = zerr.New("invalid argument name")

	// ErrRegistrySealed is returned when registering into a registry that is already in use.
	ErrRegistrySealed = zerr.New("registry is sealed")
)

// Evaluation errors are scoped to a single session.
var (
	// ErrUnknownArgument is returned when resolving a name that is not registered.
	ErrUnknownArgument = zerr.New("unknown argument")

	// ErrValueNotFound is returned when an input is missing or an expression yields no value.
	ErrValueNotFound = zerr.New("value not found")

	// ErrTypeMismatch is returned when a resolved value does not match the declared kind.
	ErrTypeMismatch = zerr.New("type mismatch")

	// ErrCircularDependency is returned when a resolution chain re-enters an argument.
	ErrCircularDependency = zerr.New("circular dependency")

	// ErrExpressionFailed is returned when an expression body fails to evaluate.
	ErrExpressionFailed = zerr.New("expression evaluation failed")

	// ErrUnsupportedValue is returned when a Go value has no Kind.
	ErrUnsupportedValue = zerr.New("unsupported value")

	// ErrResolutionCanceled is returned when the resolution context is done.
	ErrResolutionCanceled = zerr.New("resolution canceled")
)

// ErrNoTargetsSpecified is returned when an evaluation request names no arguments.
var ErrNoTargetsSpecified = zerr.New("no targets specified")

var compilationErrors = []error{
	ErrDuplicateArgument,
	ErrUnresolvedReference,
	ErrUnknownType,
	ErrAsyncMismatch,
	ErrInvalidExpression,
	ErrIncompatibleType,
	ErrInvalidArgumentName,
	ErrRegistrySealed,
}

var evaluationErrors = []error{
	ErrUnknownArgument,
	ErrValueNotFound,
	ErrTypeMismatch,
	ErrCircularDependency,
	ErrExpressionFailed,
	ErrUnsupportedValue,
	ErrResolutionCanceled,
}

// IsCompilationError reports whether err was raised while building a catalog.
func IsCompilationError(err error) bool {
	return isAny(err, compilationErrors)
}

// IsEvaluationError reports whether err was raised while evaluating a session.
func IsEvaluationError(err error) bool {
	return isAny(err, evaluationErrors)
}

func isAny(err error, targets []error) bool {
	if err == nil {
		return false
	}
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
