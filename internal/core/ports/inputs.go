// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/derive/internal/core/domain"

// InputProvider supplies caller-provided values for input arguments.
//
//go:generate go run go.uber.org/mock/mockgen -source=inputs.go -destination=mocks/mock_inputs.go -package=mocks
type InputProvider interface {
	// Put stores a value under the given name, replacing any previous value.
	Put(name string, value domain.Value)

	// Get returns the value stored under name.
	// The boolean is false when no value is present.
	Get(name string) (domain.Value, bool)

	// Exists reports whether a value is stored under name.
	Exists(name string) bool
}
