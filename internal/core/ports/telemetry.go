package ports

import (
	"context"
	"io"

	"go.trai.ch/derive/internal/core/domain"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of argument resolutions.
type Telemetry interface {
	// Record starts a new vertex for the named resolution.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)
}

// Vertex is a single recorded resolution.
type Vertex interface {
	// Stdout returns a writer attached to the vertex output stream.
	Stdout() io.Writer
	// Stderr returns a writer attached to the vertex error stream.
	Stderr() io.Writer
	// Log records a message on the vertex.
	Log(level domain.LogLevel, msg string)
	// Cached marks the vertex as served from the session cache.
	Cached()
	// Complete finishes the vertex. A nil error means success.
	Complete(err error)
}

// VertexConfig holds configuration for a starting vertex.
type VertexConfig struct {
	// Parent names the resolution that requested this one, if any.
	Parent string
	// Session identifies the evaluation the resolution belongs to.
	Session string
}

// VertexOption is a functional option for configuring a vertex.
type VertexOption func(*VertexConfig)

// WithParent records the requesting resolution on the vertex.
func WithParent(name string) VertexOption {
	return func(c *VertexConfig) {
		c.Parent = name
	}
}

// WithSession records the evaluation session on the vertex.
func WithSession(id string) VertexOption {
	return func(c *VertexConfig) {
		c.Session = id
	}
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
