// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports"
)

// Recorder implements the ports.Telemetry interface using the progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a new Recorder that traces resolutions once an output is set.
func New() *Recorder {
	return NewRecorder(NewTrace(io.Discard))
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts recording a vertex for one argument resolution.
func (r *Recorder) Record(ctx context.Context, name string, opts ...ports.VertexOption) (context.Context, ports.Vertex) {
	cfg := &ports.VertexConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	v := r.rec.Vertex(digest.FromString(cfg.Session+"/"+name), name)
	vertex := &Vertex{vertex: v}
	if cfg.Parent != "" {
		vertex.Log(domain.LogLevelDebug, "requested by "+cfg.Parent)
	}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// SetOutput redirects the trace when the recorder writes to one.
func (r *Recorder) SetOutput(w io.Writer) {
	if t, ok := r.w.(interface{ SetOutput(io.Writer) }); ok {
		t.SetOutput(w)
	}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.w.Close()
}
