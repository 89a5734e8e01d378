package engine

import (
	"context"
	"io"

	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports"
)

// inlineExecutor runs every task on the calling goroutine.
type inlineExecutor struct{}

func (inlineExecutor) Execute(task func()) { task() }

type noopTelemetry struct{}

func (noopTelemetry) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer               { return io.Discard }
func (noopVertex) Stderr() io.Writer               { return io.Discard }
func (noopVertex) Log(_ domain.LogLevel, _ string) {}
func (noopVertex) Cached()                         {}
func (noopVertex) Complete(_ error)                {}

type noopLogger struct{}

func (noopLogger) Debug(string) {}
func (noopLogger) Info(string)  {}
func (noopLogger) Warn(string)  {}
func (noopLogger) Error(error)  {}
