// Package main is the entry point for the derive CLI.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/derive/cmd/derive/commands"
	"go.trai.ch/derive/internal/app"
	_ "go.trai.ch/derive/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	if closer, ok := components.Telemetry.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	cli := commands.New(components.App, components.Logger, components.Telemetry)
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
