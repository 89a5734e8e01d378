// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/derive/internal/adapters/config"
	_ "go.trai.ch/derive/internal/adapters/executor"
	_ "go.trai.ch/derive/internal/adapters/logger"
	_ "go.trai.ch/derive/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/derive/internal/app"
)
