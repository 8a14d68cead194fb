// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pyforge/internal/adapters/cache"
	_ "go.trai.ch/pyforge/internal/adapters/config"
	_ "go.trai.ch/pyforge/internal/adapters/fs"
	_ "go.trai.ch/pyforge/internal/adapters/logger"
	_ "go.trai.ch/pyforge/internal/adapters/pip"
	_ "go.trai.ch/pyforge/internal/adapters/telemetry"
	_ "go.trai.ch/pyforge/internal/adapters/venv"
	// Register backend, plugin, engine, and app nodes.
	_ "go.trai.ch/pyforge/internal/app"
	_ "go.trai.ch/pyforge/internal/backends"
	_ "go.trai.ch/pyforge/internal/engine/deps"
	_ "go.trai.ch/pyforge/internal/engine/orchestrator"
	_ "go.trai.ch/pyforge/internal/engine/resolver"
	_ "go.trai.ch/pyforge/internal/plugins"
)
