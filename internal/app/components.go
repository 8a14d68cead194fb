package app

import (
	"go.trai.ch/pyforge/internal/core/ports"
)

// Components bundles the fully wired application for the CLI entry point.
type Components struct {
	App    *App
	Logger ports.Logger
	Tracer ports.Tracer
}

// NewComponents creates a Components struct from dependencies.
func NewComponents(app *App, logger ports.Logger, tracer ports.Tracer) *Components {
	return &Components{
		App:    app,
		Logger: logger,
		Tracer: tracer,
	}
}
