// Package main is the entry point for the pyforge tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/cmd/pyforge/commands"
	"go.trai.ch/pyforge/internal/app"
	"go.trai.ch/pyforge/internal/core/domain"
	_ "go.trai.ch/pyforge/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		_ = components.Tracer.Close()
	}()

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildFailed) {
			// diagnostics were already logged by the orchestrator
			return 1
		}
		components.Logger.Error(err.Error())
		return 1
	}
	return 0
}
