// Package ports defines the collaborator interfaces consumed by the engine.
package ports

import "context"

// CommandResult is the outcome of one external process invocation.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the process exited successfully.
func (r CommandResult) Ok() bool { return r.ExitCode == 0 }

// Environment is the isolated project runtime: an opaque capability to
// create it, probe it, and run its installer or interpreter. Creation and
// installer invocations mutate shared state and must only happen during the
// sequential pre-build phase.
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type Environment interface {
	// Exists reports whether the environment has been created.
	Exists() bool

	// Create provisions the environment from scratch.
	Create(ctx context.Context) error

	// RunInstaller invokes the package installer with the given arguments.
	// A non-zero exit code is reported through the result, not the error;
	// the error covers spawn failures only.
	RunInstaller(ctx context.Context, args ...string) (CommandResult, error)

	// RunInterpreter invokes the environment's interpreter.
	RunInterpreter(ctx context.Context, args ...string) (CommandResult, error)

	// SitePackagesDir returns the environment's package installation
	// directory, or "" when it cannot be determined.
	SitePackagesDir() string
}
