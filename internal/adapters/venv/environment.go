// Package venv implements the Environment port over a Python virtual
// environment in the project root.
package venv

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/zerr"
)

// DirName is the virtual environment directory created under the project
// root.
const DirName = ".venv"

// Environment implements ports.Environment by shelling out to the
// environment's interpreter. Creation and installer runs mutate the
// environment and are expected to happen on the sequential pre-build path
// only.
type Environment struct {
	dir        string
	hostPython string
	logger     ports.Logger
}

var _ ports.Environment = (*Environment)(nil)

// New creates an Environment for the virtualenv under root.
func New(root string, logger ports.Logger) *Environment {
	return &Environment{
		dir:        filepath.Join(root, DirName),
		hostPython: defaultHostPython(),
		logger:     logger,
	}
}

func defaultHostPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

func (e *Environment) interpreter() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.dir, "Scripts", "python.exe")
	}
	return filepath.Join(e.dir, "bin", "python")
}

// Exists reports whether the environment's interpreter is present.
func (e *Environment) Exists() bool {
	return fileExists(e.interpreter())
}

// Create provisions the virtual environment with the host interpreter.
func (e *Environment) Create(ctx context.Context) error {
	e.logger.Info("creating virtual environment", "dir", e.dir)
	res, err := e.run(ctx, e.hostPython, "-m", "venv", e.dir)
	if err != nil {
		return zerr.Wrap(err, "failed to launch venv creation")
	}
	if !res.Ok() {
		return zerr.With(zerr.With(zerr.New("venv creation failed"), "exit_code", res.ExitCode), "stderr", res.Stderr)
	}
	return nil
}

// RunInstaller invokes pip inside the environment.
func (e *Environment) RunInstaller(ctx context.Context, args ...string) (ports.CommandResult, error) {
	full := append([]string{"-m", "pip"}, args...)
	return e.run(ctx, e.interpreter(), full...)
}

// RunInterpreter invokes the environment's python.
func (e *Environment) RunInterpreter(ctx context.Context, args ...string) (ports.CommandResult, error) {
	return e.run(ctx, e.interpreter(), args...)
}

// SitePackagesDir locates the environment's site-packages directory, or ""
// when the layout cannot be resolved.
func (e *Environment) SitePackagesDir() string {
	if runtime.GOOS == "windows" {
		dir := filepath.Join(e.dir, "Lib", "site-packages")
		if fileExists(dir) {
			return dir
		}
		return ""
	}
	matches, err := filepath.Glob(filepath.Join(e.dir, "lib", "python*", "site-packages"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

func (e *Environment) run(ctx context.Context, name string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // interpreter path is derived from the project root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := ports.CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			// A non-zero exit is a result, not a spawn failure.
			return res, nil
		}
		res.ExitCode = -1
		return res, zerr.With(zerr.Wrap(err, "failed to run command"), "command", name)
	}
	return res, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
