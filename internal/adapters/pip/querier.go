// Package pip reads installed-package state out of Python environments by
// querying pip and the interpreter.
package pip

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/zerr"
)

// probeScript enumerates distributions and their immediate requirements
// inside the target interpreter, emitting one JSON object on stdout. The
// script is defensive on the Python side: anything unreadable degrades to
// an empty requirement list rather than a traceback.
const probeScript = `
import json
try:
    import pkg_resources as pr
except Exception:
    pr = None
out = {}
if pr is not None:
    try:
        for dist in pr.working_set:
            name = getattr(dist, 'project_name', dist.key)
            ver = getattr(dist, 'version', '')
            reqs = []
            try:
                for r in (dist.requires() or []):
                    reqs.append((r.project_name, str(getattr(r, 'specifier', ''))))
            except Exception:
                reqs = []
            out[name] = {"name": name, "version": ver, "requires": reqs}
    except Exception:
        out = {}
print(json.dumps(out))
`

// hostRunner invokes the host interpreter, outside the project virtualenv.
// Injected so tests can fake the host view.
type hostRunner func(ctx context.Context, args ...string) (ports.CommandResult, error)

// Querier implements ports.PackageQuerier against a project environment
// and the host interpreter.
type Querier struct {
	env     ports.Environment
	hostRun hostRunner
	logger  ports.Logger
}

var _ ports.PackageQuerier = (*Querier)(nil)

// NewQuerier creates a Querier over the given environment.
func NewQuerier(env ports.Environment, logger ports.Logger) *Querier {
	return &Querier{env: env, hostRun: runHostPython, logger: logger}
}

// Snapshot enumerates the isolated environment's installed packages with
// their immediate requirements.
func (q *Querier) Snapshot(ctx context.Context) (map[string]domain.PackageRecord, error) {
	res, err := q.env.RunInterpreter(ctx, "-c", probeScript)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to query working set")
	}
	if !res.Ok() {
		return nil, zerr.With(zerr.With(zerr.New("working set probe failed"), "exit_code", res.ExitCode), "stderr", res.Stderr)
	}
	return parseSnapshot(res.Stdout)
}

// InstalledVersions lists name-to-version for the isolated environment.
func (q *Querier) InstalledVersions(ctx context.Context) (map[string]string, error) {
	res, err := q.env.RunInstaller(ctx, "list", "--format=json")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list installed packages")
	}
	if !res.Ok() {
		return nil, zerr.With(zerr.With(zerr.New("pip list failed"), "exit_code", res.ExitCode), "stderr", res.Stderr)
	}
	return parsePipList(res.Stdout)
}

// HostVersions lists name-to-version for the host interpreter's
// environment.
func (q *Querier) HostVersions(ctx context.Context) (map[string]string, error) {
	res, err := q.hostRun(ctx, "-m", "pip", "list", "--format=json")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list host packages")
	}
	if !res.Ok() {
		return nil, zerr.With(zerr.With(zerr.New("host pip list failed"), "exit_code", res.ExitCode), "stderr", res.Stderr)
	}
	return parsePipList(res.Stdout)
}

// InterpreterVersion reports the isolated interpreter's version, or ""
// when it cannot be determined.
func (q *Querier) InterpreterVersion(ctx context.Context) string {
	res, err := q.env.RunInterpreter(ctx, "--version")
	if err != nil || !res.Ok() {
		return ""
	}
	// "Python 3.12.1"
	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		out = strings.TrimSpace(res.Stderr)
	}
	if _, version, found := strings.Cut(out, " "); found {
		return version
	}
	return out
}

type snapshotEntry struct {
	Name     string      `json:"name"`
	Version  string      `json:"version"`
	Requires [][2]string `json:"requires"`
}

func parseSnapshot(out string) (map[string]domain.PackageRecord, error) {
	var raw map[string]snapshotEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &raw); err != nil {
		return nil, zerr.Wrap(err, "failed to parse working set output")
	}

	records := make(map[string]domain.PackageRecord, len(raw))
	for name, e := range raw {
		rec := domain.PackageRecord{Name: e.Name, Version: e.Version}
		for _, pair := range e.Requires {
			rec.Requires = append(rec.Requires, domain.Requirement{Name: pair[0], Spec: pair[1]})
		}
		records[name] = rec
	}
	return records, nil
}

func parsePipList(out string) (map[string]string, error) {
	var entries []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entries); err != nil {
		return nil, zerr.Wrap(err, "failed to parse pip list output")
	}

	versions := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Name != "" {
			versions[e.Name] = e.Version
		}
	}
	return versions, nil
}

func runHostPython(ctx context.Context, args ...string) (ports.CommandResult, error) {
	python := "python3"
	if runtime.GOOS == "windows" {
		python = "python"
	}

	cmd := exec.CommandContext(ctx, python, args...) //nolint:gosec // fixed interpreter name, caller-controlled args
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := ports.CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, zerr.Wrap(err, "failed to run host interpreter")
	}
	return res, nil
}
