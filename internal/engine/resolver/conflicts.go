package resolver

import (
	"context"
	"sort"
	"strings"

	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/zerr"
)

// ConflictResolver installs declared dependencies and guarantees they
// satisfy their specifiers, attempting one automated remediation pass
// before failing.
type ConflictResolver struct {
	env    ports.Environment
	graph  *Graph
	logger ports.Logger
}

// NewConflictResolver creates a ConflictResolver.
func NewConflictResolver(env ports.Environment, graph *Graph, logger ports.Logger) *ConflictResolver {
	return &ConflictResolver{env: env, graph: graph, logger: logger}
}

// InstallAndResolve installs every declared dependency, then detects and
// remediates version conflicts. Installer failures do not abort the pass:
// a non-zero exit alone does not prove a version conflict, so the resolver
// always proceeds to detection and lets the recheck decide. It returns an
// error only when conflicts remain after remediation; the error message
// enumerates every remaining conflict.
func (r *ConflictResolver) InstallAndResolve(ctx context.Context, declared map[string]string) error {
	names := make([]string, 0, len(declared))
	for name := range declared {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.install(ctx, name+declared[name]); err != nil {
			r.logger.Warn("dependency install reported failure, checking for conflicts", "package", name, "error", err)
		}
	}

	conflicts := r.graph.DetectConflicts(ctx, declared)
	if len(conflicts) == 0 {
		return nil
	}

	r.logger.Warn("version conflicts detected, attempting remediation", "count", len(conflicts))
	for _, c := range conflicts {
		if err := r.install(ctx, c.Package+c.RequiredSpec); err != nil {
			r.logger.Warn("remediation install failed", "package", c.Package, "spec", c.RequiredSpec, "error", err)
		}
	}

	remaining := r.graph.DetectConflicts(ctx, declared)
	if len(remaining) == 0 {
		return nil
	}

	lines := make([]string, len(remaining))
	for i, c := range remaining {
		lines[i] = c.String()
	}
	return zerr.Wrap(domain.ErrUnresolvedConflicts, strings.Join(lines, "; "))
}

// ResolveTransitive returns the full set of package names a build must
// materialize for the declared dependencies.
func (r *ConflictResolver) ResolveTransitive(ctx context.Context, declared map[string]string) map[string]struct{} {
	return r.graph.TransitiveClosure(ctx, declared)
}

func (r *ConflictResolver) install(ctx context.Context, requirement string) error {
	res, err := r.env.RunInstaller(ctx, "install", requirement)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return zerr.With(zerr.With(zerr.With(domain.ErrInstallFailed,
			"requirement", requirement),
			"exit_code", res.ExitCode),
			"stderr", strings.TrimSpace(res.Stderr),
		)
	}
	return nil
}
