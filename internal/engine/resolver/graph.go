// Package resolver implements dependency graph resolution, conflict
// detection, and the strict pre-build dependency check.
package resolver

import (
	"context"
	"sort"

	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
)

// Graph snapshots the installed package set and computes transitive
// closures and version conflicts against declared specifiers.
type Graph struct {
	querier ports.PackageQuerier
	logger  ports.Logger
}

// NewGraph creates a Graph backed by the given package querier.
func NewGraph(querier ports.PackageQuerier, logger ports.Logger) *Graph {
	return &Graph{querier: querier, logger: logger}
}

// Snapshot enumerates the installed packages and their immediate
// requirements. A query failure degrades to an empty snapshot so that
// callers resolve against "nothing installed" instead of failing.
func (g *Graph) Snapshot(ctx context.Context) map[string]domain.PackageRecord {
	snap, err := g.querier.Snapshot(ctx)
	if err != nil {
		g.logger.Warn("package snapshot failed, treating environment as empty", "error", err)
		return map[string]domain.PackageRecord{}
	}
	return snap
}

// TransitiveClosure computes the full set of package names reachable from
// the declared dependencies through the snapshot's requirement edges.
// Declared names always appear in the result, even when the snapshot does
// not contain them. Traversal uses an explicit stack; a visited name is
// never re-expanded, so cycles terminate.
func (g *Graph) TransitiveClosure(ctx context.Context, declared map[string]string) map[string]struct{} {
	snap := g.Snapshot(ctx)

	closure := make(map[string]struct{}, len(declared))
	stack := make([]string, 0, len(declared))
	for name := range declared {
		stack = append(stack, name)
	}

	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := closure[name]; seen {
			continue
		}
		closure[name] = struct{}{}

		rec, ok := snap[name]
		if !ok {
			continue
		}
		for _, req := range rec.Requires {
			if _, seen := closure[req.Name]; !seen {
				stack = append(stack, req.Name)
			}
		}
	}
	return closure
}

// DetectConflicts reports every installed package whose version violates a
// declared specifier, and every snapshot package whose recorded version
// violates a requirement of another installed package. The second pass
// surfaces transitive conflicts the declarations do not know about; those
// carry the requiring package's name as Depender.
func (g *Graph) DetectConflicts(ctx context.Context, declared map[string]string) []domain.Conflict {
	snap := g.Snapshot(ctx)

	var conflicts []domain.Conflict

	names := make([]string, 0, len(declared))
	for name := range declared {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		spec := declared[name]
		rec, ok := snap[name]
		if !ok || spec == "" {
			continue
		}
		if !domain.Matches(rec.Version, spec) {
			conflicts = append(conflicts, domain.Conflict{
				Package:      name,
				Installed:    rec.Version,
				RequiredSpec: spec,
			})
		}
	}

	pkgs := make([]string, 0, len(snap))
	for name := range snap {
		pkgs = append(pkgs, name)
	}
	sort.Strings(pkgs)
	for _, name := range pkgs {
		for _, req := range snap[name].Requires {
			dep, ok := snap[req.Name]
			if !ok || req.Spec == "" {
				continue
			}
			if !domain.Matches(dep.Version, req.Spec) {
				conflicts = append(conflicts, domain.Conflict{
					Package:      req.Name,
					Installed:    dep.Version,
					RequiredSpec: req.Spec,
					Depender:     name,
				})
			}
		}
	}

	return conflicts
}
