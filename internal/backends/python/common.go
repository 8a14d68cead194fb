package python

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/pyforge/internal/adapters/fs"
	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/pyforge/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// Materializer installs declared dependencies and copies their transitive
// closure out of the environment into an output site-packages tree. It is
// shared by every backend that ships Python dependencies.
type Materializer struct {
	env      ports.Environment
	copier   *fs.Copier
	resolver *resolver.ConflictResolver
	logger   ports.Logger
}

// NewMaterializer creates a Materializer.
func NewMaterializer(env ports.Environment, copier *fs.Copier, res *resolver.ConflictResolver, logger ports.Logger) *Materializer {
	return &Materializer{env: env, copier: copier, resolver: res, logger: logger}
}

// Materialize installs the declared dependencies with conflict resolution,
// then copies the transitive closure into site. A dependency that cannot
// be located in the environment is reported but does not fail the build.
func (m *Materializer) Materialize(ctx context.Context, site string, declared map[string]string) error {
	if len(declared) == 0 {
		return nil
	}
	if err := m.resolver.InstallAndResolve(ctx, declared); err != nil {
		return err
	}

	closure := m.resolver.ResolveTransitive(ctx, declared)
	names := make([]string, 0, len(closure))
	for name := range closure {
		names = append(names, name)
	}
	sort.Strings(names)

	envSite := m.env.SitePackagesDir()
	if envSite == "" {
		return zerr.Wrap(domain.ErrEnvironmentNotReady, "cannot locate environment site-packages")
	}

	copied, failed := 0, 0
	for _, name := range names {
		if m.copyDependency(envSite, site, name) {
			copied++
		} else {
			failed++
			m.logger.Warn("dependency not found in environment", "package", name)
		}
	}
	m.logger.Info("dependency copying finished", "copied", copied, "failed", failed)
	return nil
}

// copyDependency copies one installed package, trying the package
// directory form first and then the single-file module form, under both
// separator spellings.
func (m *Materializer) copyDependency(envSite, site, name string) bool {
	for _, candidate := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		dir := filepath.Join(envSite, candidate)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if err := m.copier.CopyTree(dir, site, nil, true); err != nil {
				m.logger.Warn("failed to copy dependency tree", "package", name, "error", err)
				return false
			}
			return true
		}
		file := filepath.Join(envSite, candidate+".py")
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			if err := m.copier.CopyFile(file, filepath.Join(site, candidate+".py")); err != nil {
				m.logger.Warn("failed to copy dependency module", "package", name, "error", err)
				return false
			}
			return true
		}
	}
	return false
}
