// Package python implements the pure-Python build backend: it assembles a
// site-packages tree from the project sources and the declared
// dependencies, without invoking a packaging toolchain.
package python

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/pyforge/internal/adapters/fs"
	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Name is the backend identifier.
const Name = "python"

// Backend builds pure-Python projects.
type Backend struct {
	copier *fs.Copier
	deps   *Materializer
	logger ports.Logger
}

// New creates the Python backend.
func New(copier *fs.Copier, deps *Materializer, logger ports.Logger) *Backend {
	return &Backend{copier: copier, deps: deps, logger: logger}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return Name }

// ValidateConfig checks the project section and the build.python table.
func (b *Backend) ValidateConfig(m domain.Manifest) []string {
	var errs []string

	if m.ProjectName() == "" {
		errs = append(errs, "project name must not be empty")
	}
	if m.ProjectVersion() == "" {
		errs = append(errs, "project version must not be empty")
	}

	cfg := b.config(m)
	if source, present := cfg["source"]; present {
		if _, ok := source.(string); !ok {
			errs = append(errs, "build.python.source must be a string when provided")
		}
	}
	if exclude, present := cfg["exclude"]; present {
		if _, ok := exclude.([]any); !ok {
			errs = append(errs, "build.python.exclude must be a list of patterns")
		}
	}
	return errs
}

// Prepare creates the site-packages output tree and discovers the
// project's top-level packages.
func (b *Backend) Prepare(_ context.Context, bctx *domain.BuildContext) error {
	site := bctx.SitePackagesDir()
	if err := os.MkdirAll(site, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create site-packages directory")
	}

	entries, err := os.ReadDir(bctx.ProjectRoot)
	if err != nil {
		return zerr.Wrap(err, "failed to read project root")
	}

	var packages []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		if _, err := os.Stat(filepath.Join(bctx.ProjectRoot, name, "__init__.py")); err == nil {
			packages = append(packages, name)
		}
	}
	bctx.BuildInfo["python_packages"] = packages
	return nil
}

// Build copies the project source tree into site-packages, then installs
// and copies the declared dependencies and their transitive closure.
func (b *Backend) Build(ctx context.Context, bctx *domain.BuildContext) (string, error) {
	name := bctx.Config.ProjectName()
	if name == "" || bctx.Config.ProjectVersion() == "" {
		return "", zerr.New("missing project name or version")
	}

	site := bctx.SitePackagesDir()
	if err := os.MkdirAll(site, 0o750); err != nil {
		return "", zerr.Wrap(err, "failed to create site-packages directory")
	}

	source := b.sourceDir(bctx.Config, name)
	excludes := b.excludePatterns(bctx.Config)

	// stale output from a previous build would defeat the exclude rules
	if err := os.RemoveAll(filepath.Join(site, source)); err != nil {
		return "", zerr.Wrap(err, "failed to clean stale module output")
	}
	if err := b.copier.CopyTree(filepath.Join(bctx.ProjectRoot, source), site, excludes, true); err != nil {
		return "", zerr.Wrap(err, "failed to copy project sources")
	}

	if err := b.deps.Materialize(ctx, site, bctx.Config.Dependencies(false)); err != nil {
		return "", err
	}
	return site, nil
}

// DefaultConfig returns the build.python defaults merged into scaffolded
// manifests.
func (b *Backend) DefaultConfig() map[string]any {
	return map[string]any{
		"python": map[string]any{
			"source":  "",
			"exclude": []any{"**/__pycache__/**", "**/*.pyc", "tests/**"},
		},
	}
}

// BuildRequirements lists installer requirements; pure Python builds need
// none.
func (b *Backend) BuildRequirements() []string { return nil }

func (b *Backend) config(m domain.Manifest) map[string]any {
	cfg, _ := m.BuildSection()["python"].(map[string]any)
	return cfg
}

func (b *Backend) sourceDir(m domain.Manifest, projectName string) string {
	if source, ok := b.config(m)["source"].(string); ok && source != "" {
		return source
	}
	return projectName
}

func (b *Backend) excludePatterns(m domain.Manifest) []string {
	raw, _ := b.config(m)["exclude"].([]any)
	patterns := make([]string, 0, len(raw))
	for _, v := range raw {
		if p, ok := v.(string); ok {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
