// Package app implements the application layer for pyforge.
package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/pyforge/internal/engine/deps"
	"go.trai.ch/pyforge/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	orch     *orchestrator.Orchestrator
	deps     *deps.Manager
	store    ports.ConfigStore
	registry ports.BackendRegistry
	logger   ports.Logger
}

// New creates a new App instance.
func New(orch *orchestrator.Orchestrator, depMgr *deps.Manager, store ports.ConfigStore, registry ports.BackendRegistry, logger ports.Logger) *App {
	return &App{
		orch:     orch,
		deps:     depMgr,
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// Build runs the full build pipeline.
func (a *App) Build(ctx context.Context, opts orchestrator.Options) error {
	if !a.orch.Build(ctx, opts) {
		return domain.ErrBuildFailed
	}
	return nil
}

// InitOptions control project scaffolding.
type InitOptions struct {
	Name    string
	Backend string
	Force   bool
}

// Init scaffolds a new project: a manifest with the backend's default
// build configuration merged in, a package directory, and a README. An
// existing manifest is only overwritten with Force.
func (a *App) Init(_ context.Context, root string, opts InitOptions) error {
	if a.store.Exists() && !opts.Force {
		return zerr.New("project already initialized, use --force to overwrite")
	}

	name := opts.Name
	if name == "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return zerr.Wrap(err, "failed to resolve project root")
		}
		name = filepath.Base(abs)
	}
	name = strings.ReplaceAll(name, "-", "_")

	backendName := opts.Backend
	if backendName == "" {
		backendName = domain.DefaultBackendName
	}
	backend, ok := a.registry.Get(backendName)
	if !ok {
		return zerr.With(zerr.With(domain.ErrBackendUnavailable, "backend", backendName), "available", strings.Join(a.registry.Names(), ", "))
	}

	buildSection := map[string]any{"backend": backendName}
	for key, value := range backend.DefaultConfig() {
		buildSection[key] = value
	}

	manifest := domain.Manifest{
		"project": map[string]any{
			"name":    name,
			"version": "0.1.0",
		},
		"build":            buildSection,
		"dependencies":     map[string]any{},
		"dev-dependencies": map[string]any{},
	}

	if err := a.scaffoldSources(root, name); err != nil {
		return err
	}
	if err := a.store.Save(manifest); err != nil {
		return err
	}

	a.logger.Info("project initialized", "name", name, "backend", backendName)
	return nil
}

// scaffoldSources creates the package directory and a README, leaving
// existing files alone.
func (a *App) scaffoldSources(root, name string) error {
	pkgDir := filepath.Join(root, name)
	if err := os.MkdirAll(pkgDir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create package directory")
	}

	initFile := filepath.Join(pkgDir, "__init__.py")
	if _, err := os.Stat(initFile); os.IsNotExist(err) {
		if err := os.WriteFile(initFile, nil, 0o600); err != nil {
			return zerr.Wrap(err, "failed to create package init file")
		}
	}

	readme := filepath.Join(root, "README.md")
	if _, err := os.Stat(readme); os.IsNotExist(err) {
		content := "# " + name + "\n"
		if err := os.WriteFile(readme, []byte(content), 0o600); err != nil {
			return zerr.Wrap(err, "failed to create README")
		}
	}
	return nil
}

// Install installs one package, or all declared dependencies when name is
// empty.
func (a *App) Install(ctx context.Context, name, spec string, dev bool) error {
	if name == "" {
		return a.deps.InstallAll(ctx, dev)
	}
	return a.deps.Install(ctx, name, spec, dev)
}

// Uninstall removes a package and its declaration.
func (a *App) Uninstall(ctx context.Context, name string, dev bool) error {
	return a.deps.Uninstall(ctx, name, dev)
}

// ListInstalled returns the environment's installed packages.
func (a *App) ListInstalled(ctx context.Context) (map[string]string, error) {
	return a.deps.List(ctx)
}

// Lock regenerates the dependency lock file.
func (a *App) Lock(ctx context.Context) error {
	return a.deps.Lock(ctx)
}
