// Package deps implements declared-dependency management: installing,
// uninstalling, listing, and lock-file generation.
package deps

import (
	"context"
	"runtime"
	"strings"

	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/zerr"
)

var specOperators = []string{"==", "<=", ">=", "~=", "!=", "<", ">", "^", "~"}

// Manager mutates the declared dependency set. Every successful mutation
// writes the manifest back and regenerates the lock file so that
// pypackage.toml and pypackage.lock never drift apart.
type Manager struct {
	store   ports.ConfigStore
	env     ports.Environment
	querier ports.PackageQuerier
	events  ports.EventPublisher
	logger  ports.Logger
}

// NewManager creates a Manager.
func NewManager(store ports.ConfigStore, env ports.Environment, querier ports.PackageQuerier, events ports.EventPublisher, logger ports.Logger) *Manager {
	return &Manager{store: store, env: env, querier: querier, events: events, logger: logger}
}

// Install installs one package and records it in the manifest. With an
// empty spec the actually-installed version is pinned as an exact
// specifier. The package is removed from the opposite namespace first, so
// a dependency never appears as both regular and dev.
func (m *Manager) Install(ctx context.Context, name, spec string, dev bool) error {
	if err := m.ensureEnvironment(ctx); err != nil {
		return err
	}

	manifest, err := m.store.Load()
	if err != nil {
		return err
	}

	if err := m.installOne(ctx, name, spec); err != nil {
		return err
	}

	recorded := spec
	if recorded == "" {
		if installed := m.installedVersion(ctx, name); installed != "" {
			recorded = "==" + installed
		} else {
			recorded = "~=0"
		}
	} else if !hasOperator(recorded) {
		recorded = "==" + recorded
	}

	manifest.RemoveDependency(name, !dev)
	manifest.SetDependency(name, recorded, dev)
	if err := m.store.Save(manifest); err != nil {
		return err
	}

	m.events.Publish(ports.EventDepsInstall, map[string]any{"package": name, "spec": recorded})
	return m.writeLock(ctx, manifest)
}

// InstallAll installs every declared dependency of one namespace. All
// entries are attempted even when some fail; the returned error reports
// the failed set.
func (m *Manager) InstallAll(ctx context.Context, dev bool) error {
	if err := m.ensureEnvironment(ctx); err != nil {
		return err
	}

	manifest, err := m.store.Load()
	if err != nil {
		return err
	}

	declared := manifest.Dependencies(dev)
	if len(declared) == 0 {
		m.logger.Info("no declared dependencies to install", "dev", dev)
		return nil
	}

	var failed []string
	for name, spec := range declared {
		if err := m.installOne(ctx, name, spec); err != nil {
			m.logger.Error("failed to install dependency", "package", name, "error", err)
			failed = append(failed, name)
		}
	}

	if err := m.writeLock(ctx, manifest); err != nil {
		return err
	}
	if len(failed) > 0 {
		return zerr.Wrap(domain.ErrInstallFailed, strings.Join(failed, ", "))
	}
	return nil
}

// Uninstall removes the package from the environment and from the
// manifest namespace it was declared in.
func (m *Manager) Uninstall(ctx context.Context, name string, dev bool) error {
	manifest, err := m.store.Load()
	if err != nil {
		return err
	}

	res, err := m.env.RunInstaller(ctx, "uninstall", "-y", name)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return zerr.With(zerr.With(zerr.With(domain.ErrInstallFailed,
			"package", name),
			"exit_code", res.ExitCode),
			"stderr", strings.TrimSpace(res.Stderr),
		)
	}

	manifest.RemoveDependency(name, dev)
	if err := m.store.Save(manifest); err != nil {
		return err
	}
	return m.writeLock(ctx, manifest)
}

// List returns the environment's installed name-to-version mapping.
func (m *Manager) List(ctx context.Context) (map[string]string, error) {
	return m.querier.InstalledVersions(ctx)
}

// Lock regenerates the lock file from the current manifest and
// environment state.
func (m *Manager) Lock(ctx context.Context) error {
	manifest, err := m.store.Load()
	if err != nil {
		return err
	}
	return m.writeLock(ctx, manifest)
}

func (m *Manager) ensureEnvironment(ctx context.Context) error {
	if m.env.Exists() {
		return nil
	}
	if err := m.env.Create(ctx); err != nil {
		return zerr.Wrap(domain.ErrEnvironmentNotReady, err.Error())
	}
	return nil
}

func (m *Manager) installOne(ctx context.Context, name, spec string) error {
	res, err := m.env.RunInstaller(ctx, "install", name+spec)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return zerr.With(zerr.With(zerr.With(domain.ErrInstallFailed,
			"requirement", name+spec),
			"exit_code", res.ExitCode),
			"stderr", strings.TrimSpace(res.Stderr),
		)
	}
	return nil
}

func (m *Manager) installedVersion(ctx context.Context, name string) string {
	installed, err := m.querier.InstalledVersions(ctx)
	if err != nil {
		return ""
	}
	for candidate, version := range installed {
		if strings.EqualFold(candidate, name) {
			return version
		}
	}
	return ""
}

// writeLock records the installed version of every declared dependency.
// Declared packages that are not installed are skipped; lock entries only
// capture materialized state.
func (m *Manager) writeLock(ctx context.Context, manifest domain.Manifest) error {
	installed, err := m.querier.InstalledVersions(ctx)
	if err != nil {
		m.logger.Warn("skipping lock file update, cannot list installed packages", "error", err)
		return nil
	}

	lock := domain.Lockfile{
		Metadata: domain.LockMetadata{
			PythonVersion: m.querier.InterpreterVersion(ctx),
			Platform:      runtime.GOOS,
		},
		Dependencies:    lockEntries(manifest.Dependencies(false), installed),
		DevDependencies: lockEntries(manifest.Dependencies(true), installed),
	}
	return m.store.SaveLock(lock)
}

func lockEntries(declared map[string]string, installed map[string]string) map[string]domain.LockedDependency {
	entries := make(map[string]domain.LockedDependency)
	for name, spec := range declared {
		for candidate, version := range installed {
			if strings.EqualFold(candidate, name) {
				entries[name] = domain.LockedDependency{Version: version, Requested: spec}
				break
			}
		}
	}
	return entries
}

func hasOperator(spec string) bool {
	for _, op := range specOperators {
		if strings.HasPrefix(spec, op) {
			return true
		}
	}
	return false
}
