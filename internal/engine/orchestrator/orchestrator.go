// Package orchestrator coordinates end-to-end builds across one or more
// backends: sequential environment and dependency preparation, then a
// bounded concurrent backend phase with cache short-circuiting.
package orchestrator

import (
	"context"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/pyforge/internal/engine/resolver"
)

// Options control one build invocation.
type Options struct {
	// ProjectRoot is the directory holding the manifest. Empty means the
	// config store's root.
	ProjectRoot string

	// OutputDir overrides the artifact output directory. Empty defaults to
	// <ProjectRoot>/dist.
	OutputDir string

	// NoCache forces backend execution even when the stored cache key
	// matches.
	NoCache bool
}

// Orchestrator sequences the build phases. Its Build entry point never
// panics outward; every failure is logged and reported as a boolean.
type Orchestrator struct {
	store    ports.ConfigStore
	env      ports.Environment
	registry ports.BackendRegistry
	cache    ports.BuildCache
	hasher   ports.Hasher
	resolver *resolver.ConflictResolver
	checker  *resolver.StrictChecker
	plugins  ports.PluginHost
	events   ports.EventPublisher
	tracer   ports.Tracer
	logger   ports.Logger
}

// New creates an Orchestrator.
func New(
	store ports.ConfigStore,
	env ports.Environment,
	registry ports.BackendRegistry,
	cache ports.BuildCache,
	hasher ports.Hasher,
	res *resolver.ConflictResolver,
	checker *resolver.StrictChecker,
	plugins ports.PluginHost,
	events ports.EventPublisher,
	tracer ports.Tracer,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:    store,
		env:      env,
		registry: registry,
		cache:    cache,
		hasher:   hasher,
		resolver: res,
		checker:  checker,
		plugins:  plugins,
		events:   events,
		tracer:   tracer,
		logger:   logger,
	}
}

// Build runs the full build pipeline and reports success. It never panics:
// unexpected failures anywhere in the flow are caught at this boundary,
// logged with a stack trace, and converted into a false return.
func (o *Orchestrator) Build(ctx context.Context, opts Options) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("build aborted by unexpected failure", "panic", r, "stack", string(debug.Stack()))
			ok = false
		}
	}()
	return o.build(ctx, opts)
}

func (o *Orchestrator) build(ctx context.Context, opts Options) bool {
	if !o.store.Exists() {
		o.logger.Error(domain.ErrProjectNotInitialized.Error())
		return false
	}

	manifest, err := o.store.Load()
	if err != nil {
		o.logger.Error("failed to load configuration", "error", err)
		return false
	}

	if errs := o.store.Validate(manifest); len(errs) > 0 {
		for _, msg := range errs {
			o.logger.Error("invalid configuration", "error", msg)
		}
		return false
	}

	backends, ok := o.selectBackends(manifest)
	if !ok {
		return false
	}

	root := opts.ProjectRoot
	if root == "" {
		root = "."
	}
	outputDir := opts.OutputDir

	if !o.prepareEnvironment(ctx) {
		return false
	}

	if !o.installDependencies(ctx, manifest, backends) {
		return false
	}

	if passed, _ := o.checker.Check(ctx, manifest.Dependencies(false)); !passed {
		o.logger.Error("strict dependency check failed, aborting build")
		return false
	}

	hookCtx := map[string]any{"backends": backendNames(backends)}
	if !o.plugins.Before(ports.EventBuild, hookCtx) {
		o.logger.Error(domain.ErrPluginAborted.Error(), "event", ports.EventBuild)
		return false
	}
	o.events.Publish(ports.EventBuild, hookCtx)

	success := o.runBackends(ctx, manifest, backends, root, outputDir, opts.NoCache)

	o.plugins.After(ports.EventBuild, map[string]any{"success": success})
	return success
}

// selectBackends resolves the primary and extra backend names against the
// registry. Any unknown name fails the whole selection; a partial backend
// set is never built.
func (o *Orchestrator) selectBackends(manifest domain.Manifest) ([]ports.Backend, bool) {
	names := manifest.BackendNames()

	backends := make([]ports.Backend, 0, len(names))
	for _, name := range names {
		backend, ok := o.registry.Get(name)
		if !ok {
			o.logger.Error(domain.ErrBackendUnavailable.Error(), "backend", name, "available", o.registry.Names())
			return nil, false
		}
		if errs := backend.ValidateConfig(manifest); len(errs) > 0 {
			for _, msg := range errs {
				o.logger.Error("invalid backend configuration", "backend", name, "error", msg)
			}
			return nil, false
		}
		backends = append(backends, backend)
	}
	return backends, true
}

// prepareEnvironment creates the virtual environment when missing. The
// environment is a shared resource, so this runs exactly once before the
// concurrent phase.
func (o *Orchestrator) prepareEnvironment(ctx context.Context) bool {
	hookCtx := map[string]any{}
	if !o.plugins.Before(ports.EventVenv, hookCtx) {
		o.logger.Error(domain.ErrPluginAborted.Error(), "event", ports.EventVenv)
		return false
	}

	if !o.env.Exists() {
		o.logger.Info("creating virtual environment")
		if err := o.env.Create(ctx); err != nil {
			o.logger.Error(domain.ErrEnvironmentNotReady.Error(), "error", err)
			return false
		}
	}

	o.plugins.After(ports.EventVenv, hookCtx)
	o.events.Publish(ports.EventVenv, hookCtx)
	return true
}

// installDependencies installs the deduplicated union of backend build
// requirements, then the project's declared dependencies with conflict
// resolution. Both run once regardless of backend count.
func (o *Orchestrator) installDependencies(ctx context.Context, manifest domain.Manifest, backends []ports.Backend) bool {
	declared := manifest.Dependencies(false)

	hookCtx := map[string]any{"dependencies": declared}
	if !o.plugins.Before(ports.EventDepsInstall, hookCtx) {
		o.logger.Error(domain.ErrPluginAborted.Error(), "event", ports.EventDepsInstall)
		return false
	}

	for _, req := range buildRequirements(backends) {
		res, err := o.env.RunInstaller(ctx, "install", req)
		if err != nil {
			o.logger.Error("failed to run installer for build requirement", "requirement", req, "error", err)
			return false
		}
		if !res.Ok() {
			o.logger.Error("failed to install build requirement", "requirement", req, "exit_code", res.ExitCode, "stderr", res.Stderr)
			return false
		}
	}

	if err := o.resolver.InstallAndResolve(ctx, declared); err != nil {
		o.logger.Error("dependency resolution failed", "error", err)
		return false
	}

	o.plugins.After(ports.EventDepsInstall, hookCtx)
	o.events.Publish(ports.EventDepsInstall, hookCtx)
	return true
}

// runBackends executes every selected backend on a bounded worker pool.
// Submitted units always run to completion; a failing unit never cancels
// its siblings. Cache-skipped backends count as successes.
func (o *Orchestrator) runBackends(ctx context.Context, manifest domain.Manifest, backends []ports.Backend, root, outputDir string, noCache bool) bool {
	results := make([]bool, len(backends))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize(len(backends)))

	for i, backend := range backends {
		key := domain.CacheKey(backend.Name(), manifest)

		if !noCache {
			stored, err := o.cache.Get(backend.Name())
			if err != nil {
				o.logger.Warn("cache lookup failed", "backend", backend.Name(), "error", err)
			}
			if stored != "" && stored == key {
				o.logger.Info("backend unchanged, skipping", "backend", backend.Name())
				results[i] = true
				continue
			}
		}

		g.Go(func() error {
			results[i] = o.runBackend(gctx, backend, manifest, root, outputDir, key)
			// unit failures are recorded, not returned, so siblings keep
			// running
			return nil
		})
	}
	_ = g.Wait()

	for i, backend := range backends {
		if !results[i] {
			o.logger.Error("backend build failed", "backend", backend.Name())
			return false
		}
	}
	return true
}

// runBackend executes one backend unit: prepare then build, each wrapped in
// its plugin hooks, with a fresh BuildContext.
func (o *Orchestrator) runBackend(ctx context.Context, backend ports.Backend, manifest domain.Manifest, root, outputDir, key string) bool {
	_, span := o.tracer.Start(ctx, "build:"+backend.Name())
	defer span.End()

	bctx := domain.NewBuildContext(root, manifest, outputDir)
	defer bctx.Cleanup()

	hookCtx := map[string]any{"backend": backend.Name(), "output_dir": bctx.OutputDir}

	if !o.plugins.Before(ports.EventBackendPrepare, hookCtx) {
		o.logger.Error(domain.ErrPluginAborted.Error(), "event", ports.EventBackendPrepare, "backend", backend.Name())
		span.RecordError(domain.ErrPluginAborted)
		return false
	}
	if err := backend.Prepare(ctx, bctx); err != nil {
		o.logger.Error("backend prepare failed", "backend", backend.Name(), "error", err)
		span.RecordError(err)
		return false
	}
	o.plugins.After(ports.EventBackendPrepare, hookCtx)
	o.events.Publish(ports.EventBackendPrepare, hookCtx)

	if !o.plugins.Before(ports.EventBackendBuild, hookCtx) {
		o.logger.Error(domain.ErrPluginAborted.Error(), "event", ports.EventBackendBuild, "backend", backend.Name())
		span.RecordError(domain.ErrPluginAborted)
		return false
	}
	artifact, err := backend.Build(ctx, bctx)
	// the build post-hook always runs, carrying the outcome
	hookCtx["success"] = err == nil
	o.plugins.After(ports.EventBackendBuild, hookCtx)
	o.events.Publish(ports.EventBackendBuild, hookCtx)
	if err != nil {
		o.logger.Error("backend build failed", "backend", backend.Name(), "error", err)
		span.RecordError(err)
		return false
	}

	if err := o.cache.Put(backend.Name(), key); err != nil {
		o.logger.Warn("failed to persist cache key", "backend", backend.Name(), "error", err)
	}

	keyvals := []any{"backend", backend.Name()}
	if artifact != "" {
		keyvals = append(keyvals, "artifact", artifact)
	}
	if hash, err := o.hasher.TreeHash(bctx.OutputDir); err != nil {
		o.logger.Warn("failed to hash output tree", "backend", backend.Name(), "error", err)
	} else {
		bctx.BuildInfo["output_hash"] = hash
		keyvals = append(keyvals, "output_hash", hash)
	}
	o.logger.Info("backend build finished", keyvals...)
	return true
}

// buildRequirements unions every backend's build-time requirements in
// first-seen order, so a requirement shared by two backends installs once.
func buildRequirements(backends []ports.Backend) []string {
	seen := map[string]struct{}{}
	var union []string
	for _, backend := range backends {
		for _, req := range backend.BuildRequirements() {
			if _, dup := seen[req]; dup {
				continue
			}
			seen[req] = struct{}{}
			union = append(union, req)
		}
	}
	return union
}

func backendNames(backends []ports.Backend) []string {
	names := make([]string, len(backends))
	for i, backend := range backends {
		names[i] = backend.Name()
	}
	return names
}

func poolSize(backendCount int) int {
	size := min(backendCount, runtime.NumCPU())
	return max(size, 1)
}
