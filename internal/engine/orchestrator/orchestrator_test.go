package orchestrator_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/adapters/telemetry"
	"go.trai.ch/pyforge/internal/backends"
	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/pyforge/internal/core/ports/mocks"
	"go.trai.ch/pyforge/internal/engine/orchestrator"
	"go.trai.ch/pyforge/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

func testLogger() ports.Logger {
	return logger.NewWithWriter(io.Discard)
}

// fixture bundles the orchestrator's collaborators with sensible defaults
// so individual tests only override what they exercise.
type fixture struct {
	store    *mocks.MockConfigStore
	env      *mocks.MockEnvironment
	querier  *mocks.MockPackageQuerier
	cache    *mocks.MockBuildCache
	hasher   *mocks.MockHasher
	plugins  *mocks.MockPluginHost
	registry ports.BackendRegistry
}

func newFixture(t *testing.T, ctrl *gomock.Controller, backendList ...ports.Backend) *fixture {
	t.Helper()
	return &fixture{
		store:    mocks.NewMockConfigStore(ctrl),
		env:      mocks.NewMockEnvironment(ctrl),
		querier:  mocks.NewMockPackageQuerier(ctrl),
		cache:    mocks.NewMockBuildCache(ctrl),
		hasher:   mocks.NewMockHasher(ctrl),
		plugins:  mocks.NewMockPluginHost(ctrl),
		registry: backends.NewRegistry(backendList...),
	}
}

func (f *fixture) orchestrator() *orchestrator.Orchestrator {
	log := testLogger()
	graph := resolver.NewGraph(f.querier, log)
	return orchestrator.New(
		f.store,
		f.env,
		f.registry,
		f.cache,
		f.hasher,
		resolver.NewConflictResolver(f.env, graph, log),
		resolver.NewStrictChecker(f.querier, log),
		f.plugins,
		noopPublisher{},
		telemetry.NewNoOpTracer(),
		log,
	)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, map[string]any) {}

func manifestFor(t *testing.T, backendNames []string, deps map[string]string) domain.Manifest {
	t.Helper()
	depTable := map[string]any{}
	for name, spec := range deps {
		depTable[name] = spec
	}
	extras := make([]any, 0, len(backendNames))
	for _, name := range backendNames[1:] {
		extras = append(extras, name)
	}
	return domain.Manifest{
		"project": map[string]any{"name": "demo", "version": "0.1.0"},
		"build": map[string]any{
			"backend":  backendNames[0],
			"backends": extras,
		},
		"dependencies": depTable,
	}
}

// allowHooks lets every plugin hook pass.
func (f *fixture) allowHooks() {
	f.plugins.EXPECT().Before(gomock.Any(), gomock.Any()).Return(true).AnyTimes()
	f.plugins.EXPECT().After(gomock.Any(), gomock.Any()).AnyTimes()
}

func (f *fixture) environmentReady() {
	f.env.EXPECT().Exists().Return(true).AnyTimes()
}

// outputHashed satisfies the output-tree hashing done after successful
// backend units.
func (f *fixture) outputHashed() {
	f.hasher.EXPECT().TreeHash(gomock.Any()).Return("abc123", nil).AnyTimes()
}

func TestOrchestrator_Build_MissingManifest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	f.store.EXPECT().Exists().Return(false)

	assert.False(t, f.orchestrator().Build(context.Background(), orchestrator.Options{}))
}

func TestOrchestrator_Build_InvalidConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	m := manifestFor(t, []string{"python"}, nil)
	f.store.EXPECT().Exists().Return(true)
	f.store.EXPECT().Load().Return(m, nil)
	f.store.EXPECT().Validate(m).Return([]string{"project name must not be empty"})

	assert.False(t, f.orchestrator().Build(context.Background(), orchestrator.Options{}))
}

func TestOrchestrator_Build_UnknownBackendFailsFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl) // empty registry
	m := manifestFor(t, []string{"no-such-backend"}, nil)
	f.store.EXPECT().Exists().Return(true)
	f.store.EXPECT().Load().Return(m, nil)
	f.store.EXPECT().Validate(m).Return(nil)
	// no environment work may happen before selection succeeds

	assert.False(t, f.orchestrator().Build(context.Background(), orchestrator.Options{}))
}

func TestOrchestrator_Build_SingleBackendSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Name().Return("python").AnyTimes()
	backend.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	backend.EXPECT().BuildRequirements().Return(nil)
	backend.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(nil)
	backend.EXPECT().Build(gomock.Any(), gomock.Any()).Return("dist/site-packages", nil)

	f := newFixture(t, ctrl, backend)
	m := manifestFor(t, []string{"python"}, map[string]string{"foo": "^1.0.0"})

	f.store.EXPECT().Exists().Return(true)
	f.store.EXPECT().Load().Return(m, nil)
	f.store.EXPECT().Validate(m).Return(nil)
	f.allowHooks()
	f.environmentReady()

	f.env.EXPECT().RunInstaller(gomock.Any(), "install", "foo^1.0.0").
		Return(ports.CommandResult{ExitCode: 0}, nil)
	f.querier.EXPECT().Snapshot(gomock.Any()).Return(map[string]domain.PackageRecord{
		"foo": {Name: "foo", Version: "1.2.0"},
	}, nil)
	f.querier.EXPECT().HostVersions(gomock.Any()).Return(nil, nil)
	f.querier.EXPECT().InstalledVersions(gomock.Any()).Return(map[string]string{"foo": "1.2.0"}, nil)

	f.cache.EXPECT().Get("python").Return("", nil)
	f.cache.EXPECT().Put("python", gomock.Any()).Return(nil)
	f.outputHashed()

	assert.True(t, f.orchestrator().Build(context.Background(), orchestrator.Options{ProjectRoot: t.TempDir()}))
}

func TestOrchestrator_Build_CacheShortCircuit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// backend a is cached and must never run; backend b runs and succeeds
	a := mocks.NewMockBackend(ctrl)
	a.EXPECT().Name().Return("a").AnyTimes()
	a.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	a.EXPECT().BuildRequirements().Return(nil)

	b := mocks.NewMockBackend(ctrl)
	b.EXPECT().Name().Return("b").AnyTimes()
	b.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	b.EXPECT().BuildRequirements().Return(nil)
	b.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(nil)
	b.EXPECT().Build(gomock.Any(), gomock.Any()).Return("", nil)

	f := newFixture(t, ctrl, a, b)
	m := manifestFor(t, []string{"a", "b"}, nil)

	f.store.EXPECT().Exists().Return(true)
	f.store.EXPECT().Load().Return(m, nil)
	f.store.EXPECT().Validate(m).Return(nil)
	f.allowHooks()
	f.environmentReady()

	// no declared deps: resolution sees an empty set and the strict check
	// passes without querying
	f.querier.EXPECT().Snapshot(gomock.Any()).Return(nil, nil).AnyTimes()

	f.cache.EXPECT().Get("a").Return(domain.CacheKey("a", m), nil)
	f.cache.EXPECT().Get("b").Return("stale", nil)
	f.cache.EXPECT().Put("b", domain.CacheKey("b", m)).Return(nil)
	f.outputHashed()

	assert.True(t, f.orchestrator().Build(context.Background(), orchestrator.Options{ProjectRoot: t.TempDir()}))
}

func TestOrchestrator_Build_DepsInstallVetoAbortsBeforeInstaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Name().Return("python").AnyTimes()
	backend.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	// Prepare/Build must never be called

	f := newFixture(t, ctrl, backend)
	m := manifestFor(t, []string{"python"}, map[string]string{"foo": "^1.0.0"})

	f.store.EXPECT().Exists().Return(true)
	f.store.EXPECT().Load().Return(m, nil)
	f.store.EXPECT().Validate(m).Return(nil)
	f.environmentReady()

	f.plugins.EXPECT().Before(ports.EventVenv, gomock.Any()).Return(true)
	f.plugins.EXPECT().After(ports.EventVenv, gomock.Any())
	f.plugins.EXPECT().Before(ports.EventDepsInstall, gomock.Any()).Return(false)
	// RunInstaller must never be called

	assert.False(t, f.orchestrator().Build(context.Background(), orchestrator.Options{}))
}

func TestOrchestrator_Build_FailingBackendDoesNotCancelSibling(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	bad := mocks.NewMockBackend(ctrl)
	bad.EXPECT().Name().Return("bad").AnyTimes()
	bad.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	bad.EXPECT().BuildRequirements().Return(nil)
	bad.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(domain.ErrBuildFailed)

	good := mocks.NewMockBackend(ctrl)
	good.EXPECT().Name().Return("good").AnyTimes()
	good.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	good.EXPECT().BuildRequirements().Return(nil)
	// the sibling still runs to completion
	good.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(nil)
	good.EXPECT().Build(gomock.Any(), gomock.Any()).Return("", nil)

	f := newFixture(t, ctrl, bad, good)
	m := manifestFor(t, []string{"bad", "good"}, nil)

	f.store.EXPECT().Exists().Return(true)
	f.store.EXPECT().Load().Return(m, nil)
	f.store.EXPECT().Validate(m).Return(nil)
	f.allowHooks()
	f.environmentReady()
	f.querier.EXPECT().Snapshot(gomock.Any()).Return(nil, nil).AnyTimes()

	f.cache.EXPECT().Get("bad").Return("", nil)
	f.cache.EXPECT().Get("good").Return("", nil)
	f.cache.EXPECT().Put("good", gomock.Any()).Return(nil)
	f.outputHashed()

	assert.False(t, f.orchestrator().Build(context.Background(), orchestrator.Options{ProjectRoot: t.TempDir()}))
}

func TestOrchestrator_Build_BuildRequirementsInstalledOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := mocks.NewMockBackend(ctrl)
	a.EXPECT().Name().Return("a").AnyTimes()
	a.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	a.EXPECT().BuildRequirements().Return([]string{"wheel", "setuptools"})
	a.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(nil)
	a.EXPECT().Build(gomock.Any(), gomock.Any()).Return("", nil)

	b := mocks.NewMockBackend(ctrl)
	b.EXPECT().Name().Return("b").AnyTimes()
	b.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	b.EXPECT().BuildRequirements().Return([]string{"setuptools"})
	b.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(nil)
	b.EXPECT().Build(gomock.Any(), gomock.Any()).Return("", nil)

	f := newFixture(t, ctrl, a, b)
	m := manifestFor(t, []string{"a", "b"}, nil)

	f.store.EXPECT().Exists().Return(true)
	f.store.EXPECT().Load().Return(m, nil)
	f.store.EXPECT().Validate(m).Return(nil)
	f.allowHooks()
	f.environmentReady()
	f.querier.EXPECT().Snapshot(gomock.Any()).Return(nil, nil).AnyTimes()

	// the union installs each requirement exactly once
	f.env.EXPECT().RunInstaller(gomock.Any(), "install", "wheel").
		Return(ports.CommandResult{ExitCode: 0}, nil)
	f.env.EXPECT().RunInstaller(gomock.Any(), "install", "setuptools").
		Return(ports.CommandResult{ExitCode: 0}, nil)

	f.cache.EXPECT().Get(gomock.Any()).Return("", nil).Times(2)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.outputHashed()

	assert.True(t, f.orchestrator().Build(context.Background(), orchestrator.Options{ProjectRoot: t.TempDir()}))
}

func TestOrchestrator_Build_CreatesEnvironmentWhenMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Name().Return("python").AnyTimes()
	backend.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	backend.EXPECT().BuildRequirements().Return(nil)
	backend.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(nil)
	backend.EXPECT().Build(gomock.Any(), gomock.Any()).Return("", nil)

	f := newFixture(t, ctrl, backend)
	m := manifestFor(t, []string{"python"}, nil)

	f.store.EXPECT().Exists().Return(true)
	f.store.EXPECT().Load().Return(m, nil)
	f.store.EXPECT().Validate(m).Return(nil)
	f.allowHooks()

	f.env.EXPECT().Exists().Return(false)
	f.env.EXPECT().Create(gomock.Any()).Return(nil)
	f.querier.EXPECT().Snapshot(gomock.Any()).Return(nil, nil).AnyTimes()

	f.cache.EXPECT().Get("python").Return("", nil)
	f.cache.EXPECT().Put("python", gomock.Any()).Return(nil)
	f.outputHashed()

	assert.True(t, f.orchestrator().Build(context.Background(), orchestrator.Options{ProjectRoot: t.TempDir()}))
}

func TestOrchestrator_Build_RecordsOutputTreeHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Name().Return("python").AnyTimes()
	backend.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	backend.EXPECT().BuildRequirements().Return(nil)
	backend.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(nil)
	backend.EXPECT().Build(gomock.Any(), gomock.Any()).Return("", nil)

	f := newFixture(t, ctrl, backend)
	m := manifestFor(t, []string{"python"}, nil)

	f.store.EXPECT().Exists().Return(true)
	f.store.EXPECT().Load().Return(m, nil)
	f.store.EXPECT().Validate(m).Return(nil)
	f.allowHooks()
	f.environmentReady()
	f.querier.EXPECT().Snapshot(gomock.Any()).Return(nil, nil).AnyTimes()

	f.cache.EXPECT().Get("python").Return("", nil)
	f.cache.EXPECT().Put("python", gomock.Any()).Return(nil)

	// the output tree is hashed exactly once, at the default dist location
	root := t.TempDir()
	f.hasher.EXPECT().TreeHash(filepath.Join(root, "dist")).Return("cafe0123", nil).Times(1)

	assert.True(t, f.orchestrator().Build(context.Background(), orchestrator.Options{ProjectRoot: root}))
}

func TestOrchestrator_Build_PostHookRunsOnBackendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Name().Return("python").AnyTimes()
	backend.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	backend.EXPECT().BuildRequirements().Return(nil)
	backend.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(nil)
	backend.EXPECT().Build(gomock.Any(), gomock.Any()).Return("", domain.ErrBuildFailed)

	f := newFixture(t, ctrl, backend)
	m := manifestFor(t, []string{"python"}, nil)

	f.store.EXPECT().Exists().Return(true)
	f.store.EXPECT().Load().Return(m, nil)
	f.store.EXPECT().Validate(m).Return(nil)
	f.environmentReady()
	f.querier.EXPECT().Snapshot(gomock.Any()).Return(nil, nil).AnyTimes()

	f.plugins.EXPECT().Before(gomock.Any(), gomock.Any()).Return(true).AnyTimes()
	f.plugins.EXPECT().After(ports.EventVenv, gomock.Any())
	f.plugins.EXPECT().After(ports.EventDepsInstall, gomock.Any())
	f.plugins.EXPECT().After(ports.EventBackendPrepare, gomock.Any())
	// the build post-hook still fires when the backend fails, and it
	// carries the outcome
	f.plugins.EXPECT().After(ports.EventBackendBuild, gomock.Any()).
		Do(func(_ string, hookCtx map[string]any) {
			assert.Equal(t, false, hookCtx["success"])
		}).Times(1)
	f.plugins.EXPECT().After(ports.EventBuild, gomock.Any())

	f.cache.EXPECT().Get("python").Return("", nil)
	// no cache write and no output hashing for a failed unit

	assert.False(t, f.orchestrator().Build(context.Background(), orchestrator.Options{ProjectRoot: t.TempDir()}))
}

func TestOrchestrator_Build_StrictCheckFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Name().Return("python").AnyTimes()
	backend.EXPECT().ValidateConfig(gomock.Any()).Return(nil)
	backend.EXPECT().BuildRequirements().Return(nil)
	// Prepare/Build must never run

	f := newFixture(t, ctrl, backend)
	m := manifestFor(t, []string{"python"}, map[string]string{"ghost": "^1.0.0"})

	f.store.EXPECT().Exists().Return(true)
	f.store.EXPECT().Load().Return(m, nil)
	f.store.EXPECT().Validate(m).Return(nil)
	f.allowHooks()
	f.environmentReady()

	f.env.EXPECT().RunInstaller(gomock.Any(), "install", "ghost^1.0.0").
		Return(ports.CommandResult{ExitCode: 1, Stderr: "not found"}, nil)
	// detection sees nothing installed, so no conflicts; the strict check
	// is what catches the missing package
	f.querier.EXPECT().Snapshot(gomock.Any()).Return(nil, nil)
	f.querier.EXPECT().HostVersions(gomock.Any()).Return(nil, nil)
	f.querier.EXPECT().InstalledVersions(gomock.Any()).Return(nil, nil)

	assert.False(t, f.orchestrator().Build(context.Background(), orchestrator.Options{}))
}
