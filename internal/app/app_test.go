package app_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/adapters/telemetry"
	"go.trai.ch/pyforge/internal/app"
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

func pythonBackend(ctrl *gomock.Controller) *mocks.MockBackend {
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Name().Return("python").AnyTimes()
	backend.EXPECT().DefaultConfig().Return(map[string]any{
		"python": map[string]any{"source": "", "exclude": []any{"**/*.pyc"}},
	}).AnyTimes()
	return backend
}

func TestInit_ScaffoldsProject(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockConfigStore(ctrl)
	registry := backends.NewRegistry(pythonBackend(ctrl))

	var saved domain.Manifest
	store.EXPECT().Exists().Return(false)
	store.EXPECT().Save(gomock.Any()).DoAndReturn(func(m domain.Manifest) error {
		saved = m
		return nil
	})

	root := t.TempDir()
	a := app.New(nil, nil, store, registry, testLogger())
	require.NoError(t, a.Init(context.Background(), root, app.InitOptions{Name: "my-app"}))

	assert.Equal(t, "my_app", saved.ProjectName())
	assert.Equal(t, "0.1.0", saved.ProjectVersion())
	assert.Equal(t, "python", saved.BuildSection()["backend"])
	assert.Contains(t, saved.BuildSection(), "python")
	assert.FileExists(t, filepath.Join(root, "my_app", "__init__.py"))
	assert.FileExists(t, filepath.Join(root, "README.md"))
}

func TestInit_DefaultsNameFromRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockConfigStore(ctrl)
	registry := backends.NewRegistry(pythonBackend(ctrl))

	var saved domain.Manifest
	store.EXPECT().Exists().Return(false)
	store.EXPECT().Save(gomock.Any()).DoAndReturn(func(m domain.Manifest) error {
		saved = m
		return nil
	})

	root := filepath.Join(t.TempDir(), "cool-project")
	a := app.New(nil, nil, store, registry, testLogger())
	require.NoError(t, a.Init(context.Background(), root, app.InitOptions{}))

	assert.Equal(t, "cool_project", saved.ProjectName())
}

func TestInit_RefusesExistingWithoutForce(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockConfigStore(ctrl)
	store.EXPECT().Exists().Return(true)

	a := app.New(nil, nil, store, backends.NewRegistry(pythonBackend(ctrl)), testLogger())
	err := a.Init(context.Background(), t.TempDir(), app.InitOptions{})
	assert.ErrorContains(t, err, "already initialized")
}

func TestInit_ForceOverwrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockConfigStore(ctrl)
	store.EXPECT().Exists().Return(true)
	store.EXPECT().Save(gomock.Any()).Return(nil)

	a := app.New(nil, nil, store, backends.NewRegistry(pythonBackend(ctrl)), testLogger())
	assert.NoError(t, a.Init(context.Background(), t.TempDir(), app.InitOptions{Force: true}))
}

func TestInit_UnknownBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockConfigStore(ctrl)
	store.EXPECT().Exists().Return(false)

	a := app.New(nil, nil, store, backends.NewRegistry(pythonBackend(ctrl)), testLogger())
	err := a.Init(context.Background(), t.TempDir(), app.InitOptions{Backend: "zig"})
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestBuild_MapsFailureToError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockConfigStore(ctrl)
	env := mocks.NewMockEnvironment(ctrl)
	querier := mocks.NewMockPackageQuerier(ctrl)
	buildCache := mocks.NewMockBuildCache(ctrl)
	plugins := mocks.NewMockPluginHost(ctrl)

	store.EXPECT().Exists().Return(false)

	log := testLogger()
	graph := resolver.NewGraph(querier, log)
	orch := orchestrator.New(
		store, env, backends.NewRegistry(), buildCache, mocks.NewMockHasher(ctrl),
		resolver.NewConflictResolver(env, graph, log),
		resolver.NewStrictChecker(querier, log),
		plugins, noopPublisher{}, telemetry.NewNoOpTracer(), log,
	)

	a := app.New(orch, nil, store, backends.NewRegistry(), log)
	err := a.Build(context.Background(), orchestrator.Options{ProjectRoot: "."})
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, map[string]any) {}
