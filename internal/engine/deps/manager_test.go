package deps_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/pyforge/internal/core/ports/mocks"
	"go.trai.ch/pyforge/internal/engine/deps"
	"go.uber.org/mock/gomock"
)

func testLogger() ports.Logger {
	return logger.NewWithWriter(io.Discard)
}

func emptyManifest() domain.Manifest {
	return domain.Manifest{
		"project": map[string]any{"name": "demo", "version": "0.1.0"},
	}
}

func TestManager_Install_PinsInstalledVersionWhenSpecEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := emptyManifest()

	env := mocks.NewMockEnvironment(ctrl)
	env.EXPECT().Exists().Return(true)
	env.EXPECT().RunInstaller(gomock.Any(), "install", "requests").
		Return(ports.CommandResult{ExitCode: 0}, nil)

	querier := mocks.NewMockPackageQuerier(ctrl)
	querier.EXPECT().InstalledVersions(gomock.Any()).
		Return(map[string]string{"requests": "2.31.0"}, nil).Times(2)
	querier.EXPECT().InterpreterVersion(gomock.Any()).Return("3.12.1")

	store := mocks.NewMockConfigStore(ctrl)
	store.EXPECT().Load().Return(m, nil)
	store.EXPECT().Save(m).Return(nil)
	store.EXPECT().SaveLock(gomock.Any()).DoAndReturn(func(lock domain.Lockfile) error {
		assert.Equal(t, "3.12.1", lock.Metadata.PythonVersion)
		entry, ok := lock.Dependencies["requests"]
		require.True(t, ok)
		assert.Equal(t, "2.31.0", entry.Version)
		assert.Equal(t, "==2.31.0", entry.Requested)
		return nil
	})

	bus := mocks.NewMockEventPublisher(ctrl)
	bus.EXPECT().Publish(ports.EventDepsInstall, gomock.Any())

	mgr := deps.NewManager(store, env, querier, bus, testLogger())
	require.NoError(t, mgr.Install(context.Background(), "requests", "", false))

	assert.Equal(t, map[string]string{"requests": "==2.31.0"}, m.Dependencies(false))
}

func TestManager_Install_KeepsExplicitSpec(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := emptyManifest()

	env := mocks.NewMockEnvironment(ctrl)
	env.EXPECT().Exists().Return(true)
	env.EXPECT().RunInstaller(gomock.Any(), "install", "flask^2.0.0").
		Return(ports.CommandResult{ExitCode: 0}, nil)

	querier := mocks.NewMockPackageQuerier(ctrl)
	querier.EXPECT().InstalledVersions(gomock.Any()).
		Return(map[string]string{"flask": "2.3.0"}, nil)
	querier.EXPECT().InterpreterVersion(gomock.Any()).Return("3.12.1")

	store := mocks.NewMockConfigStore(ctrl)
	store.EXPECT().Load().Return(m, nil)
	store.EXPECT().Save(m).Return(nil)
	store.EXPECT().SaveLock(gomock.Any()).Return(nil)

	bus := mocks.NewMockEventPublisher(ctrl)
	bus.EXPECT().Publish(ports.EventDepsInstall, gomock.Any())

	mgr := deps.NewManager(store, env, querier, bus, testLogger())
	require.NoError(t, mgr.Install(context.Background(), "flask", "^2.0.0", true))

	assert.Equal(t, map[string]string{"flask": "^2.0.0"}, m.Dependencies(true))
	assert.Empty(t, m.Dependencies(false))
}

func TestManager_Install_FailedInstallLeavesManifestUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := emptyManifest()

	env := mocks.NewMockEnvironment(ctrl)
	env.EXPECT().Exists().Return(true)
	env.EXPECT().RunInstaller(gomock.Any(), "install", "ghost").
		Return(ports.CommandResult{ExitCode: 1, Stderr: "not found"}, nil)

	querier := mocks.NewMockPackageQuerier(ctrl)
	store := mocks.NewMockConfigStore(ctrl)
	store.EXPECT().Load().Return(m, nil)
	bus := mocks.NewMockEventPublisher(ctrl)

	mgr := deps.NewManager(store, env, querier, bus, testLogger())
	err := mgr.Install(context.Background(), "ghost", "", false)

	assert.ErrorIs(t, err, domain.ErrInstallFailed)
	assert.Empty(t, m.Dependencies(false))
}

func TestManager_Uninstall_RemovesDeclaration(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := emptyManifest()
	m.SetDependency("requests", "^2.0.0", false)

	env := mocks.NewMockEnvironment(ctrl)
	env.EXPECT().RunInstaller(gomock.Any(), "uninstall", "-y", "requests").
		Return(ports.CommandResult{ExitCode: 0}, nil)

	querier := mocks.NewMockPackageQuerier(ctrl)
	querier.EXPECT().InstalledVersions(gomock.Any()).Return(map[string]string{}, nil)
	querier.EXPECT().InterpreterVersion(gomock.Any()).Return("3.12.1")

	store := mocks.NewMockConfigStore(ctrl)
	store.EXPECT().Load().Return(m, nil)
	store.EXPECT().Save(m).Return(nil)
	store.EXPECT().SaveLock(gomock.Any()).Return(nil)

	bus := mocks.NewMockEventPublisher(ctrl)

	mgr := deps.NewManager(store, env, querier, bus, testLogger())
	require.NoError(t, mgr.Uninstall(context.Background(), "requests", false))

	assert.Empty(t, m.Dependencies(false))
}

func TestManager_InstallAll_ReportsFailedSubset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := emptyManifest()
	m.SetDependency("good", "==1.0.0", false)
	m.SetDependency("bad", "==2.0.0", false)

	env := mocks.NewMockEnvironment(ctrl)
	env.EXPECT().Exists().Return(true)
	env.EXPECT().RunInstaller(gomock.Any(), "install", "good==1.0.0").
		Return(ports.CommandResult{ExitCode: 0}, nil)
	env.EXPECT().RunInstaller(gomock.Any(), "install", "bad==2.0.0").
		Return(ports.CommandResult{ExitCode: 1}, nil)

	querier := mocks.NewMockPackageQuerier(ctrl)
	querier.EXPECT().InstalledVersions(gomock.Any()).Return(map[string]string{"good": "1.0.0"}, nil)
	querier.EXPECT().InterpreterVersion(gomock.Any()).Return("3.12.1")

	store := mocks.NewMockConfigStore(ctrl)
	store.EXPECT().Load().Return(m, nil)
	store.EXPECT().SaveLock(gomock.Any()).DoAndReturn(func(lock domain.Lockfile) error {
		// only the materialized dependency is locked
		assert.Contains(t, lock.Dependencies, "good")
		assert.NotContains(t, lock.Dependencies, "bad")
		return nil
	})

	bus := mocks.NewMockEventPublisher(ctrl)

	mgr := deps.NewManager(store, env, querier, bus, testLogger())
	err := mgr.InstallAll(context.Background(), false)

	assert.ErrorIs(t, err, domain.ErrInstallFailed)
	assert.Contains(t, err.Error(), "bad")
}
