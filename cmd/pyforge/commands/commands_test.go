package commands_test

import (
	"context"
	"io"
	"testing"

	"go.trai.ch/pyforge/cmd/pyforge/commands"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/app"
	"go.trai.ch/pyforge/internal/backends"
	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/pyforge/internal/core/ports/mocks"
	"go.trai.ch/pyforge/internal/engine/deps"
	"go.uber.org/mock/gomock"
)

type testPublisher struct{}

func (testPublisher) Publish(string, map[string]any) {}

func newCLI(store *mocks.MockConfigStore, env *mocks.MockEnvironment, querier *mocks.MockPackageQuerier) *commands.CLI {
	log := logger.NewWithWriter(io.Discard)
	manager := deps.NewManager(store, env, querier, testPublisher{}, log)
	a := app.New(nil, manager, store, backends.NewRegistry(), log)
	return commands.New(a)
}

func TestInstall_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockConfigStore(ctrl)
	env := mocks.NewMockEnvironment(ctrl)
	querier := mocks.NewMockPackageQuerier(ctrl)

	// 1. The environment already exists, so no creation happens
	env.EXPECT().Exists().Return(true).Times(1)

	// 2. The manifest is loaded before the installer runs
	manifest := domain.Manifest{
		"project": map[string]any{"name": "demo", "version": "0.1.0"},
	}
	store.EXPECT().Load().Return(manifest, nil).Times(1)

	// 3. The installer is invoked with the combined requirement
	env.EXPECT().RunInstaller(gomock.Any(), "install", "requests^2.31.0").
		Return(ports.CommandResult{ExitCode: 0}, nil).Times(1)

	// 4. The manifest is saved with the new declaration
	store.EXPECT().Save(gomock.Any()).Return(nil).Times(1)

	// 5. The lock file is regenerated from the installed state
	querier.EXPECT().InstalledVersions(gomock.Any()).
		Return(map[string]string{"requests": "2.31.0"}, nil).Times(1)
	querier.EXPECT().InterpreterVersion(gomock.Any()).Return("3.12.1").Times(1)
	store.EXPECT().SaveLock(gomock.Any()).Return(nil).Times(1)

	cli := newCLI(store, env, querier)
	cli.SetArgs([]string{"install", "requests", "--spec", "^2.31.0"})

	if err := cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestUninstall_RequiresPackageArgument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cli := newCLI(mocks.NewMockConfigStore(ctrl), mocks.NewMockEnvironment(ctrl), mocks.NewMockPackageQuerier(ctrl))
	cli.SetArgs([]string{"uninstall"})

	if err := cli.Execute(context.Background()); err == nil {
		t.Error("Expected an argument error, got nil")
	}
}

func TestList_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockConfigStore(ctrl)
	env := mocks.NewMockEnvironment(ctrl)
	querier := mocks.NewMockPackageQuerier(ctrl)

	querier.EXPECT().InstalledVersions(gomock.Any()).
		Return(map[string]string{"requests": "2.31.0", "flask": "3.0.0"}, nil).Times(1)

	cli := newCLI(store, env, querier)
	cli.SetArgs([]string{"list"})

	if err := cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestRoot_Help(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cli := newCLI(mocks.NewMockConfigStore(ctrl), mocks.NewMockEnvironment(ctrl), mocks.NewMockPackageQuerier(ctrl))
	cli.SetArgs([]string{"--help"})

	// Cobra handles help itself; no error expected
	if err := cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error for help, got: %v", err)
	}
}
