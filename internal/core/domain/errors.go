package domain

import "go.trai.ch/zerr"

var (
	// ErrProjectNotInitialized is returned when no configuration file
	// exists in the project root.
	ErrProjectNotInitialized = zerr.New("project not initialized, run the init command first")

	// ErrConfigInvalid is returned when configuration validation produced
	// errors.
	ErrConfigInvalid = zerr.New("configuration validation failed")

	// ErrBackendUnavailable is returned when a selected backend name has no
	// registered implementation.
	ErrBackendUnavailable = zerr.New("unsupported build backend")

	// ErrPluginAborted is returned when a plugin pre-hook vetoed a
	// lifecycle stage.
	ErrPluginAborted = zerr.New("plugin aborted the build stage")

	// ErrInstallFailed is returned when the environment installer reported
	// a failure that could not be traced to a version conflict.
	ErrInstallFailed = zerr.New("dependency installation failed")

	// ErrUnresolvedConflicts is returned when version conflicts remain
	// after remediation.
	ErrUnresolvedConflicts = zerr.New("unresolved dependency conflicts")

	// ErrEnvironmentNotReady is returned when the virtual environment is
	// missing or could not be created.
	ErrEnvironmentNotReady = zerr.New("virtual environment is not available")

	// ErrBuildFailed is the terminal error surfaced by the CLI when the
	// orchestrator reports an unsuccessful build.
	ErrBuildFailed = zerr.New("build failed")
)
