package ports

import (
	"context"

	"go.trai.ch/pyforge/internal/core/domain"
)

// PackageQuerier reads installed-package state out of the environments.
// Implementations never mutate installed state.
//
//go:generate go run go.uber.org/mock/mockgen -source=querier.go -destination=mocks/mock_querier.go -package=mocks
type PackageQuerier interface {
	// Snapshot enumerates the isolated environment's installed packages
	// together with their immediate requirements.
	Snapshot(ctx context.Context) (map[string]domain.PackageRecord, error)

	// InstalledVersions lists name-to-version for the isolated environment.
	InstalledVersions(ctx context.Context) (map[string]string, error)

	// HostVersions lists name-to-version for the host interpreter's
	// environment.
	HostVersions(ctx context.Context) (map[string]string, error)

	// InterpreterVersion reports the isolated interpreter's version string,
	// or "" when unavailable.
	InterpreterVersion(ctx context.Context) string
}
