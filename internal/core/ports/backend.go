package ports

import (
	"context"

	"go.trai.ch/pyforge/internal/core/domain"
)

// Backend assembles build artifacts for one project flavor. Multiple
// backends may be selected for a single build; each invocation receives its
// own BuildContext and runs prepare before build.
//
//go:generate go run go.uber.org/mock/mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks
type Backend interface {
	// Name is the unique backend identifier used in build.backend and
	// build.backends.
	Name() string

	// ValidateConfig checks backend-specific configuration and returns
	// human-readable error messages.
	ValidateConfig(m domain.Manifest) []string

	// Prepare sets up backend-specific build state ahead of Build.
	Prepare(ctx context.Context, bctx *domain.BuildContext) error

	// Build produces the artifact and returns its path, or "" when the
	// backend produced nothing.
	Build(ctx context.Context, bctx *domain.BuildContext) (string, error)

	// DefaultConfig returns the backend's default build configuration,
	// merged into scaffolded manifests.
	DefaultConfig() map[string]any

	// BuildRequirements lists installer requirements needed before this
	// backend can run.
	BuildRequirements() []string
}

// BackendRegistry resolves backend names to implementations. It is passed
// into the orchestrator at construction time; there is no process-global
// registry.
type BackendRegistry interface {
	// Get returns the backend registered under name.
	Get(name string) (Backend, bool)

	// Names lists registered backend names in sorted order.
	Names() []string
}
