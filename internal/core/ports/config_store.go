package ports

import "go.trai.ch/pyforge/internal/core/domain"

// ConfigStore loads, validates, and persists the project manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_store.go -destination=mocks/mock_config_store.go -package=mocks
type ConfigStore interface {
	// Exists reports whether a manifest file is present.
	Exists() bool

	// Load reads and decodes the manifest.
	Load() (domain.Manifest, error)

	// Validate checks the manifest structure and returns human-readable
	// error messages. An empty slice means the manifest is valid; schema
	// problems are never surfaced as errors.
	Validate(m domain.Manifest) []string

	// Save writes the manifest back to disk.
	Save(m domain.Manifest) error

	// SaveLock writes the dependency lock file.
	SaveLock(lock domain.Lockfile) error
}
