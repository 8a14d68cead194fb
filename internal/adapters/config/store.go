// Package config provides the TOML manifest store for pyforge.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// ManifestFilename is the project manifest file name.
	ManifestFilename = "pypackage.toml"
	// LockFilename is the dependency lock file name.
	LockFilename = "pypackage.lock"
)

// Store implements ports.ConfigStore over pypackage.toml in a project root.
type Store struct {
	root string
}

var _ ports.ConfigStore = (*Store)(nil)

// NewStore creates a Store rooted at the given project directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// ManifestPath returns the absolute path of the manifest file.
func (s *Store) ManifestPath() string {
	return filepath.Join(s.root, ManifestFilename)
}

// Exists reports whether the manifest file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.ManifestPath())
	return err == nil
}

// Load reads and decodes the manifest.
func (s *Store) Load() (domain.Manifest, error) {
	data, err := os.ReadFile(s.ManifestPath()) //nolint:gosec // path is rooted in the project dir
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read manifest")
	}

	var m domain.Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}
	return m, nil
}

// Save writes the manifest back to disk.
func (s *Store) Save(m domain.Manifest) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]any(m)); err != nil {
		return zerr.Wrap(err, "failed to encode manifest")
	}
	if err := os.WriteFile(s.ManifestPath(), buf.Bytes(), 0o644); err != nil { //nolint:gosec // manifest is a project file
		return zerr.Wrap(err, "failed to write manifest")
	}
	return nil
}

// SaveLock writes the dependency lock file as indented JSON.
func (s *Store) SaveLock(lock domain.Lockfile) error {
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode lock file")
	}
	path := filepath.Join(s.root, LockFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // lock is a project file
		return zerr.Wrap(err, "failed to write lock file")
	}
	return nil
}

// Validate checks the manifest structure. All problems are reported as
// human-readable strings; a structurally hopeless manifest never produces
// an error, only messages.
func (s *Store) Validate(m domain.Manifest) []string {
	var errs []string

	project, ok := m["project"].(map[string]any)
	if !ok {
		errs = append(errs, "missing [project] section")
	} else {
		if name, _ := project["name"].(string); name == "" {
			errs = append(errs, "project.name must not be empty")
		}
		if version, _ := project["version"].(string); version == "" {
			errs = append(errs, "project.version must not be empty")
		}
	}

	errs = append(errs, validateDepsTable(m, "dependencies")...)
	errs = append(errs, validateDepsTable(m, "dev-dependencies")...)

	if raw, present := m["build"]; present {
		build, ok := raw.(map[string]any)
		if !ok {
			errs = append(errs, "build must be a table")
			return errs
		}
		if name, present := build["backend"]; present {
			if _, ok := name.(string); !ok {
				errs = append(errs, "build.backend must be a string")
			}
		}
		if raw, present := build["backends"]; present {
			extras, ok := raw.([]any)
			if !ok {
				errs = append(errs, "build.backends must be a list of backend names")
			} else {
				for _, e := range extras {
					if _, ok := e.(string); !ok {
						errs = append(errs, fmt.Sprintf("build.backends entry %v must be a string", e))
					}
				}
			}
		}
	}

	return errs
}

func validateDepsTable(m domain.Manifest, key string) []string {
	raw, present := m[key]
	if !present {
		return nil
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("%s must be a table of name = \"spec\" entries", key)}
	}
	var errs []string
	for name, v := range table {
		if _, ok := v.(string); !ok {
			errs = append(errs, fmt.Sprintf("%s.%s must be a version specifier string", key, name))
		}
	}
	return errs
}
