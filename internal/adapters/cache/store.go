// Package cache implements the per-backend build cache store.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultDirName is the cache directory created under the project root.
const DefaultDirName = ".build-cache"

type entry struct {
	Key string `json:"key"`
}

// Store implements ports.BuildCache with one JSON file per backend name
// under a cache directory. Entries for different backend names live in
// different files and cannot collide; same-name writes are serialized.
type Store struct {
	dir string
	mu  sync.Mutex
}

var _ ports.BuildCache = (*Store)(nil)

// NewStore creates a Store writing into dir.
func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

func (s *Store) file(backendName string) string {
	return filepath.Join(s.dir, backendName+".json")
}

// Get returns the stored key for a backend name, or "" when no entry
// exists. A corrupt entry reads as absent rather than failing, so a
// damaged cache only costs a rebuild.
func (s *Store) Get(backendName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.file(backendName)) //nolint:gosec // path derives from a registered backend name
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", zerr.With(zerr.Wrap(err, "failed to read cache entry"), "backend", backendName)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", nil
	}
	return e.Key, nil
}

// Put stores the key for a backend name, overwriting any prior entry.
func (s *Store) Put(backendName, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create cache directory")
	}

	data, err := json.MarshalIndent(entry{Key: key}, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode cache entry")
	}

	if err := os.WriteFile(s.file(backendName), data, 0o644); err != nil { //nolint:gosec // cache file under project dir
		return zerr.With(zerr.Wrap(err, "failed to write cache entry"), "backend", backendName)
	}
	return nil
}
