package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Hasher computes content hashes of artifact trees for build-info
// reporting.
type Hasher struct{}

var _ ports.Hasher = (*Hasher)(nil)

// NewHasher creates a Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// TreeHash computes a deterministic hash over every regular file under
// root: relative paths and contents, visited in sorted order.
func (h *Hasher) TreeHash(root string) (string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to walk tree"), "root", root)
	}
	sort.Strings(files)

	digest := xxhash.New()
	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return "", err
		}
		_, _ = digest.WriteString(filepath.ToSlash(rel))

		f, err := os.Open(path) //nolint:gosec // path comes from the walk above
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to open file for hashing"), "path", path)
		}
		if _, err := io.Copy(digest, f); err != nil {
			_ = f.Close()
			return "", zerr.With(zerr.Wrap(err, "failed to hash file"), "path", path)
		}
		_ = f.Close()
	}

	return fmt.Sprintf("%016x", digest.Sum64()), nil
}
