// Package fs provides artifact tree copying and content hashing.
package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Copier copies source trees into the output layout, honoring exclude
// globs. Patterns are matched against slash-separated paths relative to
// the copied root; a pattern matching a directory prunes its subtree.
type Copier struct {
	logger ports.Logger
}

// NewCopier creates a Copier.
func NewCopier(logger ports.Logger) *Copier {
	return &Copier{logger: logger}
}

// CopyTree copies src into dst. With preserveRoot the source directory
// itself is recreated under dst; otherwise only its contents are copied.
func (c *Copier) CopyTree(src, dst string, excludes []string, preserveRoot bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "source tree not accessible"), "path", src)
	}
	if !info.IsDir() {
		return zerr.With(zerr.New("source is not a directory"), "path", src)
	}

	target := dst
	if preserveRoot {
		target = filepath.Join(dst, filepath.Base(src))
	}

	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return os.MkdirAll(target, 0o750)
		}

		if excluded(filepath.ToSlash(rel), excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		out := filepath.Join(target, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0o750)
		}
		return c.CopyFile(path, out)
	})
}

// CopyFile copies a single file, creating parent directories as needed.
func (c *Copier) CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create destination directory")
	}

	in, err := os.Open(src) //nolint:gosec // path is rooted in a walked source tree
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source file"), "path", src)
	}
	defer in.Close() //nolint:errcheck // best effort close of read handle

	out, err := os.Create(dst) //nolint:gosec // path is rooted in the output tree
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination file"), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", dst)
	}
	return out.Close()
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
		// A directory pattern like "tests/**" must also prune "tests"
		// itself so the walk skips the subtree.
		if ok, err := doublestar.Match(p, rel+"/"); err == nil && ok {
			return true
		}
	}
	return false
}
