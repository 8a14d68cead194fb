package domain

import (
	"os"
	"path/filepath"
)

// BuildContext is the per-invocation state handed to one backend run. Each
// concurrent backend run receives its own instance; nothing here is shared
// or synchronized. BuildInfo is a free-form bag for communication between a
// backend's prepare and build steps.
type BuildContext struct {
	ProjectRoot string
	Config      Manifest
	OutputDir   string
	BuildInfo   map[string]any

	tempDir string
}

// NewBuildContext creates a context rooted at projectRoot. An empty
// outputDir defaults to <projectRoot>/dist.
func NewBuildContext(projectRoot string, config Manifest, outputDir string) *BuildContext {
	if outputDir == "" {
		outputDir = filepath.Join(projectRoot, "dist")
	}
	return &BuildContext{
		ProjectRoot: projectRoot,
		Config:      config,
		OutputDir:   outputDir,
		BuildInfo:   make(map[string]any),
	}
}

// SetTempDir pins the context to an explicit temporary directory, creating
// it if needed.
func (c *BuildContext) SetTempDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	c.tempDir = dir
	return nil
}

// TempDir returns the build's temporary directory, creating it lazily on
// first use. A non-empty suffix names a dedicated subdirectory.
func (c *BuildContext) TempDir(suffix string) (string, error) {
	if c.tempDir == "" {
		dir, err := os.MkdirTemp("", "pyforge_build_")
		if err != nil {
			return "", err
		}
		c.tempDir = dir
	}
	if suffix == "" {
		return c.tempDir, nil
	}
	sub := filepath.Join(c.tempDir, suffix)
	if err := os.MkdirAll(sub, 0o750); err != nil {
		return "", err
	}
	return sub, nil
}

// Cleanup removes the lazily-created temporary directory. Best effort; a
// failed removal is not reported.
func (c *BuildContext) Cleanup() {
	if c.tempDir != "" {
		_ = os.RemoveAll(c.tempDir)
	}
}

// SitePackagesDir resolves the site-packages directory under the output
// path. When the output path itself is already named site-packages it is
// used directly.
func (c *BuildContext) SitePackagesDir() string {
	if filepath.Base(c.OutputDir) == "site-packages" {
		return c.OutputDir
	}
	return filepath.Join(c.OutputDir, "site-packages")
}
