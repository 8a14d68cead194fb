// Package rustpy implements the Rust extension build backend: it compiles
// a PyO3-style crate with cargo and places the resulting extension module
// into the site-packages output tree alongside the project's Python
// sources and dependencies.
package rustpy

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/pyforge/internal/adapters/fs"
	"go.trai.ch/pyforge/internal/backends/python"
	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Name is the backend identifier.
const Name = "rust-python"

var artifactExtensions = []string{".pyd", ".dll", ".so", ".dylib"}

// Backend builds Rust extension projects.
type Backend struct {
	copier *fs.Copier
	deps   *python.Materializer
	logger ports.Logger
}

// New creates the Rust extension backend.
func New(copier *fs.Copier, deps *python.Materializer, logger ports.Logger) *Backend {
	return &Backend{copier: copier, deps: deps, logger: logger}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return Name }

// ValidateConfig checks the build.rust-python table.
func (b *Backend) ValidateConfig(m domain.Manifest) []string {
	var errs []string

	cfg := b.config(m)
	for _, key := range []string{"cargo-toml", "cargo-target-dir", "source", "module", "artifact", "profile"} {
		if v, present := cfg[key]; present {
			if _, ok := v.(string); !ok {
				errs = append(errs, "build.rust-python."+key+" must be a string")
			}
		}
	}
	if exclude, present := cfg["exclude"]; present {
		if _, ok := exclude.([]any); !ok {
			errs = append(errs, "build.rust-python.exclude must be a list of patterns")
		}
	}
	return errs
}

// Prepare verifies the crate manifest exists and pins the cargo target
// directory for the build step.
func (b *Backend) Prepare(_ context.Context, bctx *domain.BuildContext) error {
	cfg := b.config(bctx.Config)

	cargoToml := "Cargo.toml"
	if v, ok := cfg["cargo-toml"].(string); ok && v != "" {
		cargoToml = v
	}
	cargoPath := filepath.Join(bctx.ProjectRoot, cargoToml)
	if _, err := os.Stat(cargoPath); err != nil {
		return zerr.With(zerr.New("crate manifest not found"), "path", cargoPath)
	}
	bctx.BuildInfo["cargo_toml"] = cargoPath

	targetDir, _ := cfg["cargo-target-dir"].(string)
	if targetDir == "" {
		tmp, err := bctx.TempDir("cargo_target")
		if err != nil {
			return zerr.Wrap(err, "failed to allocate cargo target directory")
		}
		targetDir = tmp
	} else if !filepath.IsAbs(targetDir) {
		targetDir = filepath.Join(bctx.ProjectRoot, targetDir)
	}
	bctx.BuildInfo["cargo_target_dir"] = targetDir
	return nil
}

// Build runs cargo, installs the compiled extension module into
// site-packages, and copies the Python-side sources and dependencies.
func (b *Backend) Build(ctx context.Context, bctx *domain.BuildContext) (string, error) {
	cfg := b.config(bctx.Config)

	targetDir, _ := bctx.BuildInfo["cargo_target_dir"].(string)
	if targetDir == "" {
		return "", zerr.New("build context is missing the cargo target directory, prepare did not run")
	}

	release := true
	if profile, ok := cfg["profile"].(string); ok && profile == "debug" {
		release = false
	}

	if err := b.runCargo(ctx, bctx.ProjectRoot, targetDir, release); err != nil {
		return "", err
	}

	site := bctx.SitePackagesDir()
	if err := os.MkdirAll(site, 0o750); err != nil {
		return "", zerr.Wrap(err, "failed to create site-packages directory")
	}

	hint, _ := cfg["artifact"].(string)
	artifact, err := b.findArtifact(targetDir, release, hint)
	if err != nil {
		return "", err
	}
	dest := b.moduleDest(site, cfg, artifact)
	if err := b.copier.CopyFile(artifact, dest); err != nil {
		return "", zerr.Wrap(err, "failed to install extension module")
	}
	b.logger.Info("extension module installed", "artifact", filepath.Base(artifact), "dest", dest)

	if source, ok := cfg["source"].(string); ok && source != "" {
		srcDir := filepath.Join(bctx.ProjectRoot, source)
		if _, err := os.Stat(srcDir); err == nil {
			excludes := b.excludePatterns(bctx.Config)
			if err := b.copier.CopyTree(srcDir, site, excludes, false); err != nil {
				return "", zerr.Wrap(err, "failed to copy python sources")
			}
		}
	}

	if err := b.deps.Materialize(ctx, site, bctx.Config.Dependencies(false)); err != nil {
		return "", err
	}
	return site, nil
}

// DefaultConfig returns the build.rust-python defaults merged into
// scaffolded manifests.
func (b *Backend) DefaultConfig() map[string]any {
	return map[string]any{
		"rust-python": map[string]any{
			"source":     "python",
			"exclude":    []any{"**/__pycache__/**", "**/*.pyc", "target/**", "tests/**"},
			"cargo-toml": "Cargo.toml",
			"profile":    "release",
			"module":     "",
			"artifact":   "",
		},
	}
}

// BuildRequirements lists installer requirements; cargo is expected on the
// host, not installed through the environment.
func (b *Backend) BuildRequirements() []string { return nil }

func (b *Backend) runCargo(ctx context.Context, root, targetDir string, release bool) error {
	args := []string{"build"}
	if release {
		args = append(args, "--release")
	}

	cmd := exec.CommandContext(ctx, "cargo", args...)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CARGO_TARGET_DIR="+targetDir)

	b.logger.Info("running cargo build", "release", release, "target_dir", targetDir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "cargo build failed"), "output", strings.TrimSpace(string(out)))
	}
	return nil
}

// findArtifact locates the newest compiled extension artifact under the
// cargo build directory. Windows .pyd artifacts win over other extensions
// when both exist.
func (b *Backend) findArtifact(targetDir string, release bool, hint string) (string, error) {
	buildDir := filepath.Join(targetDir, profileDir(release))

	var candidates []string
	for _, ext := range artifactExtensions {
		pattern := "*" + ext
		if hint != "" {
			pattern = hint + "*" + ext
		}
		matches, err := doublestar.Glob(os.DirFS(buildDir), pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			candidates = append(candidates, filepath.Join(buildDir, m))
		}
	}
	if len(candidates) == 0 {
		return "", zerr.With(zerr.New("no extension artifact produced"), "dir", buildDir)
	}

	if pyd := newestWithExt(candidates, ".pyd"); pyd != "" {
		return pyd, nil
	}
	return newestWithExt(candidates, ""), nil
}

// moduleDest resolves the artifact's destination path, honoring the module
// override and normalizing the platform lib prefix.
func (b *Backend) moduleDest(site string, cfg map[string]any, artifact string) string {
	base := filepath.Base(artifact)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	name = strings.TrimPrefix(name, "lib")
	switch ext {
	case ".dylib":
		ext = ".so"
	case ".dll":
		ext = ".pyd"
	}

	if module, ok := cfg["module"].(string); ok && module != "" {
		parts := strings.Split(module, ".")
		parts[len(parts)-1] += ext
		return filepath.Join(append([]string{site}, parts...)...)
	}
	return filepath.Join(site, name+ext)
}

func (b *Backend) config(m domain.Manifest) map[string]any {
	cfg, _ := m.BuildSection()["rust-python"].(map[string]any)
	return cfg
}

func (b *Backend) excludePatterns(m domain.Manifest) []string {
	raw, _ := b.config(m)["exclude"].([]any)
	patterns := make([]string, 0, len(raw))
	for _, v := range raw {
		if p, ok := v.(string); ok {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

func profileDir(release bool) string {
	if release {
		return "release"
	}
	return "debug"
}

// newestWithExt picks the most recently modified candidate, optionally
// restricted to one extension.
func newestWithExt(candidates []string, ext string) string {
	var newest string
	var newestMod int64
	for _, c := range candidates {
		if ext != "" && filepath.Ext(c) != ext {
			continue
		}
		info, err := os.Stat(c)
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().UnixNano() > newestMod {
			newest = c
			newestMod = info.ModTime().UnixNano()
		}
	}
	return newest
}
