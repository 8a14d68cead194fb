package plugins

import (
	"os"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/pyforge/internal/core/ports"
)

var importPattern = regexp.MustCompile(`(?m)^\s*(?:import|from)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// CleanupPlugin warns about declared dependencies that no project source
// file imports. It hooks the dependency-install stage, where the declared
// set is available, and never vetoes.
type CleanupPlugin struct {
	root   string
	logger ports.Logger
}

// NewCleanupPlugin creates a CleanupPlugin scanning sources under root.
func NewCleanupPlugin(root string, logger ports.Logger) *CleanupPlugin {
	return &CleanupPlugin{root: root, logger: logger}
}

// Name identifies the plugin in logs.
func (p *CleanupPlugin) Name() string { return "dep-cleanup" }

// Before warns about declared-but-unimported dependencies ahead of the
// dependency install. It always lets the stage proceed.
func (p *CleanupPlugin) Before(event string, context map[string]any) bool {
	if event != ports.EventDepsInstall {
		return true
	}
	declared, ok := context["dependencies"].(map[string]string)
	if !ok || len(declared) == 0 {
		return true
	}

	imported := p.importedModules()
	for name := range declared {
		module := strings.ToLower(strings.ReplaceAll(name, "-", "_"))
		if _, used := imported[module]; !used {
			p.logger.Warn("declared dependency is never imported", "package", name)
		}
	}
	return true
}

// After is a no-op.
func (p *CleanupPlugin) After(string, map[string]any) {}

// importedModules collects the top-level module names imported by any
// Python source under the project root. Scan failures degrade to an empty
// set; an unreadable tree must not block an install.
func (p *CleanupPlugin) importedModules() map[string]struct{} {
	imported := map[string]struct{}{}

	matches, err := doublestar.Glob(os.DirFS(p.root), "**/*.py")
	if err != nil {
		return imported
	}
	for _, rel := range matches {
		if strings.HasPrefix(rel, ".venv/") || strings.HasPrefix(rel, "dist/") {
			continue
		}
		data, err := os.ReadFile(p.root + "/" + rel)
		if err != nil {
			continue
		}
		for _, m := range importPattern.FindAllStringSubmatch(string(data), -1) {
			imported[strings.ToLower(m[1])] = struct{}{}
		}
	}
	return imported
}
