// Package plugins hosts lifecycle plugins and the decoupled event bus.
package plugins

import (
	"go.trai.ch/pyforge/internal/core/ports"
)

// Plugin is one registered lifecycle extension. Hooks run synchronously on
// the orchestrator's phase boundaries; Before may veto a stage by
// returning false.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Before runs ahead of a lifecycle stage. Returning false vetoes the
	// stage.
	Before(event string, context map[string]any) bool

	// After runs once a lifecycle stage completed.
	After(event string, context map[string]any)
}

// Manager dispatches lifecycle hooks to all registered plugins in
// registration order. It implements ports.PluginHost. A panicking plugin
// is isolated: its hook is treated as a pass and the remaining plugins
// still run.
type Manager struct {
	plugins []Plugin
	logger  ports.Logger
}

// NewManager creates a Manager over a fixed plugin list.
func NewManager(logger ports.Logger, plugins ...Plugin) *Manager {
	return &Manager{plugins: plugins, logger: logger}
}

// Before runs every plugin's pre-hook. The stage is vetoed when any plugin
// returns false; remaining plugins are still consulted so each one
// observes the event.
func (m *Manager) Before(event string, context map[string]any) bool {
	proceed := true
	for _, p := range m.plugins {
		if !m.callBefore(p, event, context) {
			m.logger.Warn("plugin vetoed stage", "plugin", p.Name(), "event", event)
			proceed = false
		}
	}
	return proceed
}

// After runs every plugin's post-hook.
func (m *Manager) After(event string, context map[string]any) {
	for _, p := range m.plugins {
		m.callAfter(p, event, context)
	}
}

func (m *Manager) callBefore(p Plugin, event string, context map[string]any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("plugin pre-hook panicked", "plugin", p.Name(), "event", event, "panic", r)
			ok = true
		}
	}()
	return p.Before(event, context)
}

func (m *Manager) callAfter(p Plugin, event string, context map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("plugin post-hook panicked", "plugin", p.Name(), "event", event, "panic", r)
		}
	}()
	p.After(event, context)
}
