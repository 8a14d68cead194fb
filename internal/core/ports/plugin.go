package ports

// Lifecycle event names recognized by plugin hooks.
const (
	EventVenv           = "venv"
	EventDepsInstall    = "deps_install"
	EventBuild          = "build"
	EventBackendPrepare = "backend_prepare"
	EventBackendBuild   = "backend_build"
)

// PluginHost dispatches lifecycle hooks to registered plugins.
//
//go:generate go run go.uber.org/mock/mockgen -source=plugin.go -destination=mocks/mock_plugin.go -package=mocks
type PluginHost interface {
	// Before runs pre-hooks for an event. A false return vetoes the stage
	// and aborts the surrounding flow.
	Before(event string, context map[string]any) bool

	// After runs post-hooks for an event.
	After(event string, context map[string]any)
}

// EventPublisher emits decoupled lifecycle notifications. Publishing never
// fails and never blocks the build on a subscriber.
type EventPublisher interface {
	Publish(event string, payload map[string]any)
}
