package plugins

import (
	"context"

	"go.trai.ch/pyforge/internal/core/ports"
)

// lifecycleEvents are the event names the telemetry bridge listens on.
var lifecycleEvents = []string{
	ports.EventVenv,
	ports.EventDepsInstall,
	ports.EventBuild,
	ports.EventBackendPrepare,
	ports.EventBackendBuild,
}

// BridgeTelemetry subscribes a tracer to every lifecycle event so that
// published notifications show up as instant spans in the progress
// recording. Returns the subscriptions for later removal.
func BridgeTelemetry(bus *EventBus, tracer ports.Tracer) []*Subscription {
	subs := make([]*Subscription, 0, len(lifecycleEvents))
	for _, event := range lifecycleEvents {
		subs = append(subs, bus.Subscribe(event, func(event string, _ map[string]any) {
			_, span := tracer.Start(context.Background(), "event:"+event)
			span.End()
		}))
	}
	return subs
}
