package plugins

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/adapters/telemetry"
	"go.trai.ch/pyforge/internal/core/ports"
)

const (
	// HostNodeID is the unique identifier for the plugin host Graft node.
	HostNodeID graft.ID = "plugins.host"
	// BusNodeID is the unique identifier for the event bus Graft node.
	BusNodeID graft.ID = "plugins.event_bus"
)

func init() {
	graft.Register(graft.Node[ports.PluginHost]{
		ID:        HostNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.PluginHost, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewManager(log, NewCleanupPlugin(".", log)), nil
		},
	})

	graft.Register(graft.Node[ports.EventPublisher]{
		ID:        BusNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, telemetry.NodeID},
		Run: func(ctx context.Context) (ports.EventPublisher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			bus := NewEventBus(log)
			BridgeTelemetry(bus, tracer)
			return bus, nil
		},
	})
}
