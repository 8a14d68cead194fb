package deps

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/internal/adapters/config"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/adapters/pip"
	"go.trai.ch/pyforge/internal/adapters/venv"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/pyforge/internal/plugins"
)

// NodeID is the unique identifier for the dependency manager Graft node.
const NodeID graft.ID = "engine.dependency_manager"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, venv.NodeID, pip.NodeID, plugins.BusNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Manager, error) {
			store, err := graft.Dep[ports.ConfigStore](ctx)
			if err != nil {
				return nil, err
			}
			env, err := graft.Dep[ports.Environment](ctx)
			if err != nil {
				return nil, err
			}
			querier, err := graft.Dep[ports.PackageQuerier](ctx)
			if err != nil {
				return nil, err
			}
			bus, err := graft.Dep[ports.EventPublisher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewManager(store, env, querier, bus, log), nil
		},
	})
}
