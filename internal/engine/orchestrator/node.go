package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/internal/adapters/cache"
	"go.trai.ch/pyforge/internal/adapters/config"
	"go.trai.ch/pyforge/internal/adapters/fs"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/adapters/telemetry"
	"go.trai.ch/pyforge/internal/adapters/venv"
	"go.trai.ch/pyforge/internal/backends"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/pyforge/internal/engine/resolver"
	"go.trai.ch/pyforge/internal/plugins"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			venv.NodeID,
			backends.RegistryNodeID,
			cache.NodeID,
			fs.HasherNodeID,
			resolver.ResolverNodeID,
			resolver.CheckerNodeID,
			plugins.HostNodeID,
			plugins.BusNodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			store, err := graft.Dep[ports.ConfigStore](ctx)
			if err != nil {
				return nil, err
			}
			env, err := graft.Dep[ports.Environment](ctx)
			if err != nil {
				return nil, err
			}
			registry, err := graft.Dep[ports.BackendRegistry](ctx)
			if err != nil {
				return nil, err
			}
			buildCache, err := graft.Dep[ports.BuildCache](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			res, err := graft.Dep[*resolver.ConflictResolver](ctx)
			if err != nil {
				return nil, err
			}
			checker, err := graft.Dep[*resolver.StrictChecker](ctx)
			if err != nil {
				return nil, err
			}
			host, err := graft.Dep[ports.PluginHost](ctx)
			if err != nil {
				return nil, err
			}
			bus, err := graft.Dep[ports.EventPublisher](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(store, env, registry, buildCache, hasher, res, checker, host, bus, tracer, log), nil
		},
	})
}
