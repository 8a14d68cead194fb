package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/internal/adapters/config"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/adapters/telemetry"
	"go.trai.ch/pyforge/internal/backends"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/pyforge/internal/engine/deps"
	"go.trai.ch/pyforge/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			orchestrator.NodeID,
			deps.NodeID,
			config.NodeID,
			backends.RegistryNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
			if err != nil {
				return nil, err
			}
			depMgr, err := graft.Dep[*deps.Manager](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.ConfigStore](ctx)
			if err != nil {
				return nil, err
			}
			registry, err := graft.Dep[ports.BackendRegistry](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(orch, depMgr, store, registry, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(a, log, tracer), nil
		},
	})
}
