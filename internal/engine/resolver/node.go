package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/adapters/pip"
	"go.trai.ch/pyforge/internal/adapters/venv"
	"go.trai.ch/pyforge/internal/core/ports"
)

const (
	// GraphNodeID is the unique identifier for the dependency graph Graft node.
	GraphNodeID graft.ID = "engine.dependency_graph"
	// ResolverNodeID is the unique identifier for the conflict resolver Graft node.
	ResolverNodeID graft.ID = "engine.conflict_resolver"
	// CheckerNodeID is the unique identifier for the strict checker Graft node.
	CheckerNodeID graft.ID = "engine.strict_checker"
)

func init() {
	graft.Register(graft.Node[*Graph]{
		ID:        GraphNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{pip.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Graph, error) {
			querier, err := graft.Dep[ports.PackageQuerier](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewGraph(querier, log), nil
		},
	})

	graft.Register(graft.Node[*ConflictResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{venv.NodeID, GraphNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*ConflictResolver, error) {
			env, err := graft.Dep[ports.Environment](ctx)
			if err != nil {
				return nil, err
			}
			graph, err := graft.Dep[*Graph](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewConflictResolver(env, graph, log), nil
		},
	})

	graft.Register(graft.Node[*StrictChecker]{
		ID:        CheckerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{pip.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*StrictChecker, error) {
			querier, err := graft.Dep[ports.PackageQuerier](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStrictChecker(querier, log), nil
		},
	})
}
