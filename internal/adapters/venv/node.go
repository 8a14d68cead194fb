package venv

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/core/ports"
)

// NodeID is the unique identifier for the environment Graft node.
const NodeID graft.ID = "adapter.environment"

func init() {
	graft.Register(graft.Node[ports.Environment]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Environment, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(".", log), nil
		},
	})
}
