package pip

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/adapters/venv"
	"go.trai.ch/pyforge/internal/core/ports"
)

// NodeID is the unique identifier for the package querier Graft node.
const NodeID graft.ID = "adapter.package_querier"

func init() {
	graft.Register(graft.Node[ports.PackageQuerier]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{venv.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.PackageQuerier, error) {
			env, err := graft.Dep[ports.Environment](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewQuerier(env, log), nil
		},
	})
}
