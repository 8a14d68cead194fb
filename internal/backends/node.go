package backends

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/internal/adapters/fs"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/adapters/venv"
	"go.trai.ch/pyforge/internal/backends/python"
	"go.trai.ch/pyforge/internal/backends/rustpy"
	"go.trai.ch/pyforge/internal/core/ports"
	"go.trai.ch/pyforge/internal/engine/resolver"
)

// RegistryNodeID is the unique identifier for the backend registry Graft
// node.
const RegistryNodeID graft.ID = "backends.registry"

func init() {
	graft.Register(graft.Node[ports.BackendRegistry]{
		ID:        RegistryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{venv.NodeID, fs.CopierNodeID, resolver.ResolverNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.BackendRegistry, error) {
			env, err := graft.Dep[ports.Environment](ctx)
			if err != nil {
				return nil, err
			}
			copier, err := graft.Dep[*fs.Copier](ctx)
			if err != nil {
				return nil, err
			}
			res, err := graft.Dep[*resolver.ConflictResolver](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			deps := python.NewMaterializer(env, copier, res, log)
			return NewRegistry(
				python.New(copier, deps, log),
				rustpy.New(copier, deps, log),
			), nil
		},
	})
}
