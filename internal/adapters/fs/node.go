package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/internal/adapters/logger"
	"go.trai.ch/pyforge/internal/core/ports"
)

const (
	// CopierNodeID is the unique identifier for the tree copier Graft node.
	CopierNodeID graft.ID = "adapter.fs_copier"
	// HasherNodeID is the unique identifier for the tree hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs_hasher"
)

func init() {
	graft.Register(graft.Node[*Copier]{
		ID:        CopierNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Copier, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewCopier(log), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
