package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/internal/core/ports"
)

// NodeID is the unique identifier for the build cache Graft node.
const NodeID graft.ID = "adapter.build_cache"

func init() {
	graft.Register(graft.Node[ports.BuildCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.BuildCache, error) {
			return NewStore(DefaultDirName), nil
		},
	})
}
