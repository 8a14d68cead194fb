package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pyforge/internal/core/ports"
)

// NodeID is the unique identifier for the config store Graft node.
const NodeID graft.ID = "adapter.config_store"

func init() {
	graft.Register(graft.Node[ports.ConfigStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ConfigStore, error) {
			return NewStore("."), nil
		},
	})
}
