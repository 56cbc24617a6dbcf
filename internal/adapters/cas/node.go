package cas

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/facet/internal/adapters/config"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
)

// NodeID is the unique identifier for the snapshot info store Graft node.
const NodeID graft.ID = "adapter.snapshot_info_store"

func init() {
	graft.Register(graft.Node[ports.SnapshotInfoStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (ports.SnapshotInfoStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(filepath.Join(cfg.Root, domain.DefaultSnapshotStatePath()))
		},
	})
}
