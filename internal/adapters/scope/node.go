package scope

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/facet/internal/adapters/config"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the scope index Graft node.
	NodeID graft.ID = "adapter.scope"
	// HostNodeID is the unique identifier for the component host Graft node.
	HostNodeID graft.ID = "adapter.scope.host"
	// ImporterNodeID is the unique identifier for the importing scope Graft node.
	ImporterNodeID graft.ID = "adapter.scope.importer"
	// WriterNodeID is the unique identifier for the scope writer Graft node.
	WriterNodeID graft.ID = "adapter.scope.writer"
)

func init() {
	graft.Register(graft.Node[*Index]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (*Index, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return Open(filepath.Join(cfg.Root, domain.DefaultScopeIndexPath()), Options{
				DefaultScope: cfg.DefaultScope,
				CacheSize:    cfg.CacheSize,
				Concurrency:  cfg.Concurrency,
			})
		},
	})

	graft.Register(graft.Node[ports.ComponentHost]{
		ID:        HostNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.ComponentHost, error) {
			idx, err := graft.Dep[*Index](ctx)
			if err != nil {
				return nil, err
			}
			return idx, nil
		},
	})

	graft.Register(graft.Node[ports.Scope]{
		ID:        ImporterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.Scope, error) {
			idx, err := graft.Dep[*Index](ctx)
			if err != nil {
				return nil, err
			}
			return idx, nil
		},
	})

	graft.Register(graft.Node[ports.ScopeWriter]{
		ID:        WriterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.ScopeWriter, error) {
			idx, err := graft.Dep[*Index](ctx)
			if err != nil {
				return nil, err
			}
			return idx, nil
		},
	})
}
