package dependencies

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/facet/internal/adapters/config"
	"go.trai.ch/facet/internal/adapters/scope"
	"go.trai.ch/facet/internal/adapters/telemetry/progrock"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
)

const (
	// FactoryNodeID is the unique identifier for the component dependency factory node.
	FactoryNodeID graft.ID = "dependencies.factory"
	// RegistryNodeID is the unique identifier for the dependency registry node.
	RegistryNodeID graft.ID = "dependencies.registry"
)

func init() {
	graft.Register(graft.Node[*ComponentDependencyFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, scope.HostNodeID, progrock.NodeID},
		Run: func(ctx context.Context) (*ComponentDependencyFactory, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			host, err := graft.Dep[ports.ComponentHost](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponentDependencyFactory(host, tel, cfg.BindingPrefix, cfg.Concurrency), nil
		},
	})

	graft.Register(graft.Node[*Registry]{
		ID:        RegistryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, FactoryNodeID},
		Run: func(ctx context.Context) (*Registry, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			factory, err := graft.Dep[*ComponentDependencyFactory](ctx)
			if err != nil {
				return nil, err
			}
			return NewRegistry(cfg.Concurrency, factory), nil
		},
	})
}
