package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/facet/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/facet/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/facet/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/facet/internal/adapters/scope"              //nolint:depguard // Wired in app layer
	"go.trai.ch/facet/internal/adapters/store"              //nolint:depguard // Wired in app layer
	"go.trai.ch/facet/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/facet/internal/dependencies"
	"go.trai.ch/facet/internal/engine/snapshot"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			fs.ManifestLoaderNodeID,
			snapshot.NodeID,
			dependencies.FactoryNodeID,
			dependencies.RegistryNodeID,
			scope.HostNodeID,
			scope.ImporterNodeID,
			scope.WriterNodeID,
			store.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
			store.NodeID,
			config.ConfigNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	manifests, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}

	snapshotter, err := graft.Dep[*snapshot.Snapshotter](ctx)
	if err != nil {
		return nil, err
	}

	factory, err := graft.Dep[*dependencies.ComponentDependencyFactory](ctx)
	if err != nil {
		return nil, err
	}

	registry, err := graft.Dep[*dependencies.Registry](ctx)
	if err != nil {
		return nil, err
	}

	host, err := graft.Dep[ports.ComponentHost](ctx)
	if err != nil {
		return nil, err
	}

	importer, err := graft.Dep[ports.Scope](ctx)
	if err != nil {
		return nil, err
	}

	writer, err := graft.Dep[ports.ScopeWriter](ctx)
	if err != nil {
		return nil, err
	}

	objectStore, err := graft.Dep[ports.ObjectStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(cfg, manifests, snapshotter, factory, registry, host, importer, writer, objectStore, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	objectStore, err := graft.Dep[ports.ObjectStore](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log, telemetry, objectStore, cfg), nil
}
