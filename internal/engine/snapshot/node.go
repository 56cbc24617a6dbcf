package snapshot

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/facet/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/facet/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/facet/internal/adapters/scope"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/facet/internal/adapters/store"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/facet/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/facet/internal/dependencies"
)

// NodeID is the unique identifier for the snapshotter Graft node.
const NodeID graft.ID = "engine.snapshot"

func init() {
	graft.Register(graft.Node[*Snapshotter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			store.NodeID,
			dependencies.FactoryNodeID,
			scope.ImporterNodeID,
			scope.WriterNodeID,
			cas.NodeID,
			fs.HasherNodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Snapshotter, error) {
			objectStore, err := graft.Dep[ports.ObjectStore](ctx)
			if err != nil {
				return nil, err
			}

			factory, err := graft.Dep[*dependencies.ComponentDependencyFactory](ctx)
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

			infos, err := graft.Dep[ports.SnapshotInfoStore](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewSnapshotter(objectStore, factory, importer, writer, infos, hasher, telemetry), nil
		},
	})
}
