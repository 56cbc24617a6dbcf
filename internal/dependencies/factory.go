package dependencies

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/zerr"
)

// DependencyFactory turns serialized records of one __type into dependencies.
type DependencyFactory interface {
	// Type is the __type this factory parses.
	Type() string
	// Parse rebuilds a dependency from its serialized record.
	Parse(ctx context.Context, record SerializedDependency) (Dependency, error)
}

// ComponentDependencyFactory builds component dependencies from serialized records and legacy components.
type ComponentDependencyFactory struct {
	host          ports.ComponentHost
	telemetry     ports.Telemetry
	bindingPrefix string
	concurrency   int
}

// NewComponentDependencyFactory creates a factory resolving ids through host.
// A concurrency of zero or less uses one worker per CPU.
func NewComponentDependencyFactory(
	host ports.ComponentHost,
	telemetry ports.Telemetry,
	bindingPrefix string,
	concurrency int,
) *ComponentDependencyFactory {
	return &ComponentDependencyFactory{
		host:          host,
		telemetry:     telemetry,
		bindingPrefix: bindingPrefix,
		concurrency:   concurrency,
	}
}

// Type returns ComponentType.
func (f *ComponentDependencyFactory) Type() string { return ComponentType }

// Parse implements DependencyFactory.
func (f *ComponentDependencyFactory) Parse(ctx context.Context, record SerializedDependency) (Dependency, error) {
	dep, err := f.ParseComponent(ctx, record)
	if err != nil {
		return nil, err
	}
	return dep, nil
}

// ParseComponent resolves the raw record id through the host and rebuilds the edge.
// The other record fields are carried over unchanged.
func (f *ComponentDependencyFactory) ParseComponent(
	ctx context.Context,
	record SerializedDependency,
) (*ComponentDependency, error) {
	id, err := f.host.ResolveComponentID(ctx, record.ID)
	if err != nil {
		return nil, zerr.With(unresolvable(err), "dependency", record.ID)
	}

	return NewComponentDependency(
		id,
		record.IsExtension,
		record.PackageName,
		record.ID,
		record.Version,
		record.Lifecycle,
	), nil
}

// FromLegacyComponent normalizes the runtime, dev and extension dependencies of component
// into one list, in that order. Stages run one after another; items within a stage run
// concurrently. Extensions without an extension id are skipped.
func (f *ComponentDependencyFactory) FromLegacyComponent(
	ctx context.Context,
	component *domain.Component,
) (*DependencyList, error) {
	runtime, err := f.legacyStage(ctx, "deps.runtime", component.Dependencies, domain.LifecycleRuntime)
	if err != nil {
		return nil, err
	}

	dev, err := f.legacyStage(ctx, "deps.dev", component.DevDependencies, domain.LifecycleDev)
	if err != nil {
		return nil, err
	}

	extensions, err := f.extensionStage(ctx, component.Extensions)
	if err != nil {
		return nil, err
	}

	records := slices.Concat(runtime, dev, extensions)

	stageCtx, vertex := f.telemetry.Record(ctx, "deps.parse", ports.WithInternal())
	deps, err := runStage(stageCtx, f.concurrency, records,
		func(ctx context.Context, rec SerializedDependency) (Dependency, error) {
			return f.Parse(ctx, rec)
		})
	vertex.Complete(err)
	if err != nil {
		return nil, zerr.With(err, "component", component.ID.String())
	}

	return NewDependencyList(deps...), nil
}

func (f *ComponentDependencyFactory) legacyStage(
	ctx context.Context,
	name string,
	legacy []domain.LegacyDependency,
	lifecycle domain.Lifecycle,
) ([]SerializedDependency, error) {
	stageCtx, vertex := f.telemetry.Record(ctx, name, ports.WithInternal())
	records, err := runStage(stageCtx, f.concurrency, legacy,
		func(ctx context.Context, dep domain.LegacyDependency) (SerializedDependency, error) {
			return f.transformLegacy(ctx, dep.ID, lifecycle, false)
		})
	vertex.Complete(err)
	return records, err
}

func (f *ComponentDependencyFactory) extensionStage(
	ctx context.Context,
	extensions []domain.ExtensionDataEntry,
) ([]SerializedDependency, error) {
	stageCtx, vertex := f.telemetry.Record(ctx, "deps.extensions", ports.WithInternal())
	slots, err := runStage(stageCtx, f.concurrency, extensions,
		func(ctx context.Context, ext domain.ExtensionDataEntry) (*SerializedDependency, error) {
			if ext.ExtensionID == nil {
				return nil, nil
			}
			rec, err := f.transformLegacy(ctx, *ext.ExtensionID, domain.LifecycleDev, true)
			if err != nil {
				return nil, err
			}
			return &rec, nil
		})
	vertex.Complete(err)
	if err != nil {
		return nil, err
	}

	records := make([]SerializedDependency, 0, len(slots))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// transformLegacy builds the serialized record of one legacy edge. The package name is
// left empty when the host does not have the target; host failures are returned.
func (f *ComponentDependencyFactory) transformLegacy(
	ctx context.Context,
	legacyID domain.ComponentID,
	lifecycle domain.Lifecycle,
	isExtension bool,
) (SerializedDependency, error) {
	id, err := f.host.ResolveComponentID(ctx, legacyID.String())
	if err != nil {
		return SerializedDependency{}, zerr.With(unresolvable(err), "dependency", legacyID.String())
	}

	target, err := f.host.Get(ctx, id)
	if err != nil {
		return SerializedDependency{}, zerr.With(err, "dependency", id.String())
	}

	packageName := ""
	if target != nil {
		packageName = domain.PackageName(f.bindingPrefix, target.ID)
	}

	return SerializedDependency{
		ID:          legacyID.String(),
		IsExtension: isExtension,
		PackageName: packageName,
		ComponentID: legacyID.Serialize(),
		Version:     legacyID.VersionOrLatest(),
		Type:        ComponentType,
		Lifecycle:   lifecycle,
	}, nil
}

// unresolvable makes sure a resolve failure matches domain.ErrUnresolvableID.
func unresolvable(err error) error {
	if errors.Is(err, domain.ErrUnresolvableID) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrUnresolvableID, err)
}
