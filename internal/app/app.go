// Package app implements the application layer for facet.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"go.trai.ch/facet/internal/aspects"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/facet/internal/dependencies"
	"go.trai.ch/facet/internal/engine/snapshot"
	"go.trai.ch/facet/internal/objects"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	config      *domain.Config
	manifests   ports.ManifestLoader
	snapshotter *snapshot.Snapshotter
	resolver    snapshot.DependencyResolver
	registry    *dependencies.Registry
	host        ports.ComponentHost
	scope       ports.Scope
	writer      ports.ScopeWriter
	store       ports.ObjectStore
	logger      ports.Logger
}

// New creates a new App instance.
func New(
	cfg *domain.Config,
	manifests ports.ManifestLoader,
	snapshotter *snapshot.Snapshotter,
	resolver snapshot.DependencyResolver,
	registry *dependencies.Registry,
	host ports.ComponentHost,
	scope ports.Scope,
	writer ports.ScopeWriter,
	store ports.ObjectStore,
	logger ports.Logger,
) *App {
	return &App{
		config:      cfg,
		manifests:   manifests,
		snapshotter: snapshotter,
		resolver:    resolver,
		registry:    registry,
		host:        host,
		scope:       scope,
		writer:      writer,
		store:       store,
		logger:      logger,
	}
}

// SnapshotOptions controls a snapshot.
type SnapshotOptions struct {
	Force    bool
	Message  string
	Username string
	Email    string
}

// Snapshot loads the manifest of every directory and records the components as new versions.
// With no directories the current directory is used.
func (a *App) Snapshot(ctx context.Context, dirs []string, opts SnapshotOptions) ([]snapshot.Result, error) {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	manifests := make([]*domain.Manifest, 0, len(dirs))
	for _, dir := range dirs {
		m, err := a.manifests.Load(dir)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to load component manifest")
		}
		manifests = append(manifests, m)
	}

	results, err := a.snapshotter.Run(ctx, manifests, snapshot.Options{
		Parallelism: a.config.Concurrency,
		Force:       opts.Force,
		Message:     opts.Message,
		Username:    opts.Username,
		Email:       opts.Email,
	})
	if err != nil {
		return results, zerr.Wrap(err, "snapshot failed")
	}
	return results, nil
}

// Show imports the version of the component named by raw and reads it from the store.
func (a *App) Show(ctx context.Context, raw string) (domain.ComponentVersion, *objects.Version, error) {
	id, err := a.host.ResolveComponentID(ctx, raw)
	if err != nil {
		return domain.ComponentVersion{}, nil, err
	}

	imported, err := a.scope.ImportManyOnes(ctx, domain.ComponentIDs{id}, false)
	if err != nil {
		return domain.ComponentVersion{}, nil, err
	}
	cv := imported[0]

	v, err := objects.ReadVersion(ctx, a.store, cv.Ref)
	if err != nil {
		return domain.ComponentVersion{}, nil, zerr.With(err, "component", cv.ID.String())
	}
	return cv, v, nil
}

// Dependencies normalizes the dependencies of the component named by raw.
func (a *App) Dependencies(ctx context.Context, raw string) (*dependencies.DependencyList, error) {
	component, err := a.component(ctx, raw)
	if err != nil {
		return nil, err
	}
	return a.resolver.FromLegacyComponent(ctx, component)
}

// DecodeDependencies parses serialized dependency records, as printed by Dependencies,
// back into a list through the registered factories.
func (a *App) DecodeDependencies(ctx context.Context, data []byte) (*dependencies.DependencyList, error) {
	var records []dependencies.SerializedDependency
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedDependencies, err)
	}
	return a.registry.Deserialize(ctx, records)
}

// Collect imports every dependency version of the component named by raw.
func (a *App) Collect(ctx context.Context, raw string, withDev bool) ([]domain.ComponentVersion, error) {
	_, v, err := a.Show(ctx, raw)
	if err != nil {
		return nil, err
	}
	return v.CollectDependencies(ctx, a.scope, withDev)
}

// Aspects returns the aspect list of the component named by raw.
func (a *App) Aspects(ctx context.Context, raw string) (*aspects.AspectList, error) {
	component, err := a.component(ctx, raw)
	if err != nil {
		return nil, err
	}
	list, err := aspects.FromLegacyExtensions(component.Extensions)
	if err != nil {
		return nil, zerr.With(err, "component", component.ID.String())
	}
	return list, nil
}

// GC removes every stored object that no tagged version reaches. With dryRun
// nothing is deleted and the unreachable refs are returned.
func (a *App) GC(ctx context.Context, dryRun bool) ([]domain.Ref, error) {
	versions, err := a.writer.Versions(ctx)
	if err != nil {
		return nil, err
	}
	roots := make([]domain.Ref, 0, len(versions))
	for _, cv := range versions {
		roots = append(roots, cv.Ref)
	}

	if !dryRun {
		removed, err := objects.Collect(ctx, a.store, roots)
		if err != nil {
			return removed, zerr.Wrap(err, "garbage collection failed")
		}
		a.logger.Info(fmt.Sprintf("removed %d unreachable objects", len(removed)))

		forgotten, err := a.snapshotter.Forget(removed)
		if err != nil {
			return removed, zerr.Wrap(err, "failed to prune snapshot state")
		}
		if len(forgotten) > 0 {
			a.logger.Info(fmt.Sprintf("forgot %d snapshot fingerprints", len(forgotten)))
		}
		return removed, nil
	}

	live, err := objects.Reachable(ctx, a.store, roots)
	if err != nil {
		return nil, err
	}
	all, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}
	var unreachable []domain.Ref
	for _, ref := range all {
		if _, ok := live[ref]; !ok {
			unreachable = append(unreachable, ref)
		}
	}
	slices.Sort(unreachable)
	return unreachable, nil
}

// component resolves raw and returns its stored record.
func (a *App) component(ctx context.Context, raw string) (*domain.Component, error) {
	id, err := a.host.ResolveComponentID(ctx, raw)
	if err != nil {
		return nil, err
	}
	component, err := a.host.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if component == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrComponentNotFound, "component is not in the scope"), "component", id.String())
	}
	return component, nil
}
