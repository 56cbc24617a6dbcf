package ports

import (
	"context"

	"go.trai.ch/facet/internal/core/domain"
)

//go:generate mockgen -source=scope.go -destination=mocks/mock_scope.go -package=mocks

// ComponentHost resolves raw ids and looks up components.
// Implementations must be safe for concurrent use.
type ComponentHost interface {
	// ResolveComponentID parses and resolves raw into a component id.
	// It fails with domain.ErrUnresolvableID when raw cannot be resolved.
	ResolveComponentID(ctx context.Context, raw string) (domain.ComponentID, error)
	// Get returns the component for id, or nil, nil when it is not available.
	Get(ctx context.Context, id domain.ComponentID) (*domain.Component, error)
}

// Scope imports component versions.
type Scope interface {
	// ImportManyOnes imports every id. It fails with domain.ErrMissingImport when any id cannot be imported.
	ImportManyOnes(ctx context.Context, ids domain.ComponentIDs, cache bool) ([]domain.ComponentVersion, error)
}

// ScopeWriter records components and their version tags.
type ScopeWriter interface {
	// Tag stores the component record and points id's version at ref.
	Tag(ctx context.Context, component *domain.Component, ref domain.Ref) error
	// Versions lists every tagged component version.
	Versions(ctx context.Context) ([]domain.ComponentVersion, error)
}
