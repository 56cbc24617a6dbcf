package dependencies

import (
	"context"
	"sync"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/zerr"
)

// Registry dispatches serialized records to the factory registered for their __type.
type Registry struct {
	mu          sync.RWMutex
	factories   map[string]DependencyFactory
	concurrency int
}

// NewRegistry creates a registry holding factories.
func NewRegistry(concurrency int, factories ...DependencyFactory) *Registry {
	r := &Registry{
		factories:   make(map[string]DependencyFactory, len(factories)),
		concurrency: concurrency,
	}
	for _, f := range factories {
		r.Register(f)
	}
	return r
}

// Register adds f, replacing any factory of the same type.
func (r *Registry) Register(f DependencyFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[f.Type()] = f
}

// Factory returns the factory registered for typ.
func (r *Registry) Factory(typ string) (DependencyFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[typ]
	return f, ok
}

// Deserialize parses records in order into a list.
func (r *Registry) Deserialize(ctx context.Context, records []SerializedDependency) (*DependencyList, error) {
	deps, err := runStage(ctx, r.concurrency, records,
		func(ctx context.Context, rec SerializedDependency) (Dependency, error) {
			f, ok := r.Factory(rec.Type)
			if !ok {
				err := zerr.Wrap(domain.ErrUnknownDependencyType, "no factory for dependency record")
				return nil, zerr.With(zerr.With(err, "type", rec.Type), "dependency", rec.ID)
			}
			return f.Parse(ctx, rec)
		})
	if err != nil {
		return nil, err
	}
	return NewDependencyList(deps...), nil
}
