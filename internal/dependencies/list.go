package dependencies

import (
	"encoding/json"
	"slices"

	"go.trai.ch/facet/internal/core/domain"
)

// DependencyList is an ordered list of dependency edges.
// Order is runtime, then dev, then extension edges. Duplicates are kept.
type DependencyList struct {
	deps []Dependency
}

// NewDependencyList wraps deps in order.
func NewDependencyList(deps ...Dependency) *DependencyList {
	return &DependencyList{deps: slices.Clone(deps)}
}

// Dependencies returns a copy of the edges.
func (l *DependencyList) Dependencies() []Dependency {
	return slices.Clone(l.deps)
}

// Len returns the number of edges.
func (l *DependencyList) Len() int { return len(l.deps) }

// Filter returns a new list of the edges pred accepts.
func (l *DependencyList) Filter(pred func(Dependency) bool) *DependencyList {
	out := make([]Dependency, 0, len(l.deps))
	for _, d := range l.deps {
		if pred(d) {
			out = append(out, d)
		}
	}
	return &DependencyList{deps: out}
}

// ByLifecycle returns the edges of one lifecycle.
func (l *DependencyList) ByLifecycle(lifecycle domain.Lifecycle) *DependencyList {
	return l.Filter(func(d Dependency) bool { return d.Lifecycle() == lifecycle })
}

// Extensions returns the extension edges.
func (l *DependencyList) Extensions() *DependencyList {
	return l.Filter(Dependency.IsExtension)
}

// Find returns the first edge targeting id, or nil.
func (l *DependencyList) Find(id domain.ComponentID, ignoreVersion bool) Dependency {
	for _, d := range l.deps {
		if d.ID().IsEqual(id, ignoreVersion) {
			return d
		}
	}
	return nil
}

// IDs returns the target of every edge in order.
func (l *DependencyList) IDs() domain.ComponentIDs {
	ids := make(domain.ComponentIDs, len(l.deps))
	for i, d := range l.deps {
		ids[i] = d.ID()
	}
	return ids
}

// Duplicates returns the targets that appear more than once, ignoring versions,
// in order of their first appearance.
func (l *DependencyList) Duplicates() domain.ComponentIDs {
	counts := make(map[string]int, len(l.deps))
	for _, d := range l.deps {
		counts[d.ID().StringWithoutVersion()]++
	}

	var dups domain.ComponentIDs
	for _, d := range l.deps {
		key := d.ID().StringWithoutVersion()
		if counts[key] > 1 {
			dups = append(dups, d.ID())
			counts[key] = 0
		}
	}
	return dups
}

// Serialize returns the wire records of every edge in order.
func (l *DependencyList) Serialize() []SerializedDependency {
	out := make([]SerializedDependency, len(l.deps))
	for i, d := range l.deps {
		out[i] = d.Serialize()
	}
	return out
}

// MarshalJSON encodes the list as its serialized records.
func (l *DependencyList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Serialize())
}
