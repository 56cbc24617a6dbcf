package domain

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph orders a batch of component manifests so that every component comes after
// the batch members it depends on. Dependencies outside the batch are ignored.
type Graph struct {
	manifests      map[InternedString]*Manifest
	dependencies   map[InternedString][]InternedString
	dependents     map[InternedString][]InternedString
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		manifests: make(map[InternedString]*Manifest),
	}
}

// GraphKey is the node key of a component: its id without version.
func GraphKey(id ComponentID) InternedString {
	return NewInternedString(id.StringWithoutVersion())
}

// AddManifest adds a manifest to the graph.
// It returns an error if the component is already in the graph.
func (g *Graph) AddManifest(m *Manifest) error {
	key := GraphKey(m.Component.ID)
	if _, exists := g.manifests[key]; exists {
		return zerr.With(zerr.Wrap(ErrComponentAlreadyExists, "component added twice"), "component", key.String())
	}
	g.manifests[key] = m
	return nil
}

// Len returns the number of components.
func (g *Graph) Len() int { return len(g.manifests) }

// Manifest returns the manifest stored under key.
func (g *Graph) Manifest(key InternedString) (*Manifest, bool) {
	m, ok := g.manifests[key]
	return m, ok
}

// Validate links the batch and checks it for cycles using a topological sort.
// It populates the execution order if successful. Keys are visited in sorted order,
// so the order is deterministic.
func (g *Graph) Validate() error {
	g.link()

	g.executionOrder = make([]InternedString, 0, len(g.manifests))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range g.dependencies[u] {
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, key := range g.sortedKeys() {
		if visited[key] == 0 {
			if err := visit(key); err != nil {
				return err
			}
		}
	}

	return nil
}

// link derives the in-batch edges from runtime, dev, compiler and tester dependencies.
func (g *Graph) link() {
	g.dependencies = make(map[InternedString][]InternedString, len(g.manifests))
	g.dependents = make(map[InternedString][]InternedString, len(g.manifests))

	for _, key := range g.sortedKeys() {
		c := &g.manifests[key].Component
		seen := make(map[InternedString]struct{})

		add := func(id ComponentID) {
			dep := GraphKey(id)
			if dep == key {
				return
			}
			if _, inBatch := g.manifests[dep]; !inBatch {
				return
			}
			if _, dup := seen[dep]; dup {
				return
			}
			seen[dep] = struct{}{}
			g.dependencies[key] = append(g.dependencies[key], dep)
			g.dependents[dep] = append(g.dependents[dep], key)
		}

		for _, d := range c.Dependencies {
			add(d.ID)
		}
		for _, d := range c.DevDependencies {
			add(d.ID)
		}
		for _, id := range []*ComponentID{c.Compiler, c.Tester} {
			if id != nil {
				add(*id)
			}
		}
	}
}

func (g *Graph) sortedKeys() []InternedString {
	return slices.SortedFunc(maps.Keys(g.manifests), func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := slices.Index(path, dep)
	parts := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(zerr.Wrap(ErrCycleDetected, "components depend on each other"), "cycle", strings.Join(parts, " -> "))
}

// Dependencies returns the batch members key depends on.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Dependencies(key InternedString) []InternedString {
	return g.dependencies[key]
}

// Dependents returns the batch members that depend on key.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Dependents(key InternedString) []InternedString {
	return g.dependents[key]
}

// Walk returns an iterator that yields manifests in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[*Manifest] {
	return func(yield func(*Manifest) bool) {
		for _, key := range g.executionOrder {
			if !yield(g.manifests[key]) {
				return
			}
		}
	}
}
