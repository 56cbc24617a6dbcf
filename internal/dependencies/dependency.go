// Package dependencies normalizes legacy dependency records into resolved dependency lists.
package dependencies

import "go.trai.ch/facet/internal/core/domain"

// ComponentType is the __type of a component dependency record.
const ComponentType = "component"

// Dependency is one normalized dependency edge.
type Dependency interface {
	// ID is the resolved target component.
	ID() domain.ComponentID
	// RawID is the id string the edge was declared with.
	RawID() string
	Version() string
	Lifecycle() domain.Lifecycle
	IsExtension() bool
	// Type is the record __type the edge serializes with.
	Type() string
	Serialize() SerializedDependency
}

// SerializedDependency is the wire shape of a dependency edge.
type SerializedDependency struct {
	ID          string                       `json:"id"`
	IsExtension bool                         `json:"isExtension"`
	PackageName string                       `json:"packageName"`
	ComponentID domain.SerializedComponentID `json:"componentId"`
	Version     string                       `json:"version"`
	Type        string                       `json:"__type"`
	Lifecycle   domain.Lifecycle             `json:"lifecycle"`
}

// ComponentDependency is a dependency on another component.
type ComponentDependency struct {
	componentID domain.ComponentID
	isExtension bool
	packageName string
	rawID       string
	version     string
	lifecycle   domain.Lifecycle
}

// NewComponentDependency creates a component dependency edge.
func NewComponentDependency(
	componentID domain.ComponentID,
	isExtension bool,
	packageName, rawID, version string,
	lifecycle domain.Lifecycle,
) *ComponentDependency {
	return &ComponentDependency{
		componentID: componentID,
		isExtension: isExtension,
		packageName: packageName,
		rawID:       rawID,
		version:     version,
		lifecycle:   lifecycle,
	}
}

func (d *ComponentDependency) ID() domain.ComponentID      { return d.componentID }
func (d *ComponentDependency) RawID() string               { return d.rawID }
func (d *ComponentDependency) Version() string             { return d.version }
func (d *ComponentDependency) Lifecycle() domain.Lifecycle { return d.lifecycle }
func (d *ComponentDependency) IsExtension() bool           { return d.isExtension }
func (d *ComponentDependency) Type() string                { return ComponentType }

// PackageName is the installable package name, or "" when the target was not available.
func (d *ComponentDependency) PackageName() string { return d.packageName }

// Serialize returns the wire record of the edge.
func (d *ComponentDependency) Serialize() SerializedDependency {
	return SerializedDependency{
		ID:          d.rawID,
		IsExtension: d.isExtension,
		PackageName: d.packageName,
		ComponentID: d.componentID.Serialize(),
		Version:     d.version,
		Type:        ComponentType,
		Lifecycle:   d.lifecycle,
	}
}
