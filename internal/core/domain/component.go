// Package domain holds the component model shared by every layer: ids, refs, legacy records and errors.
package domain

import "strings"

// Lifecycle classifies a dependency edge.
type Lifecycle string

const (
	// LifecycleRuntime marks a dependency needed to execute the component.
	LifecycleRuntime Lifecycle = "runtime"
	// LifecycleDev marks a dependency needed only to build or test the component.
	LifecycleDev Lifecycle = "dev"
)

// Valid reports whether l is a known lifecycle.
func (l Lifecycle) Valid() bool {
	return l == LifecycleRuntime || l == LifecycleDev
}

// Component is the legacy, storage-shaped description of a component.
type Component struct {
	ID                  ComponentID          `json:"id"`
	MainFile            string               `json:"mainFile,omitempty"`
	TestFiles           []string             `json:"testFiles,omitempty"`
	Compiler            *ComponentID         `json:"compiler,omitempty"`
	Tester              *ComponentID         `json:"tester,omitempty"`
	Dependencies        []LegacyDependency   `json:"dependencies,omitempty"`
	DevDependencies     []LegacyDependency   `json:"devDependencies,omitempty"`
	Extensions          []ExtensionDataEntry `json:"extensions,omitempty"`
	PackageDependencies map[string]string    `json:"packageDependencies,omitempty"`
	Docs                []Doc                `json:"docs,omitempty"`
}

// LegacyDependency is a dependency record as stored on a legacy component.
type LegacyDependency struct {
	ID            ComponentID    `json:"id"`
	RelativePaths []RelativePath `json:"relativePaths,omitempty"`
}

// RelativePath maps an import path in the source to the file it resolves to.
type RelativePath struct {
	Source      string `json:"sourceRelativePath"`
	Destination string `json:"destinationRelativePath"`
}

// Doc is one documentation item extracted from a component.
type Doc struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind,omitempty"`
}

// ExtensionDataEntry is the legacy shape of one aspect configuration.
type ExtensionDataEntry struct {
	ExtensionID *ComponentID   `json:"extensionId,omitempty"`
	Name        string         `json:"name,omitempty"`
	Config      map[string]any `json:"config"`
	Data        map[string]any `json:"data"`
	Artifacts   []any          `json:"artifacts"`
}

// NewExtensionDataEntry creates an entry targeting id with the given config.
func NewExtensionDataEntry(id ComponentID, config map[string]any) ExtensionDataEntry {
	if config == nil {
		config = map[string]any{}
	}
	target := id
	return ExtensionDataEntry{
		ExtensionID: &target,
		Config:      config,
		Data:        map[string]any{},
		Artifacts:   []any{},
	}
}

// StringID is the extension id rendered as a string, or the name when no id is set.
func (e ExtensionDataEntry) StringID() string {
	if e.ExtensionID != nil {
		return e.ExtensionID.String()
	}
	return e.Name
}

// ComponentVersion is one imported revision of a component.
type ComponentVersion struct {
	ID  ComponentID `json:"id"`
	Ref Ref         `json:"ref"`
}

// PackageName derives the installable package name of a component:
// prefix + "/" + scope + "." + name, with '/' in the name replaced by '.'.
func PackageName(bindingPrefix string, id ComponentID) string {
	if bindingPrefix == "" {
		bindingPrefix = DefaultBindingPrefix
	}
	name := strings.ReplaceAll(id.Name(), "/", ".")
	if id.HasScope() {
		name = id.Scope() + "." + name
	}
	return bindingPrefix + "/" + name
}
