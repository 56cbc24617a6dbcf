// Package aspects holds the extension configuration attached to a component.
package aspects

import (
	"maps"
	"slices"

	"go.trai.ch/facet/internal/core/domain"
)

// AspectEntry is one extension configured on a component.
type AspectEntry struct {
	id     domain.ComponentID
	legacy *domain.ExtensionDataEntry
}

// NewAspectEntry creates an entry for id backed by the given legacy record.
func NewAspectEntry(id domain.ComponentID, legacy domain.ExtensionDataEntry) *AspectEntry {
	return &AspectEntry{id: id, legacy: &legacy}
}

// ID returns the extension id.
func (e *AspectEntry) ID() domain.ComponentID { return e.id }

// StringID returns the string identifier of the legacy record.
func (e *AspectEntry) StringID() string { return e.legacy.StringID() }

// Config returns the user-facing configuration. The map belongs to the entry.
func (e *AspectEntry) Config() map[string]any { return e.legacy.Config }

// Data returns the computed metadata. The map belongs to the entry.
func (e *AspectEntry) Data() map[string]any { return e.legacy.Data }

// Artifacts returns the persisted artifacts.
func (e *AspectEntry) Artifacts() []any { return e.legacy.Artifacts }

// SetConfig replaces the configuration.
func (e *AspectEntry) SetConfig(config map[string]any) {
	if config == nil {
		config = map[string]any{}
	}
	e.legacy.Config = config
}

// SetData stores one metadata value.
func (e *AspectEntry) SetData(key string, value any) {
	if e.legacy.Data == nil {
		e.legacy.Data = map[string]any{}
	}
	e.legacy.Data[key] = value
}

// Legacy returns a copy of the legacy record.
func (e *AspectEntry) Legacy() domain.ExtensionDataEntry {
	return cloneRecord(*e.legacy)
}

// Clone returns a copy of the entry that shares nothing mutable with e.
func (e *AspectEntry) Clone() *AspectEntry {
	return NewAspectEntry(e.id, cloneRecord(*e.legacy))
}

// cloneRecord copies the record's maps and slice one level deep.
func cloneRecord(r domain.ExtensionDataEntry) domain.ExtensionDataEntry {
	if r.ExtensionID != nil {
		id := *r.ExtensionID
		r.ExtensionID = &id
	}
	r.Config = maps.Clone(r.Config)
	r.Data = maps.Clone(r.Data)
	r.Artifacts = slices.Clone(r.Artifacts)
	return r
}
