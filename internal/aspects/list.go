package aspects

import (
	"errors"
	"fmt"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/zerr"
)

// AspectList is an ordered list of extension entries. Lookups assume ids are unique;
// the list does not enforce it.
type AspectList struct {
	entries []*AspectEntry
}

// NewAspectList creates a list holding entries in order.
func NewAspectList(entries ...*AspectEntry) *AspectList {
	return &AspectList{entries: append([]*AspectEntry(nil), entries...)}
}

// FromLegacyExtensions builds a list from legacy extension records.
func FromLegacyExtensions(records []domain.ExtensionDataEntry) (*AspectList, error) {
	entries := make([]*AspectEntry, 0, len(records))
	for i, record := range records {
		key, err := KeyOf(record)
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}
		id, err := key.ComponentID()
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}
		entries = append(entries, NewAspectEntry(id, normalizeRecord(cloneRecord(record))))
	}
	return &AspectList{entries: entries}, nil
}

// AddEntry appends an entry for id whose config is data, and returns it.
func (l *AspectList) AddEntry(id domain.ComponentID, data map[string]any) *AspectEntry {
	entry := NewAspectEntry(id, domain.NewExtensionDataEntry(id, data))
	l.entries = append(l.entries, entry)
	return entry
}

// Len returns the number of entries.
func (l *AspectList) Len() int { return len(l.entries) }

// Entries returns the entries in order.
func (l *AspectList) Entries() []*AspectEntry {
	return append([]*AspectEntry(nil), l.entries...)
}

// Get returns the entry whose legacy string id is exactly stringID, or nil.
func (l *AspectList) Get(stringID string) *AspectEntry {
	for _, e := range l.entries {
		if e.StringID() == stringID {
			return e
		}
	}
	return nil
}

// Find returns the entry for id, or nil.
func (l *AspectList) Find(id domain.ComponentID, ignoreVersion bool) *AspectEntry {
	for _, e := range l.entries {
		if e.ID().IsEqual(id, ignoreVersion) {
			return e
		}
	}
	return nil
}

// Map returns a new list of fn applied to a copy of every entry. The receiver is not modified.
func (l *AspectList) Map(fn func(*AspectEntry) *AspectEntry) *AspectList {
	out := make([]*AspectEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = fn(e.Clone())
	}
	return &AspectList{entries: out}
}

// IDs returns the entry ids in order.
func (l *AspectList) IDs() domain.ComponentIDs {
	ids := make(domain.ComponentIDs, len(l.entries))
	for i, e := range l.entries {
		ids[i] = e.ID()
	}
	return ids
}

// StringIDs returns the entry ids rendered as strings.
func (l *AspectList) StringIDs() []string {
	return l.IDs().Strings()
}

// ToConfigObject maps every entry id to its config. Entries with an empty config are left out.
func (l *AspectList) ToConfigObject() map[string]map[string]any {
	out := make(map[string]map[string]any, len(l.entries))
	for _, e := range l.entries {
		if len(e.Config()) == 0 {
			continue
		}
		out[e.ID().String()] = e.Config()
	}
	return out
}

// ToLegacy returns copies of the legacy records in order.
func (l *AspectList) ToLegacy() []domain.ExtensionDataEntry {
	out := make([]domain.ExtensionDataEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Legacy()
	}
	return out
}

// normalizeRecord replaces nil collections with empty ones so records always carry config, data and artifacts.
func normalizeRecord(r domain.ExtensionDataEntry) domain.ExtensionDataEntry {
	if r.Config == nil {
		r.Config = map[string]any{}
	}
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	if r.Artifacts == nil {
		r.Artifacts = []any{}
	}
	return r
}

func wrapInvalid(err error) error {
	if errors.Is(err, domain.ErrInvalidAspectEntry) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidAspectEntry, err)
}
