package aspects

import (
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/zerr"
)

// AspectKey is where an entry's id comes from: ByExtensionID or ByName.
type AspectKey interface {
	ComponentID() (domain.ComponentID, error)
	aspectKey()
}

// ByExtensionID keys an entry by the record's explicit target id.
type ByExtensionID struct {
	ID domain.ComponentID
}

// ComponentID returns the target id.
func (k ByExtensionID) ComponentID() (domain.ComponentID, error) { return k.ID, nil }

func (ByExtensionID) aspectKey() {}

// ByName keys an entry by an id parsed from the record's name.
type ByName struct {
	Name string
}

// ComponentID parses the name.
func (k ByName) ComponentID() (domain.ComponentID, error) {
	id, err := domain.ParseComponentID(k.Name)
	if err != nil {
		return domain.ComponentID{}, zerr.With(wrapInvalid(err), "name", k.Name)
	}
	return id, nil
}

func (ByName) aspectKey() {}

// KeyOf returns the key of a legacy record. A record with neither an extension id
// nor a name has no key.
func KeyOf(record domain.ExtensionDataEntry) (AspectKey, error) {
	switch {
	case record.ExtensionID != nil:
		return ByExtensionID{ID: *record.ExtensionID}, nil
	case record.Name != "":
		return ByName{Name: record.Name}, nil
	default:
		return nil, zerr.Wrap(domain.ErrInvalidAspectEntry, "extension record has neither an extension id nor a name")
	}
}
