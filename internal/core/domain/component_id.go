package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// LatestVersion is the version string reported for an unversioned id.
const LatestVersion = "latest"

// ComponentID identifies a component by scope, name and an optional version.
// It is an immutable value type and is comparable with ==.
type ComponentID struct {
	scope   InternedString
	name    InternedString
	version string
}

// NewComponentID creates a ComponentID. Scope and version may be empty.
func NewComponentID(scope, name, version string) ComponentID {
	return ComponentID{
		scope:   NewInternedString(scope),
		name:    NewInternedString(name),
		version: version,
	}
}

// ParseComponentID parses "scope/name@version". The first path segment is the
// scope when more than one segment is present; the version follows the last '@'.
func ParseComponentID(raw string) (ComponentID, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return ComponentID{}, zerr.With(zerr.Wrap(ErrInvalidComponentID, "cannot parse id"), "id", raw)
	}

	var version string
	if at := strings.LastIndex(s, "@"); at > 0 {
		version = s[at+1:]
		s = s[:at]
		if version == "" {
			return ComponentID{}, zerr.With(zerr.Wrap(ErrInvalidComponentID, "empty version"), "id", raw)
		}
	}

	var scope, name string
	if before, after, found := strings.Cut(s, "/"); found {
		scope, name = before, after
	} else {
		name = s
	}
	if name == "" || strings.HasSuffix(name, "/") || (scope == "" && strings.HasPrefix(s, "/")) {
		return ComponentID{}, zerr.With(zerr.Wrap(ErrInvalidComponentID, "empty name"), "id", raw)
	}

	return NewComponentID(scope, name, version), nil
}

// MustParseComponentID is like ParseComponentID but panics on error.
func MustParseComponentID(raw string) ComponentID {
	id, err := ParseComponentID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// Scope returns the scope, or "" when the id is unscoped.
func (id ComponentID) Scope() string { return id.scope.String() }

// Name returns the component name.
func (id ComponentID) Name() string { return id.name.String() }

// Version returns the version, or "" when the id is unversioned.
func (id ComponentID) Version() string { return id.version }

// HasVersion reports whether the id carries a version.
func (id ComponentID) HasVersion() bool { return id.version != "" }

// HasScope reports whether the id carries a scope.
func (id ComponentID) HasScope() bool { return id.Scope() != "" }

// IsZero reports whether the id is the zero value.
func (id ComponentID) IsZero() bool { return id.Name() == "" }

// VersionOrLatest returns the version, or "latest" when the id is unversioned.
func (id ComponentID) VersionOrLatest() string {
	if id.version == "" {
		return LatestVersion
	}
	return id.version
}

// WithVersion returns a copy of the id with the given version.
func (id ComponentID) WithVersion(version string) ComponentID {
	id.version = version
	return id
}

// WithoutVersion returns a copy of the id without a version.
func (id ComponentID) WithoutVersion() ComponentID {
	id.version = ""
	return id
}

// InScope returns the id under scope when it is unscoped. An empty scope leaves it unchanged.
func (id ComponentID) InScope(scope string) ComponentID {
	if id.HasScope() || scope == "" || id.IsZero() {
		return id
	}
	return NewComponentID(scope, id.Name(), id.version)
}

// IsEqual compares two ids, optionally ignoring the version.
func (id ComponentID) IsEqual(other ComponentID, ignoreVersion bool) bool {
	if id.scope != other.scope || id.name != other.name {
		return false
	}
	return ignoreVersion || id.version == other.version
}

// StringWithoutVersion renders the id as "scope/name".
func (id ComponentID) StringWithoutVersion() string {
	if id.IsZero() {
		return ""
	}
	if !id.HasScope() {
		return id.Name()
	}
	return id.Scope() + "/" + id.Name()
}

// String renders the id as "scope/name@version", omitting absent parts.
func (id ComponentID) String() string {
	s := id.StringWithoutVersion()
	if s == "" || id.version == "" {
		return s
	}
	return s + "@" + id.version
}

// MarshalText implements encoding.TextMarshaler.
func (id ComponentID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ComponentID) UnmarshalText(text []byte) error {
	parsed, err := ParseComponentID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Serialize returns the object form of the id.
func (id ComponentID) Serialize() SerializedComponentID {
	return SerializedComponentID{
		Scope:   id.Scope(),
		Name:    id.Name(),
		Version: id.version,
	}
}

// SerializedComponentID is the object form of a ComponentID used in dependency records.
type SerializedComponentID struct {
	Scope   string `json:"scope,omitempty"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ComponentID converts the record back into an id.
func (s SerializedComponentID) ComponentID() (ComponentID, error) {
	if s.Name == "" {
		return ComponentID{}, zerr.Wrap(ErrInvalidComponentID, "serialized id has no name")
	}
	return NewComponentID(s.Scope, s.Name, s.Version), nil
}

// ComponentIDs is an ordered list of component ids.
type ComponentIDs []ComponentID

// ParseComponentIDs parses each raw id in order.
func ParseComponentIDs(raw []string) (ComponentIDs, error) {
	ids := make(ComponentIDs, 0, len(raw))
	for _, r := range raw {
		id, err := ParseComponentID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Strings renders each id.
func (ids ComponentIDs) Strings() []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// Has reports whether the list contains id.
func (ids ComponentIDs) Has(id ComponentID, ignoreVersion bool) bool {
	for _, candidate := range ids {
		if candidate.IsEqual(id, ignoreVersion) {
			return true
		}
	}
	return false
}
