package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedVersion is returned when a persisted version record is invalid JSON or lacks its log.
	ErrMalformedVersion = zerr.New("malformed version")

	// ErrUnresolvableID is returned when the component host cannot resolve or find a referenced component id.
	ErrUnresolvableID = zerr.New("unresolvable component id")

	// ErrInvalidAspectEntry is returned when a legacy extension record carries neither an extension id nor a name.
	ErrInvalidAspectEntry = zerr.New("invalid aspect entry")

	// ErrMissingImport is returned when the scope cannot import one or more requested ids.
	ErrMissingImport = zerr.New("missing import")

	// ErrInvalidComponentID is returned when a raw component id cannot be parsed.
	ErrInvalidComponentID = zerr.New("invalid component id")

	// ErrInvalidRef is returned when a string is not a valid content hash.
	ErrInvalidRef = zerr.New("invalid ref")

	// ErrObjectNotFound is returned when the object store holds no object for a ref.
	ErrObjectNotFound = zerr.New("object not found")

	// ErrMalformedObject is returned when an object envelope cannot be decoded.
	ErrMalformedObject = zerr.New("malformed object")

	// ErrUnknownObjectKind is returned when an object envelope names a kind nothing can decode.
	ErrUnknownObjectKind = zerr.New("unknown object kind")

	// ErrMalformedDependencies is returned when serialized dependency records cannot be decoded.
	ErrMalformedDependencies = zerr.New("malformed dependency records")

	// ErrUnknownDependencyType is returned when a serialized dependency carries an unregistered __type.
	ErrUnknownDependencyType = zerr.New("unknown dependency type")

	// ErrStoreReadFailed is returned when an object cannot be read from the store.
	ErrStoreReadFailed = zerr.New("failed to read object")

	// ErrStoreWriteFailed is returned when an object cannot be written to the store.
	ErrStoreWriteFailed = zerr.New("failed to write object")

	// ErrStoreDeleteFailed is returned when an object cannot be removed from the store.
	ErrStoreDeleteFailed = zerr.New("failed to delete object")

	// ErrStoreListFailed is returned when the store contents cannot be enumerated.
	ErrStoreListFailed = zerr.New("failed to list objects")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedStoreBackend is returned when the configured store backend is unknown.
	ErrUnsupportedStoreBackend = zerr.New("unsupported store backend")

	// ErrComponentNotFound is returned when a component is not present in the scope.
	ErrComponentNotFound = zerr.New("component not found")

	// ErrManifestReadFailed is returned when a component manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read component manifest")

	// ErrManifestParseFailed is returned when a component manifest cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse component manifest")

	// ErrScopeReadFailed is returned when the scope index cannot be loaded.
	ErrScopeReadFailed = zerr.New("failed to read scope index")

	// ErrScopeWriteFailed is returned when the scope index cannot be persisted.
	ErrScopeWriteFailed = zerr.New("failed to write scope index")

	// ErrComponentAlreadyExists is returned when a batch names the same component twice.
	ErrComponentAlreadyExists = zerr.New("component already exists")

	// ErrCycleDetected is returned when components of a batch depend on each other in a cycle.
	ErrCycleDetected = zerr.New("dependency cycle detected")
)
