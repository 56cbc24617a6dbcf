package domain

import "path/filepath"

const (
	// FacetDirName is the name of the internal workspace directory.
	FacetDirName = ".facet"

	// ObjectsDirName is the name of the object store directory.
	ObjectsDirName = "objects"

	// ScopeIndexFileName is the name of the scope index file.
	ScopeIndexFileName = "index.json"

	// SnapshotStateFileName is the name of the snapshot fingerprint file.
	SnapshotStateFileName = "snapshots.json"

	// ConfigFileName is the name of the YAML configuration file.
	ConfigFileName = "facet.yaml"

	// ConfigTOMLFileName is the name of the TOML configuration file.
	ConfigTOMLFileName = "facet.toml"

	// ManifestFileName is the name of a component manifest.
	ManifestFileName = "component.yaml"

	// DefaultBindingPrefix prefixes generated package names.
	DefaultBindingPrefix = "@bit"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultFacetPath returns the default root directory for facet metadata.
func DefaultFacetPath() string {
	return FacetDirName
}

// DefaultObjectsPath returns the default path for the object store.
// It joins .facet and objects.
func DefaultObjectsPath() string {
	return filepath.Join(FacetDirName, ObjectsDirName)
}

// DefaultScopeIndexPath returns the default path for the scope index.
func DefaultScopeIndexPath() string {
	return filepath.Join(FacetDirName, ScopeIndexFileName)
}

// DefaultSnapshotStatePath returns the default path for the snapshot fingerprints.
func DefaultSnapshotStatePath() string {
	return filepath.Join(FacetDirName, SnapshotStateFileName)
}
