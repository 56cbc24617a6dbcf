package ports

import "go.trai.ch/facet/internal/core/domain"

// ManifestLoader reads component manifests.
//
//go:generate mockgen -source=manifest_loader.go -destination=mocks/mock_manifest_loader.go -package=mocks
type ManifestLoader interface {
	// Load reads the component.yaml in dir.
	Load(dir string) (*domain.Manifest, error)
}
