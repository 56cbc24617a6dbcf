package ports

import "go.trai.ch/facet/internal/core/domain"

// Hasher defines the interface for computing input fingerprints.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// Fingerprint computes a hash over the manifest and the contents of its input files.
	Fingerprint(manifest *domain.Manifest) (string, error)
}
