package ports

import "go.trai.ch/facet/internal/core/domain"

// SnapshotInfoStore defines the interface for storing and retrieving snapshot fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type SnapshotInfoStore interface {
	// Get retrieves the snapshot info for a component id string.
	// Returns nil, nil if not found.
	Get(component string) (*domain.SnapshotInfo, error)

	// Put stores the snapshot info.
	Put(info domain.SnapshotInfo) error

	// Prune drops the entries keep rejects and returns their components.
	Prune(keep func(domain.SnapshotInfo) bool) ([]string, error)
}
