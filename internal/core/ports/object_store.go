// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/facet/internal/core/domain"
)

// ObjectStore is a key-value store of encoded objects keyed by content hash.
//
//go:generate mockgen -source=object_store.go -destination=mocks/mock_object_store.go -package=mocks
type ObjectStore interface {
	// Put stores data under ref, replacing any previous data.
	Put(ctx context.Context, ref domain.Ref, data []byte) error
	// Get returns the data stored under ref, or domain.ErrObjectNotFound.
	Get(ctx context.Context, ref domain.Ref) ([]byte, error)
	// Has reports whether ref is stored.
	Has(ctx context.Context, ref domain.Ref) (bool, error)
	// Delete removes ref. Deleting a missing ref is not an error.
	Delete(ctx context.Context, ref domain.Ref) error
	// List returns every stored ref.
	List(ctx context.Context) ([]domain.Ref, error)
}
