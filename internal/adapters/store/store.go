package store

import (
	"context"
	"io"
	"path/filepath"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/zerr"
)

// New builds the object store selected by cfg, wrapped in a read cache when cfg.CacheSize is positive.
func New(ctx context.Context, cfg *domain.Config) (ports.ObjectStore, error) {
	var (
		backend ports.ObjectStore
		err     error
	)

	switch cfg.Store.Backend {
	case domain.StoreBackendFS, "":
		path := cfg.Store.Path
		if path == "" {
			path = domain.DefaultObjectsPath()
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Root, path)
		}
		backend, err = NewFSStore(path)
	case domain.StoreBackendMemory:
		backend = NewMemoryStore()
	case domain.StoreBackendS3:
		backend, err = NewS3Store(cfg.Store.S3)
	case domain.StoreBackendPostgres:
		backend, err = NewPostgresStore(ctx, cfg.Store.Postgres)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedStoreBackend, "unknown backend"), "backend", cfg.Store.Backend)
	}
	if err != nil {
		return nil, zerr.With(err, "backend", cfg.Store.Backend)
	}

	if cfg.CacheSize <= 0 {
		return backend, nil
	}
	return NewCached(backend, cfg.CacheSize)
}

// Close releases s when the backend holds resources, such as the Postgres connection pool.
func Close(s ports.ObjectStore) error {
	if closer, ok := s.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
