package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/zerr"
)

// FSStore implements ports.ObjectStore on the local filesystem.
// Objects are zstd-compressed and fanned out by the first two hex characters: root/ab/cdef...
type FSStore struct {
	root string
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// NewFSStore creates an FSStore rooted at root. Directories are created lazily on first write.
func NewFSStore(root string) (*FSStore, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd encoder")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd decoder")
	}
	return &FSStore{root: filepath.Clean(root), enc: enc, dec: dec}, nil
}

// Root returns the store directory.
func (s *FSStore) Root() string { return s.root }

func (s *FSStore) objectPath(ref domain.Ref) (string, error) {
	if _, err := domain.ParseRef(ref.String()); err != nil {
		return "", err
	}
	r := ref.String()
	return filepath.Join(s.root, r[:2], r[2:]), nil
}

// Put compresses data and writes it atomically under ref.
func (s *FSStore) Put(_ context.Context, ref domain.Ref, data []byte) error {
	dest, err := s.objectPath(ref)
	if err != nil {
		return err
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "dir", dir)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "ref", ref.String())
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(s.enc.EncodeAll(data, nil)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "ref", ref.String())
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "ref", ref.String())
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "ref", ref.String())
	}
	return nil
}

// Get reads and decompresses the object stored under ref.
func (s *FSStore) Get(_ context.Context, ref domain.Ref) ([]byte, error) {
	path, err := s.objectPath(ref)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // Path is derived from a validated ref
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrObjectNotFound, "fs store"), "ref", ref.String())
		}
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "ref", ref.String())
	}

	data, err := s.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "ref", ref.String())
	}
	return data, nil
}

// Has reports whether ref is stored.
func (s *FSStore) Has(_ context.Context, ref domain.Ref) (bool, error) {
	path, err := s.objectPath(ref)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "ref", ref.String())
}

// Delete removes ref and, when it becomes empty, its fan-out directory.
func (s *FSStore) Delete(_ context.Context, ref domain.Ref) error {
	path, err := s.objectPath(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreDeleteFailed, err), "ref", ref.String())
	}
	// Fails harmlessly while other objects share the directory.
	_ = os.Remove(filepath.Dir(path))
	return nil
}

// List walks the fan-out directories and returns every stored ref, sorted.
func (s *FSStore) List(ctx context.Context) ([]domain.Ref, error) {
	var refs []domain.Ref
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.root {
				return filepath.SkipDir
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		ref, err := domain.ParseRef(filepath.Dir(rel) + filepath.Base(rel))
		if err != nil {
			// temp files and foreign entries
			return nil
		}
		refs = append(refs, ref)
		return nil
	})
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreListFailed, err), "root", s.root)
	}
	slices.Sort(refs)
	return refs, nil
}
