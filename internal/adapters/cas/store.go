// Package cas implements the snapshot info store.
package cas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SnapshotInfoStore = (*Store)(nil)

// stateVersion is the layout version of the state file.
const stateVersion = 1

type state struct {
	Version   int                            `json:"version"`
	Snapshots map[string]domain.SnapshotInfo `json:"snapshots"`
}

// Store keeps the last snapshot fingerprint of every component in one JSON file.
type Store struct {
	path      string
	mu        sync.RWMutex
	snapshots map[string]domain.SnapshotInfo
}

// NewStore opens the state file at path. A missing or empty file is an empty store.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:      filepath.Clean(path),
		snapshots: make(map[string]domain.SnapshotInfo),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "file", s.path)
	}
	if len(data) == 0 {
		return nil
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "file", s.path)
	}
	if st.Version != stateVersion {
		err := zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, "unsupported snapshot state version"), "version", st.Version)
		return zerr.With(err, "file", s.path)
	}
	if st.Snapshots != nil {
		s.snapshots = st.Snapshots
	}
	return nil
}

// save replaces the state file through a temp file. The caller holds the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(state{Version: stateVersion, Snapshots: s.snapshots}, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal snapshot state")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "dir", dir)
	}

	tmp, err := os.CreateTemp(dir, ".snapshots-*")
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "dir", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "file", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "file", tmpName)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "file", tmpName)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "file", s.path)
	}
	return nil
}

// Get returns the last snapshot of component, or nil, nil when there is none.
func (s *Store) Get(component string) (*domain.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.snapshots[component]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put records info as the last snapshot of its component.
func (s *Store) Put(info domain.SnapshotInfo) error {
	if info.Component == "" {
		return zerr.Wrap(domain.ErrStoreWriteFailed, "snapshot info has no component")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[info.Component] = info
	if err := s.save(); err != nil {
		return zerr.With(err, "component", info.Component)
	}
	return nil
}

// Prune drops every entry keep rejects and returns the dropped components, sorted.
// The file is only rewritten when something was dropped.
func (s *Store) Prune(keep func(domain.SnapshotInfo) bool) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dropped []string
	for _, component := range slices.Sorted(maps.Keys(s.snapshots)) {
		if !keep(s.snapshots[component]) {
			dropped = append(dropped, component)
		}
	}
	if len(dropped) == 0 {
		return nil, nil
	}

	previous := maps.Clone(s.snapshots)
	for _, component := range dropped {
		delete(s.snapshots, component)
	}
	if err := s.save(); err != nil {
		s.snapshots = previous
		return nil, err
	}
	return dropped, nil
}
