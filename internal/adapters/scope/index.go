// Package scope implements the local component index: id resolution, component lookup,
// version tags and imports.
package scope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var (
	_ ports.ComponentHost = (*Index)(nil)
	_ ports.Scope         = (*Index)(nil)
	_ ports.ScopeWriter   = (*Index)(nil)
)

// entry is the stored state of one component.
type entry struct {
	Component domain.Component      `json:"component"`
	Versions  map[string]domain.Ref `json:"versions"`
	Head      domain.Ref            `json:"head"`
}

type indexFile struct {
	Components map[string]*entry `json:"components"`
}

// Options configures an Index.
type Options struct {
	// DefaultScope is applied to unscoped ids on resolution, lookup and tagging.
	DefaultScope string
	// CacheSize bounds the import cache. Zero disables it.
	CacheSize int
	// Concurrency bounds parallel imports. Zero or less uses one worker per CPU.
	Concurrency int
}

// Index is a JSON file backed component index.
type Index struct {
	path string
	opts Options

	mu   sync.RWMutex
	data indexFile

	imports *lru.Cache[domain.ComponentID, domain.ComponentVersion]
}

// Open loads the index at path. A missing file is an empty index.
func Open(path string, opts Options) (*Index, error) {
	idx := &Index{
		path: filepath.Clean(path),
		opts: opts,
		data: indexFile{Components: map[string]*entry{}},
	}

	if opts.CacheSize > 0 {
		cache, err := lru.New[domain.ComponentID, domain.ComponentVersion](opts.CacheSize)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create import cache")
		}
		idx.imports = cache
	}

	if err := idx.load(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (x *Index) load() error {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(x.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrScopeReadFailed, err), "file", x.path)
	}
	if len(data) == 0 {
		return nil
	}

	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrScopeReadFailed, err), "file", x.path)
	}
	if file.Components != nil {
		x.data = file
	}
	return nil
}

// save writes the index through a temp file and a rename. The caller holds the write lock.
func (x *Index) save() error {
	data, err := json.MarshalIndent(x.data, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal scope index")
	}

	dir := filepath.Dir(x.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrScopeWriteFailed, err), "dir", dir)
	}

	tmp, err := os.CreateTemp(dir, ".index-*")
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrScopeWriteFailed, err), "dir", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrScopeWriteFailed, err), "file", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrScopeWriteFailed, err), "file", tmpName)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrScopeWriteFailed, err), "file", tmpName)
	}
	if err := os.Rename(tmpName, x.path); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrScopeWriteFailed, err), "file", x.path)
	}
	return nil
}

// ResolveComponentID parses raw and applies the default scope to unscoped ids.
func (x *Index) ResolveComponentID(_ context.Context, raw string) (domain.ComponentID, error) {
	id, err := domain.ParseComponentID(raw)
	if err != nil {
		return domain.ComponentID{}, zerr.With(fmt.Errorf("%w: %w", domain.ErrUnresolvableID, err), "id", raw)
	}
	return id.InScope(x.opts.DefaultScope), nil
}

// Get returns the stored component for id, or nil, nil when the component or the
// requested version is not in the index.
func (x *Index) Get(ctx context.Context, id domain.ComponentID) (*domain.Component, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id = id.InScope(x.opts.DefaultScope)

	x.mu.RLock()
	defer x.mu.RUnlock()

	e, ok := x.data.Components[id.StringWithoutVersion()]
	if !ok {
		return nil, nil
	}
	if id.HasVersion() {
		if _, tagged := e.Versions[id.Version()]; !tagged {
			return nil, nil
		}
	}

	component := e.Component
	return &component, nil
}

// ImportManyOnes returns the version ref of every id, in order. Unversioned ids import the head.
// With cache set, earlier imports are reused.
func (x *Index) ImportManyOnes(
	ctx context.Context,
	ids domain.ComponentIDs,
	cache bool,
) ([]domain.ComponentVersion, error) {
	out := make([]domain.ComponentVersion, len(ids))

	limit := x.opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			cv, err := x.importOne(id, cache)
			if err != nil {
				return err
			}
			out[i] = cv
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (x *Index) importOne(id domain.ComponentID, cache bool) (domain.ComponentVersion, error) {
	id = id.InScope(x.opts.DefaultScope)
	if cache && x.imports != nil {
		if cv, ok := x.imports.Get(id); ok {
			return cv, nil
		}
	}

	// The read lock is held until the cache add so a concurrent Tag cannot purge in between.
	x.mu.RLock()
	defer x.mu.RUnlock()

	e, ok := x.data.Components[id.StringWithoutVersion()]
	var ref domain.Ref
	version := id.Version()
	if ok {
		if id.HasVersion() {
			ref = e.Versions[version]
		} else {
			ref = e.Head
			version = versionOf(e, ref)
		}
	}

	if ref.IsZero() {
		return domain.ComponentVersion{}, zerr.With(zerr.Wrap(domain.ErrMissingImport, "component version not in scope"), "id", id.String())
	}

	cv := domain.ComponentVersion{ID: at(id, version), Ref: ref}
	if x.imports != nil {
		x.imports.Add(id, cv)
	}
	return cv, nil
}

// versionOf returns the version tag pointing at ref, preferring a concrete version over "latest".
func versionOf(e *entry, ref domain.Ref) string {
	var found string
	for _, v := range slices.Sorted(maps.Keys(e.Versions)) {
		if e.Versions[v] != ref {
			continue
		}
		if v != domain.LatestVersion {
			return v
		}
		found = v
	}
	return found
}

// Tag stores component and points its version, and the component head, at ref.
func (x *Index) Tag(ctx context.Context, component *domain.Component, ref domain.Ref) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := *component
	stored.ID = stored.ID.InScope(x.opts.DefaultScope)
	key := stored.ID.StringWithoutVersion()

	x.mu.Lock()
	defer x.mu.Unlock()

	e, ok := x.data.Components[key]
	if !ok {
		e = &entry{Versions: map[string]domain.Ref{}}
		x.data.Components[key] = e
	}
	e.Component = stored
	e.Versions[stored.ID.VersionOrLatest()] = ref
	e.Head = ref

	if x.imports != nil {
		x.imports.Purge()
	}

	if err := x.save(); err != nil {
		return zerr.With(err, "component", stored.ID.String())
	}
	return nil
}

// Versions lists every tagged version, sorted by id.
func (x *Index) Versions(ctx context.Context) ([]domain.ComponentVersion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	var out []domain.ComponentVersion
	for _, key := range slices.Sorted(maps.Keys(x.data.Components)) {
		e := x.data.Components[key]
		for _, v := range slices.Sorted(maps.Keys(e.Versions)) {
			out = append(out, domain.ComponentVersion{
				ID:  at(e.Component.ID, v),
				Ref: e.Versions[v],
			})
		}
	}
	return out, nil
}

// Components lists the stored component ids, sorted.
func (x *Index) Components(ctx context.Context) (domain.ComponentIDs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	ids := make(domain.ComponentIDs, 0, len(x.data.Components))
	for _, key := range slices.Sorted(maps.Keys(x.data.Components)) {
		ids = append(ids, x.data.Components[key].Component.ID.WithoutVersion())
	}
	return ids, nil
}

// Path returns the index file path.
func (x *Index) Path() string { return x.path }

// at returns id pinned to version. The "latest" tag maps to the unversioned id.
func at(id domain.ComponentID, version string) domain.ComponentID {
	if version == "" || strings.EqualFold(version, domain.LatestVersion) {
		return id.WithoutVersion()
	}
	return id.WithVersion(version)
}
