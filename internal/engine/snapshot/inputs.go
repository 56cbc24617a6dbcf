package snapshot

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/dependencies"
	"go.trai.ch/facet/internal/objects"
	"go.trai.ch/zerr"
)

// flatten imports the non-extension dependencies and returns them together with
// the flattened dependencies of each imported version, without repeats.
func (s *Snapshotter) flatten(ctx context.Context, deps *dependencies.DependencyList) (domain.ComponentIDs, error) {
	var direct domain.ComponentIDs
	for _, d := range deps.Dependencies() {
		if d.IsExtension() || direct.Has(d.ID(), false) {
			continue
		}
		direct = append(direct, d.ID())
	}
	if len(direct) == 0 {
		return domain.ComponentIDs{}, nil
	}

	versions, err := s.scope.ImportManyOnes(ctx, direct, true)
	if err != nil {
		return nil, err
	}

	flattened := make(domain.ComponentIDs, 0, len(versions))
	add := func(id domain.ComponentID) {
		if !flattened.Has(id, false) {
			flattened = append(flattened, id)
		}
	}

	for _, cv := range versions {
		add(cv.ID)
		v, err := objects.ReadVersion(ctx, s.store, cv.Ref)
		if err != nil {
			return nil, zerr.With(err, "dependency", cv.ID.String())
		}
		for _, id := range v.FlattenedDependencies {
			add(id)
		}
	}
	return flattened, nil
}

// writeInputs stores the manifest files as sources and returns them as version input.
// The main file and the first test file become the impl and specs.
func (s *Snapshotter) writeInputs(ctx context.Context, m *domain.Manifest) (objects.VersionInput, error) {
	files, err := s.writeSources(ctx, m.Dir, m.Files)
	if err != nil {
		return objects.VersionInput{}, err
	}
	dists, err := s.writeSources(ctx, m.Dir, m.Dists)
	if err != nil {
		return objects.VersionInput{}, err
	}

	in := objects.VersionInput{Files: files, Dists: dists}

	if main := m.Component.MainFile; main != "" {
		if in.Impl, err = s.lookupSource(ctx, m.Dir, files, main); err != nil {
			return objects.VersionInput{}, err
		}
	}
	if len(m.Component.TestFiles) > 0 {
		if in.Specs, err = s.lookupSource(ctx, m.Dir, files, m.Component.TestFiles[0]); err != nil {
			return objects.VersionInput{}, err
		}
	}
	return in, nil
}

func (s *Snapshotter) writeSources(ctx context.Context, dir string, paths []string) ([]objects.FileInput, error) {
	out := make([]objects.FileInput, 0, len(paths))
	for _, rel := range paths {
		f, err := s.writeSource(ctx, dir, rel)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *Snapshotter) lookupSource(
	ctx context.Context,
	dir string,
	files []objects.FileInput,
	rel string,
) (*objects.FileInput, error) {
	for i := range files {
		if files[i].RelativePath == rel {
			f := files[i]
			return &f, nil
		}
	}
	f, err := s.writeSource(ctx, dir, rel)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Snapshotter) writeSource(ctx context.Context, dir, rel string) (objects.FileInput, error) {
	contents, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return objects.FileInput{}, zerr.With(fmt.Errorf("%w: %w", domain.ErrManifestReadFailed, err), "path", rel)
	}
	if _, err := objects.Write(ctx, s.store, objects.NewSource(contents)); err != nil {
		return objects.FileInput{}, zerr.With(err, "path", rel)
	}
	return objects.FileInput{Name: path.Base(rel), RelativePath: rel, Contents: contents}, nil
}
