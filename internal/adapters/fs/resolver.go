package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver expands file patterns of a manifest into concrete files.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// Resolve expands each pattern under root with filepath.Glob. Matched directories are walked.
// The result is relative to root, slash separated, sorted and without duplicates.
// A pattern that matches nothing is an error.
func (r *Resolver) Resolve(patterns []string, root string) ([]string, error) {
	unique := make(map[string]struct{})

	for _, pattern := range patterns {
		path := filepath.Join(root, pattern)

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrManifestParseFailed, err), "pattern", pattern)
		}
		if len(matches) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrManifestReadFailed, "input not found"), "pattern", pattern)
		}

		for _, match := range matches {
			if err := r.add(unique, root, match); err != nil {
				return nil, err
			}
		}
	}

	result := make([]string, 0, len(unique))
	for path := range unique {
		result = append(result, path)
	}
	slices.Sort(result)

	return result, nil
}

func (r *Resolver) add(unique map[string]struct{}, root, match string) error {
	info, err := os.Stat(match)
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrManifestReadFailed, err), "path", match)
	}

	files := []string{match}
	if info.IsDir() {
		files = slices.Collect(r.walker.WalkFiles(match, nil))
	}

	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", file)
		}
		unique[filepath.ToSlash(rel)] = struct{}{}
	}
	return nil
}
