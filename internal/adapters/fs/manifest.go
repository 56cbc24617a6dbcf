package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ManifestLoader = (*ManifestLoader)(nil)

// ManifestFile is the structure of component.yaml.
type ManifestFile struct {
	ID                  string            `yaml:"id"`
	MainFile            string            `yaml:"mainFile"`
	Files               []string          `yaml:"files"`
	TestFiles           []string          `yaml:"testFiles"`
	Dists               []string          `yaml:"dists"`
	Compiler            string            `yaml:"compiler"`
	Tester              string            `yaml:"tester"`
	Dependencies        []string          `yaml:"dependencies"`
	DevDependencies     []string          `yaml:"devDependencies"`
	PackageDependencies map[string]string `yaml:"packageDependencies"`
	Extensions          []ExtensionDTO    `yaml:"extensions"`
	Docs                []DocDTO          `yaml:"docs"`
	Message             string            `yaml:"message"`
}

// ExtensionDTO is one extension entry of a manifest. Either ID or Name is set.
type ExtensionDTO struct {
	ID     string         `yaml:"id"`
	Name   string         `yaml:"name"`
	Config map[string]any `yaml:"config"`
}

// DocDTO is one documentation item of a manifest.
type DocDTO struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
}

// ManifestLoader reads component.yaml files.
type ManifestLoader struct {
	resolver     *Resolver
	defaultScope string
}

// NewManifestLoader creates a loader that expands file patterns with resolver.
// Unscoped ids in a manifest are placed under defaultScope.
func NewManifestLoader(resolver *Resolver, defaultScope string) *ManifestLoader {
	return &ManifestLoader{resolver: resolver, defaultScope: defaultScope}
}

// Load reads the component.yaml in dir and resolves its file patterns.
func (l *ManifestLoader) Load(dir string) (*domain.Manifest, error) {
	dir = filepath.Clean(dir)
	path := filepath.Join(dir, domain.ManifestFileName)

	// #nosec G304 -- path is built from the component directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrManifestReadFailed, err), "file", path)
	}

	var file ManifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrManifestParseFailed, err), "file", path)
	}

	manifest, err := l.build(dir, &file)
	if err != nil {
		return nil, zerr.With(err, "file", path)
	}
	return manifest, nil
}

func (l *ManifestLoader) build(dir string, file *ManifestFile) (*domain.Manifest, error) {
	id, err := l.parseID(file.ID, "id")
	if err != nil {
		return nil, err
	}

	files, err := l.resolver.Resolve(file.Files, dir)
	if err != nil {
		return nil, err
	}
	dists, err := l.resolver.Resolve(file.Dists, dir)
	if err != nil {
		return nil, err
	}

	component := domain.Component{
		ID:                  id,
		MainFile:            file.MainFile,
		TestFiles:           file.TestFiles,
		PackageDependencies: file.PackageDependencies,
	}

	if component.Compiler, err = l.parseOptionalID(file.Compiler, "compiler"); err != nil {
		return nil, err
	}
	if component.Tester, err = l.parseOptionalID(file.Tester, "tester"); err != nil {
		return nil, err
	}
	if component.Dependencies, err = l.legacyDependencies(file.Dependencies, "dependencies"); err != nil {
		return nil, err
	}
	if component.DevDependencies, err = l.legacyDependencies(file.DevDependencies, "devDependencies"); err != nil {
		return nil, err
	}
	if component.Extensions, err = l.extensions(file.Extensions); err != nil {
		return nil, err
	}
	for _, d := range file.Docs {
		component.Docs = append(component.Docs, domain.Doc{Name: d.Name, Description: d.Description, Kind: d.Kind})
	}

	return &domain.Manifest{
		Dir:       dir,
		Component: component,
		Files:     files,
		Dists:     dists,
		Message:   file.Message,
	}, nil
}

func (l *ManifestLoader) parseID(raw, field string) (domain.ComponentID, error) {
	id, err := domain.ParseComponentID(raw)
	if err != nil {
		return domain.ComponentID{}, zerr.With(fmt.Errorf("%w: %w", domain.ErrManifestParseFailed, err), "field", field)
	}
	return id.InScope(l.defaultScope), nil
}

func (l *ManifestLoader) parseOptionalID(raw, field string) (*domain.ComponentID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := l.parseID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (l *ManifestLoader) legacyDependencies(raw []string, field string) ([]domain.LegacyDependency, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	deps := make([]domain.LegacyDependency, len(raw))
	for i, r := range raw {
		id, err := l.parseID(r, field)
		if err != nil {
			return nil, err
		}
		deps[i] = domain.LegacyDependency{ID: id}
	}
	return deps, nil
}

func (l *ManifestLoader) extensions(dtos []ExtensionDTO) ([]domain.ExtensionDataEntry, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	out := make([]domain.ExtensionDataEntry, len(dtos))
	for i, dto := range dtos {
		if dto.ID == "" {
			out[i] = domain.ExtensionDataEntry{
				Name:      dto.Name,
				Config:    nonNil(dto.Config),
				Data:      map[string]any{},
				Artifacts: []any{},
			}
			continue
		}
		id, err := l.parseID(dto.ID, "extensions")
		if err != nil {
			return nil, err
		}
		out[i] = domain.NewExtensionDataEntry(id, dto.Config)
	}
	return out, nil
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
