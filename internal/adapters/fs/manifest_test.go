package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/fs"
	"go.trai.ch/facet/internal/core/domain"
)

func newManifestLoader() *fs.ManifestLoader {
	return fs.NewManifestLoader(fs.NewResolver(fs.NewWalker()), "")
}

func TestManifestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.ts"), "export * from './button'")
	writeFile(t, filepath.Join(dir, "button.tsx"), "export const Button = () => null")
	writeFile(t, filepath.Join(dir, "button.spec.tsx"), "it('renders')")
	writeFile(t, filepath.Join(dir, "dist", "index.js"), "module.exports = {}")
	writeFile(t, filepath.Join(dir, domain.ManifestFileName), `
id: acme/button@1.0.0
mainFile: index.ts
files: ["*.ts", "*.tsx"]
testFiles: [button.spec.tsx]
dists: [dist]
compiler: acme/compiler@2.0.0
dependencies: [acme/theme@1.0.0]
devDependencies: [acme/testing]
packageDependencies:
  react: ^18.0.0
extensions:
  - id: acme/react@1.0.0
    config:
      strict: true
  - name: core/builder
docs:
  - name: Button
    kind: component
message: initial
`)

	manifest, err := newManifestLoader().Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean(dir), manifest.Dir)
	assert.Equal(t, []string{"button.spec.tsx", "button.tsx", "index.ts"}, manifest.Files)
	assert.Equal(t, []string{"dist/index.js"}, manifest.Dists)
	assert.Equal(t, "initial", manifest.Message)

	c := manifest.Component
	assert.Equal(t, "acme/button@1.0.0", c.ID.String())
	assert.Equal(t, "index.ts", c.MainFile)
	assert.Equal(t, []string{"button.spec.tsx"}, c.TestFiles)
	require.NotNil(t, c.Compiler)
	assert.Equal(t, "acme/compiler@2.0.0", c.Compiler.String())
	assert.Nil(t, c.Tester)
	assert.Equal(t, []domain.LegacyDependency{{ID: domain.MustParseComponentID("acme/theme@1.0.0")}}, c.Dependencies)
	assert.Equal(t, []domain.LegacyDependency{{ID: domain.MustParseComponentID("acme/testing")}}, c.DevDependencies)
	assert.Equal(t, map[string]string{"react": "^18.0.0"}, c.PackageDependencies)
	require.Len(t, c.Extensions, 2)
	assert.Equal(t, "acme/react@1.0.0", c.Extensions[0].StringID())
	assert.Equal(t, map[string]any{"strict": true}, c.Extensions[0].Config)
	assert.Nil(t, c.Extensions[1].ExtensionID)
	assert.Equal(t, "core/builder", c.Extensions[1].Name)
	assert.Equal(t, []domain.Doc{{Name: "Button", Kind: "component"}}, c.Docs)
}

func TestManifestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"invalid yaml", "id: [", domain.ErrManifestParseFailed},
		{"missing id", "files: []\n", domain.ErrManifestParseFailed},
		{"bad dependency", "id: acme/a\ndependencies: ['bad id']\n", domain.ErrManifestParseFailed},
		{"missing file", "id: acme/a\nfiles: [nope.ts]\n", domain.ErrManifestReadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, domain.ManifestFileName), tt.content)

			_, err := newManifestLoader().Load(dir)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestManifestLoader_MissingFile(t *testing.T) {
	_, err := newManifestLoader().Load(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrManifestReadFailed)
}

func TestManifestLoader_DefaultScope(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, domain.ManifestFileName), `
id: button@1.0.0
tester: ui/tester
dependencies: [theme]
extensions:
  - id: react
  - name: builder
`)

	manifest, err := fs.NewManifestLoader(fs.NewResolver(fs.NewWalker()), "acme").Load(dir)
	require.NoError(t, err)

	c := manifest.Component
	assert.Equal(t, "acme/button@1.0.0", c.ID.String())
	assert.Equal(t, "ui/tester", c.Tester.String())
	assert.Equal(t, []domain.LegacyDependency{{ID: domain.MustParseComponentID("acme/theme")}}, c.Dependencies)
	assert.Equal(t, "acme/react", c.Extensions[0].StringID())
	assert.Equal(t, "builder", c.Extensions[1].Name)
}
