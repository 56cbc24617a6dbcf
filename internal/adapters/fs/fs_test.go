package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/fs"
	"go.trai.ch/facet/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git config")
	writeFile(t, filepath.Join(tmpDir, domain.FacetDirName, "index.json"), "{}")
	writeFile(t, filepath.Join(tmpDir, "ignored", "file"), "ignored content")
	writeFile(t, filepath.Join(tmpDir, "src", "main.go"), "package main")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# Readme")

	walker := fs.NewWalker()

	files := make(map[string]bool)
	for path := range walker.WalkFiles(tmpDir, []string{"ignored"}) {
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files[filepath.ToSlash(rel)] = true
	}

	assert.Equal(t, map[string]bool{"src/main.go": true, "README.md": true}, files)
}

func TestResolver_Resolve(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.txt"), "a")
	writeFile(t, filepath.Join(tmpDir, "b.txt"), "b")
	writeFile(t, filepath.Join(tmpDir, "c.log"), "c")
	writeFile(t, filepath.Join(tmpDir, "src", "nested", "x.ts"), "x")

	resolver := fs.NewResolver(fs.NewWalker())

	resolved, err := resolver.Resolve([]string{"*.txt", "src", "a.txt"}, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "src/nested/x.ts"}, resolved)
}

func TestResolver_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	resolver := fs.NewResolver(fs.NewWalker())

	_, err := resolver.Resolve([]string{"missing.txt"}, tmpDir)
	assert.ErrorIs(t, err, domain.ErrManifestReadFailed)

	_, err = resolver.Resolve([]string{"[invalid"}, tmpDir)
	assert.ErrorIs(t, err, domain.ErrManifestParseFailed)

	resolved, err := resolver.Resolve(nil, tmpDir)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestHasher_ComputeFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	writeFile(t, path, "hello world")

	hasher := fs.NewHasher()

	hash1, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.NotZero(t, hash1)

	hash2, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)

	_, err = hasher.ComputeFileHash(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestHasher_Fingerprint(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "index.ts"), "export {}")
	writeFile(t, filepath.Join(tmpDir, "dist", "index.js"), "module.exports = {}")

	manifest := &domain.Manifest{
		Dir:       tmpDir,
		Component: domain.Component{ID: domain.MustParseComponentID("acme/button")},
		Files:     []string{"index.ts"},
		Dists:     []string{"dist/index.js"},
		Message:   "first",
	}

	hasher := fs.NewHasher()
	base, err := hasher.Fingerprint(manifest)
	require.NoError(t, err)
	assert.Len(t, base, 16)

	manifest.Message = "second"
	same, err := hasher.Fingerprint(manifest)
	require.NoError(t, err)
	assert.Equal(t, base, same, "message does not affect the fingerprint")

	writeFile(t, filepath.Join(tmpDir, "index.ts"), "export const a = 1")
	changed, err := hasher.Fingerprint(manifest)
	require.NoError(t, err)
	assert.NotEqual(t, base, changed)

	manifest.Component.MainFile = "index.ts"
	changedRecord, err := hasher.Fingerprint(manifest)
	require.NoError(t, err)
	assert.NotEqual(t, changed, changedRecord)

	manifest.Files = append(manifest.Files, "gone.ts")
	_, err = hasher.Fingerprint(manifest)
	assert.Error(t, err)
}
