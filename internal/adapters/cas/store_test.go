package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/cas"
	"go.trai.ch/facet/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "snapshots.json"))
	require.NoError(t, err)

	info := domain.SnapshotInfo{
		Component:   "acme/button",
		Fingerprint: "abc",
		Version:     domain.HashContent([]byte("v1")),
		Timestamp:   time.Now(),
	}
	require.NoError(t, store.Put(info))

	got, err := store.Get("acme/button")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, info.Fingerprint, got.Fingerprint)
	assert.Equal(t, info.Version, got.Version)
}

func TestStore_GetMissing(t *testing.T) {
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "snapshots.json"))
	require.NoError(t, err)

	got, err := store.Get("acme/unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "snapshots.json")

	store1, err := cas.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.Put(domain.SnapshotInfo{Component: "acme/button", Fingerprint: "abc"}))

	store2, err := cas.NewStore(path)
	require.NoError(t, err)

	got, err := store2.Get("acme/button")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.Fingerprint)
}

func TestStore_Overwrite(t *testing.T) {
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "snapshots.json"))
	require.NoError(t, err)

	require.NoError(t, store.Put(domain.SnapshotInfo{Component: "acme/button", Fingerprint: "one"}))
	require.NoError(t, store.Put(domain.SnapshotInfo{Component: "acme/button", Fingerprint: "two"}))

	got, err := store.Get("acme/button")
	require.NoError(t, err)
	assert.Equal(t, "two", got.Fingerprint)
}

func TestStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := cas.NewStore(path)
	assert.NoError(t, err)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := cas.NewStore(path)
	assert.ErrorIs(t, err, domain.ErrStoreReadFailed)
}

func TestStore_Prune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.json")
	store, err := cas.NewStore(path)
	require.NoError(t, err)

	live := domain.HashContent([]byte("live"))
	gone := domain.HashContent([]byte("gone"))
	require.NoError(t, store.Put(domain.SnapshotInfo{Component: "acme/theme", Version: live}))
	require.NoError(t, store.Put(domain.SnapshotInfo{Component: "acme/old", Version: gone}))
	require.NoError(t, store.Put(domain.SnapshotInfo{Component: "acme/older", Version: gone}))

	dropped, err := store.Prune(func(info domain.SnapshotInfo) bool { return info.Version != gone })
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/old", "acme/older"}, dropped)

	reopened, err := cas.NewStore(path)
	require.NoError(t, err)
	got, err := reopened.Get("acme/old")
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = reopened.Get("acme/theme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, live, got.Version)

	dropped, err = store.Prune(func(domain.SnapshotInfo) bool { return true })
	require.NoError(t, err)
	assert.Empty(t, dropped)
}

func TestStore_PutRequiresComponent(t *testing.T) {
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "snapshots.json"))
	require.NoError(t, err)

	err = store.Put(domain.SnapshotInfo{Fingerprint: "abc"})
	assert.ErrorIs(t, err, domain.ErrStoreWriteFailed)
}

func TestStore_UnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 7, "snapshots": {}}`), 0o600))

	_, err := cas.NewStore(path)
	assert.ErrorIs(t, err, domain.ErrStoreReadFailed)
}
