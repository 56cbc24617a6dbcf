package store_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/store"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/facet/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newFSStore(t *testing.T) *store.FSStore {
	t.Helper()
	s, err := store.NewFSStore(filepath.Join(t.TempDir(), "objects"))
	require.NoError(t, err)
	return s
}

func TestStores_RoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) ports.ObjectStore{
		"memory": func(_ *testing.T) ports.ObjectStore { return store.NewMemoryStore() },
		"fs":     func(t *testing.T) ports.ObjectStore { return newFSStore(t) },
		"cached": func(t *testing.T) ports.ObjectStore {
			c, err := store.NewCached(newFSStore(t), 8)
			require.NoError(t, err)
			return c
		},
	}

	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := mk(t)

			a := []byte("alpha")
			b := []byte("beta")
			refA := domain.HashContent(a)
			refB := domain.HashContent(b)

			require.NoError(t, s.Put(ctx, refA, a))
			require.NoError(t, s.Put(ctx, refB, b))

			got, err := s.Get(ctx, refA)
			require.NoError(t, err)
			assert.Equal(t, a, got)

			has, err := s.Has(ctx, refB)
			require.NoError(t, err)
			assert.True(t, has)

			refs, err := s.List(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []domain.Ref{refA, refB}, refs)

			require.NoError(t, s.Delete(ctx, refA))
			_, err = s.Get(ctx, refA)
			assert.ErrorIs(t, err, domain.ErrObjectNotFound)

			has, err = s.Has(ctx, refA)
			require.NoError(t, err)
			assert.False(t, has)

			require.NoError(t, s.Delete(ctx, refA), "deleting a missing ref is not an error")
		})
	}
}

func TestFSStore_LayoutAndCompression(t *testing.T) {
	ctx := context.Background()
	s := newFSStore(t)

	data := []byte("export const button = () => null;\n")
	ref := domain.HashContent(data)
	require.NoError(t, s.Put(ctx, ref, data))

	path := filepath.Join(s.Root(), ref.String()[:2], ref.String()[2:])
	//nolint:gosec // test path
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, data, raw)

	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	plain, err := dec.DecodeAll(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, data, plain)
}

func TestFSStore_ListEmptyRoot(t *testing.T) {
	s, err := store.NewFSStore(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	refs, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestFSStore_RejectsInvalidRef(t *testing.T) {
	s := newFSStore(t)

	err := s.Put(context.Background(), domain.Ref("../escape"), []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidRef)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	data := []byte("abc")
	ref := domain.HashContent(data)
	require.NoError(t, s.Put(ctx, ref, data))
	data[0] = 'z'

	got, err := s.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestCached_ServesRepeatedReadsFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	next := mocks.NewMockObjectStore(ctrl)
	data := []byte("payload")
	ref := domain.HashContent(data)

	next.EXPECT().Get(ctx, ref).Return(data, nil).Times(1)

	c, err := store.NewCached(next, 4)
	require.NoError(t, err)

	for range 3 {
		got, err := c.Get(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}

	has, err := c.Has(ctx, ref)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCached_DeleteEvicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	next := mocks.NewMockObjectStore(ctrl)
	data := []byte("payload")
	ref := domain.HashContent(data)

	gomock.InOrder(
		next.EXPECT().Put(ctx, ref, data).Return(nil),
		next.EXPECT().Delete(ctx, ref).Return(nil),
		next.EXPECT().Has(ctx, ref).Return(false, nil),
	)

	c, err := store.NewCached(next, 4)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, ref, data))
	require.NoError(t, c.Delete(ctx, ref))

	has, err := c.Has(ctx, ref)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestNewCached_InvalidSize(t *testing.T) {
	_, err := store.NewCached(store.NewMemoryStore(), 0)
	require.Error(t, err)
}

func TestNew_Backends(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	cfg := domain.DefaultConfig(root)
	s, err := store.New(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &store.Cached{}, s)

	cfg.CacheSize = 0
	s, err = store.New(ctx, cfg)
	require.NoError(t, err)
	fsStore, ok := s.(*store.FSStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, ".facet", "objects"), fsStore.Root())

	cfg.Store.Backend = domain.StoreBackendMemory
	s, err = store.New(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, s)

	cfg.Store.Backend = "tape"
	_, err = store.New(ctx, cfg)
	assert.ErrorIs(t, err, domain.ErrUnsupportedStoreBackend)

	cfg.Store.Backend = domain.StoreBackendS3
	_, err = store.New(ctx, cfg)
	assert.ErrorIs(t, err, domain.ErrUnsupportedStoreBackend, "missing endpoint")
}

func TestNewS3Store_Validates(t *testing.T) {
	_, err := store.NewS3Store(domain.S3Config{Endpoint: "localhost:9000", Bucket: "facet"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedStoreBackend)

	s, err := store.NewS3Store(domain.S3Config{
		Endpoint:  "localhost:9000",
		Bucket:    "facet",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestNewPostgresStore_RejectsTableName(t *testing.T) {
	_, err := store.NewPostgresStore(context.Background(), domain.PostgresConfig{
		DSN:   "postgres://localhost/facet",
		Table: "objects; DROP TABLE x",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedStoreBackend)
}

type closingStore struct {
	*store.MemoryStore
	closed bool
}

func (s *closingStore) Close() error {
	s.closed = true
	return nil
}

func TestClose(t *testing.T) {
	assert.NoError(t, store.Close(store.NewMemoryStore()))

	inner := &closingStore{MemoryStore: store.NewMemoryStore()}
	cached, err := store.NewCached(inner, 4)
	require.NoError(t, err)

	require.NoError(t, store.Close(cached))
	assert.True(t, inner.closed)
}

func TestPostgresStore_Close(t *testing.T) {
	db, err := sql.Open("pgx", "postgres://facet@localhost:1/facet")
	require.NoError(t, err)
	s := store.NewPostgresStoreFromDB(db, "facet_objects")

	require.NoError(t, store.Close(s))
	assert.Error(t, db.PingContext(context.Background()))
}
