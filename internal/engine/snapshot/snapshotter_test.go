package snapshot_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/cas"
	"go.trai.ch/facet/internal/adapters/fs"
	"go.trai.ch/facet/internal/adapters/scope"
	"go.trai.ch/facet/internal/adapters/store"
	"go.trai.ch/facet/internal/adapters/telemetry"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/facet/internal/core/ports/mocks"
	"go.trai.ch/facet/internal/dependencies"
	"go.trai.ch/facet/internal/engine/snapshot"
	"go.trai.ch/facet/internal/objects"
	"go.uber.org/mock/gomock"
)

var snapshotTime = time.UnixMilli(1700000000000)

type fixture struct {
	root   string
	store  *store.MemoryStore
	index  *scope.Index
	infos  *cas.Store
	hasher ports.Hasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	idx, err := scope.Open(filepath.Join(root, domain.DefaultScopeIndexPath()), scope.Options{CacheSize: 16, Concurrency: 2})
	require.NoError(t, err)

	infos, err := cas.NewStore(filepath.Join(root, domain.DefaultSnapshotStatePath()))
	require.NoError(t, err)

	return &fixture{
		root:   root,
		store:  store.NewMemoryStore(),
		index:  idx,
		infos:  infos,
		hasher: fs.NewHasher(),
	}
}

func (f *fixture) snapshotter(hasher ports.Hasher) *snapshot.Snapshotter {
	tel := telemetry.NewNoop()
	factory := dependencies.NewComponentDependencyFactory(f.index, tel, "", 2)
	return snapshot.NewSnapshotter(f.store, factory, f.index, f.index, f.infos, hasher, tel)
}

// manifest writes index.ts for the component into its own directory.
func (f *fixture) manifest(t *testing.T, raw, body string, deps ...string) *domain.Manifest {
	t.Helper()
	id := domain.MustParseComponentID(raw)
	dir := filepath.Join(f.root, id.Name())
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.ts"), []byte(body), 0o600))

	m := &domain.Manifest{
		Dir:       dir,
		Component: domain.Component{ID: id, MainFile: "index.ts"},
		Files:     []string{"index.ts"},
	}
	for _, d := range deps {
		m.Component.Dependencies = append(m.Component.Dependencies, domain.LegacyDependency{ID: domain.MustParseComponentID(d)})
	}
	return m
}

func opts() snapshot.Options {
	return snapshot.Options{Parallelism: 2, Message: "snap", Now: snapshotTime}
}

func TestSnapshotter_Run_DependencyOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.snapshotter(f.hasher)

	theme := f.manifest(t, "acme/theme@1.0.0", "export const theme = {};")
	button := f.manifest(t, "acme/button@1.0.0", "export const Button = () => null;", "acme/theme@1.0.0")

	results, err := s.Run(ctx, []*domain.Manifest{button, theme}, opts())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "acme/theme@1.0.0", results[0].ID.String())
	assert.Equal(t, "acme/button@1.0.0", results[1].ID.String())
	assert.False(t, results[1].Cached)

	v, err := objects.ReadVersion(ctx, f.store, results[1].Ref)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/theme@1.0.0"}, v.FlattenedDependencies.Strings())
	require.NotNil(t, v.Impl)
	assert.Equal(t, "index.ts", v.Impl.Name)
	assert.Equal(t, "snap", v.Log.Message)

	src, err := objects.ReadSource(ctx, f.store, v.Impl.File)
	require.NoError(t, err)
	assert.Equal(t, "export const Button = () => null;", string(src.Contents()))

	versions, err := f.index.Versions(ctx)
	require.NoError(t, err)
	assert.Len(t, versions, 2)

	info, err := f.infos.Get("acme/button")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, results[1].Ref, info.Version)

	assert.Equal(t, map[string]snapshot.ComponentStatus{
		"acme/theme":  snapshot.StatusCompleted,
		"acme/button": snapshot.StatusCompleted,
	}, s.StatusMap())
}

func TestSnapshotter_Run_TransitiveFlattening(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.snapshotter(f.hasher)

	theme := f.manifest(t, "acme/theme@1.0.0", "theme")
	icon := f.manifest(t, "acme/icon@1.0.0", "icon", "acme/theme@1.0.0")
	button := f.manifest(t, "acme/button@1.0.0", "button", "acme/icon@1.0.0")

	results, err := s.Run(ctx, []*domain.Manifest{button, icon, theme}, opts())
	require.NoError(t, err)
	require.Len(t, results, 3)

	v, err := objects.ReadVersion(ctx, f.store, results[2].Ref)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/icon@1.0.0", "acme/theme@1.0.0"}, v.FlattenedDependencies.Strings())
}

func TestSnapshotter_Run_UpToDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.snapshotter(f.hasher)

	theme := f.manifest(t, "acme/theme@1.0.0", "theme")

	first, err := s.Run(ctx, []*domain.Manifest{theme}, opts())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := s.Run(ctx, []*domain.Manifest{theme}, opts())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].Cached)
	assert.Equal(t, first[0].Ref, second[0].Ref)
	assert.Equal(t, snapshot.StatusCached, s.StatusMap()["acme/theme"])

	forced := opts()
	forced.Force = true
	third, err := s.Run(ctx, []*domain.Manifest{theme}, forced)
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.False(t, third[0].Cached)
	assert.Equal(t, first[0].Ref, third[0].Ref)

	require.NoError(t, os.WriteFile(filepath.Join(theme.Dir, "index.ts"), []byte("theme v2"), 0o600))
	fourth, err := s.Run(ctx, []*domain.Manifest{theme}, opts())
	require.NoError(t, err)
	require.Len(t, fourth, 1)
	assert.False(t, fourth[0].Cached)
	assert.NotEqual(t, first[0].Ref, fourth[0].Ref)
}

func TestSnapshotter_Run_UpToDateRequiresStoredVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.snapshotter(f.hasher)

	theme := f.manifest(t, "acme/theme@1.0.0", "theme")
	first, err := s.Run(ctx, []*domain.Manifest{theme}, opts())
	require.NoError(t, err)

	require.NoError(t, f.store.Delete(ctx, first[0].Ref))

	second, err := s.Run(ctx, []*domain.Manifest{theme}, opts())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.False(t, second[0].Cached)

	has, err := f.store.Has(ctx, first[0].Ref)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSnapshotter_Run_MissingDependency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.snapshotter(f.hasher)

	button := f.manifest(t, "acme/button@1.0.0", "button", "acme/theme@1.0.0")
	form := f.manifest(t, "acme/form@1.0.0", "form", "acme/button@1.0.0")

	results, err := s.Run(ctx, []*domain.Manifest{button, form}, opts())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingImport)
	assert.Empty(t, results)

	assert.Equal(t, map[string]snapshot.ComponentStatus{
		"acme/button": snapshot.StatusFailed,
		"acme/form":   snapshot.StatusPending,
	}, s.StatusMap())
}

func TestSnapshotter_Run_FailureStopsDependents(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	f := newFixture(t)

	errFire := errors.New("disk on fire")
	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().Fingerprint(gomock.Any()).DoAndReturn(func(m *domain.Manifest) (string, error) {
		if m.Component.ID.Name() == "theme" {
			return "", errFire
		}
		return f.hasher.Fingerprint(m)
	}).AnyTimes()
	s := f.snapshotter(hasher)

	theme := f.manifest(t, "acme/theme@1.0.0", "theme")
	button := f.manifest(t, "acme/button@1.0.0", "button", "acme/theme@1.0.0")
	logo := f.manifest(t, "acme/logo@1.0.0", "logo")

	results, err := s.Run(ctx, []*domain.Manifest{theme, button, logo}, opts())
	require.ErrorIs(t, err, errFire)
	require.Len(t, results, 1)
	assert.Equal(t, "acme/logo@1.0.0", results[0].ID.String())

	status := s.StatusMap()
	assert.Equal(t, snapshot.StatusFailed, status["acme/theme"])
	assert.Equal(t, snapshot.StatusPending, status["acme/button"])
	assert.Equal(t, snapshot.StatusCompleted, status["acme/logo"])
}

func TestSnapshotter_Run_InvalidBatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.snapshotter(f.hasher)

	a := f.manifest(t, "acme/a@1.0.0", "a", "acme/b@1.0.0")
	b := f.manifest(t, "acme/b@1.0.0", "b", "acme/a@1.0.0")

	_, err := s.Run(ctx, []*domain.Manifest{a, b}, opts())
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	_, err = s.Run(ctx, []*domain.Manifest{a, a}, opts())
	require.ErrorIs(t, err, domain.ErrComponentAlreadyExists)
}

func TestSnapshotter_Run_RecordsVertices(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	f := newFixture(t)

	vertex := mocks.NewMockVertex(ctrl)
	tel := mocks.NewMockTelemetry(ctrl)
	tel.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
			return ctx, vertex
		}).AnyTimes()
	vertex.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
	vertex.EXPECT().Complete(nil).Times(2)
	vertex.EXPECT().Cached().Times(1)

	factory := dependencies.NewComponentDependencyFactory(f.index, telemetry.NewNoop(), "", 2)
	s := snapshot.NewSnapshotter(f.store, factory, f.index, f.index, f.infos, f.hasher, tel)

	theme := f.manifest(t, "acme/theme@1.0.0", "theme")
	_, err := s.Run(ctx, []*domain.Manifest{theme}, opts())
	require.NoError(t, err)
	_, err = s.Run(ctx, []*domain.Manifest{theme}, opts())
	require.NoError(t, err)
}

func TestSnapshotter_Run_CanceledContext(t *testing.T) {
	f := newFixture(t)
	s := f.snapshotter(f.hasher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	theme := f.manifest(t, "acme/theme@1.0.0", "theme")
	results, err := s.Run(ctx, []*domain.Manifest{theme}, opts())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Equal(t, snapshot.StatusPending, s.StatusMap()["acme/theme"])
}

func TestSnapshotter_Run_CanceledWhileRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	release := make(chan struct{})
	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().Fingerprint(gomock.Any()).DoAndReturn(func(m *domain.Manifest) (string, error) {
		close(started)
		<-release
		return f.hasher.Fingerprint(m)
	}).Times(1)
	s := f.snapshotter(hasher)

	theme := f.manifest(t, "acme/theme@1.0.0", "theme")
	button := f.manifest(t, "acme/button@1.0.0", "button", "acme/theme@1.0.0")

	go func() {
		<-started
		cancel()
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	_, err := s.Run(ctx, []*domain.Manifest{theme, button}, opts())
	require.ErrorIs(t, err, context.Canceled)

	status := s.StatusMap()
	assert.NotEqual(t, snapshot.StatusRunning, status["acme/theme"])
	assert.Equal(t, snapshot.StatusPending, status["acme/button"])
}

func TestSnapshotter_Forget(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.snapshotter(f.hasher)

	theme := f.manifest(t, "acme/theme@1.0.0", "theme")
	logo := f.manifest(t, "acme/logo@1.0.0", "logo")
	first, err := s.Run(ctx, []*domain.Manifest{theme, logo}, opts())
	require.NoError(t, err)
	require.Len(t, first, 2)

	var themeRef domain.Ref
	for _, res := range first {
		if res.ID.Name() == "theme" {
			themeRef = res.Ref
		}
	}

	forgotten, err := s.Forget([]domain.Ref{themeRef})
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/theme"}, forgotten)

	forgotten, err = s.Forget(nil)
	require.NoError(t, err)
	assert.Empty(t, forgotten)

	second, err := s.Run(ctx, []*domain.Manifest{theme, logo}, opts())
	require.NoError(t, err)
	for _, res := range second {
		assert.Equal(t, res.ID.Name() == "logo", res.Cached, res.ID.String())
	}
}
