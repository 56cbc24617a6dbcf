package objects_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/store"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/objects"
)

func TestEnvelope(t *testing.T) {
	payload := []byte(`{"a":1}`)
	encoded := objects.Encode(objects.KindVersion, payload)

	assert.Equal(t, "version 7\x00{\"a\":1}", string(encoded))

	kind, got, err := objects.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, objects.KindVersion, kind)
	assert.Equal(t, payload, got)
}

func TestDecode_Malformed(t *testing.T) {
	for name, data := range map[string]string{
		"no terminator":   "source 3abc",
		"no size":         "source\x00abc",
		"bad size":        "source x\x00abc",
		"length mismatch": "source 4\x00abc",
		"empty kind":      " 3\x00abc",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := objects.Decode([]byte(data))
			assert.ErrorIs(t, err, domain.ErrMalformedObject)
		})
	}
}

func TestSource(t *testing.T) {
	s := objects.NewSource([]byte("hello"))

	assert.Equal(t, domain.HashContent([]byte("hello")), objects.Hash(s))
	assert.Empty(t, s.Refs())
	assert.Equal(t, objects.KindSource, s.Kind())
}

func TestWriteAndRead(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	src := objects.NewSource([]byte("export const a = 1;"))
	srcRef, err := objects.Write(ctx, st, src)
	require.NoError(t, err)

	readSrc, err := objects.ReadSource(ctx, st, srcRef)
	require.NoError(t, err)
	assert.Equal(t, src.Contents(), readSrc.Contents())

	v := objects.FromComponent(sampleInput())
	vRef, err := objects.Write(ctx, st, v)
	require.NoError(t, err)
	assert.Equal(t, objects.Hash(v), vRef)

	readV, err := objects.ReadVersion(ctx, st, vRef)
	require.NoError(t, err)
	assert.Equal(t, v, readV)

	_, err = objects.ReadVersion(ctx, st, srcRef)
	assert.ErrorIs(t, err, domain.ErrMalformedObject)

	_, err = objects.ReadSource(ctx, st, domain.HashContent([]byte("missing")))
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestRead_UnknownKind(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	ref := domain.HashContent([]byte("tree"))
	require.NoError(t, st.Put(ctx, ref, objects.Encode("tree", []byte("x"))))

	_, err := objects.Read(ctx, st, ref)
	assert.ErrorIs(t, err, domain.ErrUnknownObjectKind)
}

func writeVersionWithSources(t *testing.T, st *store.MemoryStore, in objects.VersionInput) domain.Ref {
	t.Helper()
	ctx := context.Background()
	for _, f := range append(append([]objects.FileInput{}, in.Files...), in.Dists...) {
		_, err := objects.Write(ctx, st, objects.NewSource(f.Contents))
		require.NoError(t, err)
	}
	if in.Impl != nil {
		_, err := objects.Write(ctx, st, objects.NewSource(in.Impl.Contents))
		require.NoError(t, err)
	}
	ref, err := objects.Write(ctx, st, objects.FromComponent(in))
	require.NoError(t, err)
	return ref
}

func TestReachableAndCollect(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	live := writeVersionWithSources(t, st, sampleInput())

	orphanIn := objects.VersionInput{
		Component: &domain.Component{ID: domain.MustParseComponentID("acme/old")},
		Files:     []objects.FileInput{{Name: "old.ts", RelativePath: "old.ts", Contents: []byte("old")}},
		Now:       snapshotTime,
	}
	dead := writeVersionWithSources(t, st, orphanIn)

	reachable, err := objects.Reachable(ctx, st, []domain.Ref{live})
	require.NoError(t, err)
	assert.Contains(t, reachable, live)
	assert.NotContains(t, reachable, dead)
	// version + impl/index.ts (same contents) + button.tsx + dist
	assert.Len(t, reachable, 4)

	removed, err := objects.Collect(ctx, st, []domain.Ref{live})
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Ref{dead, domain.HashContent([]byte("old"))}, removed)

	remaining, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 4)
}

func TestReachable_MissingObjectFails(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	ref, err := objects.Write(ctx, st, objects.FromComponent(sampleInput()))
	require.NoError(t, err)

	_, err = objects.Reachable(ctx, st, []domain.Ref{ref})
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}
