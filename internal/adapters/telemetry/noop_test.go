package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/telemetry"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Telemetry = (*telemetry.Noop)(nil)
	var _ ports.Vertex = (*telemetry.NoopVertex)(nil)
}

func TestNoop_Record(t *testing.T) {
	tel := telemetry.NewNoop()

	ctx, v := tel.Record(context.Background(), "deps.parse", ports.WithInternal())
	require.NotNil(t, v)

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, v, fromCtx)

	n, err := v.Stdout().Write([]byte("out"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	v.Log(domain.LogLevelWarn, "ignored")
	v.Cached()
	v.Complete(errors.New("boom"))

	assert.NoError(t, tel.Close())
}
