package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/telemetry/progrock"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
)

func TestNew(t *testing.T) {
	var recorder ports.Telemetry = progrock.New()
	assert.NotNil(t, recorder)
}

func TestRecorder_Record(t *testing.T) {
	recorder := progrock.New()
	ctx := context.Background()

	ctx, parent := recorder.Record(ctx, "snapshot acme/button")
	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, parent, fromCtx)

	_, child := recorder.Record(ctx, "deps.runtime", ports.WithInternal())
	_, err := child.Stdout().Write([]byte("resolving\n"))
	require.NoError(t, err)
	child.Log(domain.LogLevelDebug, "dropped")
	child.Log(domain.LogLevelWarn, "kept")
	child.Complete(errors.New("failed"))

	parent.Cached()
	parent.Complete(nil)

	assert.NoError(t, recorder.Close())
}
