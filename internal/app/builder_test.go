package app_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/store"
	"go.trai.ch/facet/internal/app"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type closingStore struct {
	*store.MemoryStore
	err error
}

func (s *closingStore) Close() error { return s.err }

func TestNewComponents_AppliesLogging(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := domain.DefaultConfig(t.TempDir())
	cfg.LogJSON = true
	cfg.LogLevel = domain.LogLevelDebug

	log := mocks.NewMockLogger(ctrl)
	tel := mocks.NewMockTelemetry(ctrl)
	components := app.NewComponents(nil, log, tel, store.NewMemoryStore(), cfg)

	assert.Same(t, log, components.Logger)
	assert.Same(t, cfg, components.Config)
}

func TestComponents_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := domain.DefaultConfig(t.TempDir())
	errPool := errors.New("pool busy")

	tel := mocks.NewMockTelemetry(ctrl)
	tel.EXPECT().Close().Return(nil)
	components := app.NewComponents(nil, mocks.NewMockLogger(ctrl), tel,
		&closingStore{MemoryStore: store.NewMemoryStore(), err: errPool}, cfg)
	require.ErrorIs(t, components.Close(), errPool)

	tel = mocks.NewMockTelemetry(ctrl)
	tel.EXPECT().Close().Return(nil)
	components = app.NewComponents(nil, mocks.NewMockLogger(ctrl), tel, store.NewMemoryStore(), cfg)
	require.NoError(t, components.Close())
}
