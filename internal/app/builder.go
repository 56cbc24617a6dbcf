package app

import (
	"errors"
	"io"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry ports.Telemetry
	Store     ports.ObjectStore
	Config    *domain.Config
}

// levelSetter is implemented by loggers whose output can be reconfigured after construction.
type levelSetter interface {
	SetJSON(enabled bool)
	SetLevel(level domain.LogLevel)
}

// NewComponents creates a new Components struct and applies the logging configuration.
func NewComponents(
	app *App,
	logger ports.Logger,
	telemetry ports.Telemetry,
	store ports.ObjectStore,
	cfg *domain.Config,
) *Components {
	if l, ok := logger.(levelSetter); ok {
		l.SetJSON(cfg.LogJSON)
		l.SetLevel(cfg.LogLevel)
	}
	return &Components{
		App:       app,
		Logger:    logger,
		Telemetry: telemetry,
		Store:     store,
		Config:    cfg,
	}
}

// Close flushes telemetry and releases the object store.
func (c *Components) Close() error {
	err := c.Telemetry.Close()
	if closer, ok := c.Store.(io.Closer); ok {
		err = errors.Join(err, closer.Close())
	}
	return err
}
