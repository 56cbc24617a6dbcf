// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/facet/internal/adapters/cas"
	_ "go.trai.ch/facet/internal/adapters/config"
	_ "go.trai.ch/facet/internal/adapters/fs"
	_ "go.trai.ch/facet/internal/adapters/logger"
	_ "go.trai.ch/facet/internal/adapters/scope"
	_ "go.trai.ch/facet/internal/adapters/store"
	_ "go.trai.ch/facet/internal/adapters/telemetry/progrock"
	// Register app, engine and core nodes.
	_ "go.trai.ch/facet/internal/app"
	_ "go.trai.ch/facet/internal/dependencies"
	_ "go.trai.ch/facet/internal/engine/snapshot"
)
