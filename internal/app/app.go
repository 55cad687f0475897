// Package app wires the loader, registry, compiler, and executor into one
// application instance.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/passgraph/internal/config"
	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	model    *config.Model
	cfg      *Config
}

// New is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry.
// Startup failures (unloadable graph, unknown kinds) are critical and
// panic; main recovers them into a clean exit.
func New(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.GraphPath)
	if err != nil {
		panic(fmt.Errorf("failed to load graph declaration: %w", err))
	}
	logger.Debug("Graph declaration loaded into unified model.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All kind modules registered.", "count", len(modules))

	if err := reg.Validate(ctx, model); err != nil {
		panic(fmt.Errorf("graph declaration references unknown kinds: %w", err))
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
		cfg:      cfg,
	}
}

// Registry returns the application's registry. This is primarily for
// testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
