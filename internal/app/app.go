package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/manifest"
	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/store"
	"github.com/specialistvlad/toolpipe/manifests"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	registry   *registry.Registry
	store      store.Store
	closeStore func() error
}

// New is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Boot failures here are either programmer errors (manifest/code mismatch)
// or unusable environments (store unreachable); both panic, and the
// entrypoint recovers to present a clean exit instead of a stack trace.
func New(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Create and populate the registry with the Go tool modules.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		if err := mod.Register(reg); err != nil {
			panic(fmt.Errorf("failed to register tool module: %w", err))
		}
	}
	logger.Debug("All Go tool modules registered.", "count", len(modules))

	// Load the embedded HCL manifests and check them against the
	// registered tools. A mismatch is a programmer error.
	decls, err := manifest.Load(ctx, manifests.FS)
	if err != nil {
		panic(fmt.Errorf("failed to load tool manifests: %w", err))
	}
	logger.Debug("Tool manifests loaded.", "count", len(decls))

	if err := reg.ValidateAgainst(ctx, decls); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	a := &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
	}

	if cfg.needsStore() {
		st, closer, err := openStore(ctx, cfg.StoreBackend)
		if err != nil {
			panic(fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err))
		}
		a.store = st
		a.closeStore = closer
		logger.Debug("Pipeline store ready.", "backend", cfg.StoreBackend)
	}

	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
