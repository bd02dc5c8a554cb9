package app

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/gridcheck/internal/config"
	"github.com/vk/gridcheck/internal/ctxlog"
	"github.com/vk/gridcheck/internal/logging"
	"github.com/vk/gridcheck/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *logging.Logger
	registry *registry.Registry
	checks   []*registry.PreparedCheck
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Startup failures (unreadable grid, unknown check kind, malformed retry
// policy or validation rule) panic; the entrypoint recovers and reports.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger, err := newLogger(appConfig.LogLevel, appConfig.LogFormat, appConfig.LogFile, outW)
	if err != nil {
		panic(fmt.Errorf("failed to configure logger: %w", err))
	}
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load the grid into the format-agnostic model first.
	cfgModel, err := loader.Load(ctx, appConfig.GridPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	// Create and populate the registry with Go check builders.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", logging.F("count", fmt.Sprint(len(modules))))

	// Compile every declared check against the registry. Any mismatch
	// between the grid and the registered kinds is rejected before a
	// single check runs.
	checks, err := reg.Prepare(ctx, cfgModel)
	if err != nil {
		panic(err)
	}
	logger.Debug("Grid validation passed.", logging.F("checks", fmt.Sprint(len(checks))))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		checks:   checks,
		config:   appConfig,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Checks returns the compiled checks. This is primarily for testing.
func (a *App) Checks() []*registry.PreparedCheck {
	return a.checks
}
