package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/clapgo/internal/console"
	"github.com/specialistvlad/clapgo/internal/ctxlog"
	"github.com/specialistvlad/clapgo/internal/defaults"
	"github.com/specialistvlad/clapgo/internal/engine"
	"github.com/specialistvlad/clapgo/internal/registry"
	"github.com/specialistvlad/clapgo/internal/services"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	errW    io.Writer
	logger  *slog.Logger
	level   *slog.LevelVar
	parser  *engine.Parser
	store   defaults.Store
	modules []registry.Module
}

// NewApp is the constructor for the main application. Verb output goes to
// outW; logs and error messages go to errW. With no modules, the built-in
// ones are used.
func NewApp(outW, errW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	level := &slog.LevelVar{}
	level.Set(parseLevel(cfg.LogLevel))
	logger := newLogger(level, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}

	sc := services.NewContainer()
	services.Add[io.Writer](sc, outW)

	parser, err := engine.New(engine.Options{
		Logger:        logger,
		Services:      sc,
		Background:    cfg.Background,
		IgnoreUnknown: cfg.IgnoreUnknown,
	}, modules...)
	if err != nil {
		return nil, err
	}
	console.Attach(parser, outW, errW, level)
	logger.Debug("Parser built.", "modules", len(modules), "components", len(parser.Components()))

	a := &App{
		outW:    outW,
		errW:    errW,
		logger:  logger,
		level:   level,
		parser:  parser,
		modules: modules,
	}

	if cfg.DefaultsPath != "" {
		store, err := defaults.LoadStore(ctx, cfg.DefaultsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load defaults: %w", err)
		}
		a.store = store
		logger.Debug("Defaults loaded.", "path", cfg.DefaultsPath)
	}

	return a, nil
}

// Parser returns the application's parser. This is primarily for testing.
func (a *App) Parser() *engine.Parser {
	return a.parser
}
