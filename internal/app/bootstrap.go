package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dshills/mathfield/internal/clipboard"
	"github.com/dshills/mathfield/internal/config"
	"github.com/dshills/mathfield/internal/engine"
	"github.com/dshills/mathfield/internal/logging"
	"github.com/dshills/mathfield/internal/plugin/lua"
)

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	// 2. Logging
	if err := app.setupLogging(); err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	// 3. Theme
	if app.theme, err = cfg.Theme.Build(); err != nil {
		return &InitError{Component: "theme", Err: err}
	}

	// 4. Field
	clip := app.opts.Clipboard
	if clip == nil {
		clip = clipboard.Default()
	}
	opts := append(cfg.EngineOptions(),
		engine.WithLogger(app.logger.WithComponent("field")),
		engine.WithClipboard(clip),
	)
	if app.opts.Text != "" {
		opts = append(opts, engine.WithContent(app.opts.Text))
	}
	app.field = engine.New(opts...)
	app.field.OnChange(func(engine.ChangeKind) {
		app.dirty = true
	})

	// 5. Scripts
	scriptOpts := []lua.Option{
		lua.WithTimeout(cfg.Script.TimeoutDuration()),
		lua.WithLogger(app.logger.WithComponent("script")),
	}
	if app.opts.ScriptOutput != nil {
		scriptOpts = append(scriptOpts, lua.WithOutput(app.opts.ScriptOutput))
	}
	if app.scripts, err = lua.NewRunner(app.field, scriptOpts...); err != nil {
		return &InitError{Component: "scripts", Err: err}
	}
	if cfg.Script.Init != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Script.TimeoutDuration())
		err := app.scripts.RunFile(ctx, cfg.Script.Init)
		cancel()
		if err != nil {
			// A broken init script leaves the field usable.
			app.logger.Warn("init script: %v", err)
			app.message = err.Error()
		}
	}

	// 6. Config watcher
	if app.opts.Watch && app.opts.ConfigPath != "" {
		if app.watcher, err = config.NewWatcher(app.opts.ConfigPath); err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
		app.watcher.OnReload(func(cfg *config.Config, err error) {
			select {
			case app.reloads <- reload{cfg: cfg, err: err}:
			default:
				// A reload is already pending.
			}
		})
	}
	return nil
}

// setupLogging builds the logger from the options and configuration. A
// terminal host must not log to the screen it draws on, so without a log
// file output is discarded.
func (app *Application) setupLogging() error {
	if app.opts.Logger != nil {
		app.logger = app.opts.Logger
		return nil
	}

	level := app.config.LogLevel()
	if app.opts.LogLevel != "" {
		level = logging.ParseLogLevel(app.opts.LogLevel)
	}

	var out io.Writer = io.Discard
	if path := app.config.Logging.File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		app.logFile = f
		out = f
	}
	app.logger = logging.New(logging.Config{
		Level:  level,
		Output: out,
		Prefix: "mathfield",
	})
	return nil
}
