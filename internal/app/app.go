// Package app is the interactive host of a math field. It wires the field
// engine to a terminal backend, the painter, configuration with live
// reload, Lua macros and logging, and runs the input loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/mathfield/internal/clipboard"
	"github.com/dshills/mathfield/internal/config"
	"github.com/dshills/mathfield/internal/engine"
	"github.com/dshills/mathfield/internal/logging"
	"github.com/dshills/mathfield/internal/plugin/lua"
	"github.com/dshills/mathfield/internal/renderer"
	"github.com/dshills/mathfield/internal/renderer/backend"
)

// MacroFunction is the Lua global the script.macro action calls.
const MacroFunction = "macro"

// Application owns one field and drives it from backend events.
//
// All field access happens on the goroutine that calls Run; input polling
// and config reload hand their results over through channels.
type Application struct {
	mu sync.Mutex

	config  *config.Config
	logger  *logging.Logger
	logFile *os.File
	metrics *Metrics

	field   *engine.Engine
	scripts *lua.Runner
	keymap  Keymap
	theme   renderer.Theme

	backend backend.Backend
	painter *renderer.Painter
	watcher *config.Watcher
	reloads chan reload

	// Render state
	dirty   bool
	message string
	pasting []rune
	inPaste bool

	// State
	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses defaults plus the
	// environment.
	ConfigPath string

	// Watch reloads ConfigPath when it changes.
	Watch bool

	// Text is the initial content in linear syntax.
	Text string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Logger replaces the logger built from the configuration.
	Logger *logging.Logger

	// Clipboard replaces the system clipboard.
	Clipboard clipboard.Clipboard

	// ScriptOutput receives Lua print output. Nil sends it to the log.
	ScriptOutput io.Writer
}

type reload struct {
	cfg *config.Config
	err error
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		done:    make(chan struct{}),
		reloads: make(chan reload, 1),
		metrics: NewMetrics(),
		keymap:  DefaultKeymap(),
	}
	if err := app.bootstrap(); err != nil {
		_ = app.closeResources()
		return nil, err
	}
	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	app.painter = renderer.NewPainter(b, renderer.WithTheme(app.theme))
	return nil
}

// Run initializes the backend and processes events until quit, Shutdown
// or ctx ends.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()
	defer app.Shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if app.watcher != nil {
		go func() {
			if err := app.watcher.Run(ctx); err != nil {
				app.logger.Warn("config watcher stopped: %v", err)
			}
		}()
	}

	app.resize(b.Size())
	app.logger.Info("field %s ready: %s", app.field.ID(), app.config)
	err := app.eventLoop(ctx)
	m := app.metrics.Snapshot()
	app.logger.Info("session ended after %v: %d inputs (%d dropped, %d rejected), %d frames, avg render %v",
		m.Uptime.Round(time.Millisecond), m.InputCount, m.InputDropped, m.Rejected, m.RenderCount, m.AvgRender)
	return err
}

// Shutdown stops a running event loop.
func (app *Application) Shutdown() {
	app.doneOnce.Do(func() {
		close(app.done)
	})
}

// Close releases the script state, watcher and log file.
func (app *Application) Close() error {
	app.Shutdown()
	return app.closeResources()
}

func (app *Application) closeResources() error {
	var errs []error
	if app.scripts != nil {
		errs = append(errs, app.scripts.Close())
	}
	if app.watcher != nil {
		errs = append(errs, app.watcher.Close())
	}
	if app.logFile != nil {
		errs = append(errs, app.logFile.Close())
		app.logFile = nil
	}
	return errors.Join(errs...)
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Field returns the edited field.
func (app *Application) Field() *engine.Engine {
	return app.field
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Metrics returns the loop metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Scripts returns the Lua runner bound to the field.
func (app *Application) Scripts() *lua.Runner {
	return app.scripts
}

// Message returns the status line message.
func (app *Application) Message() string {
	return app.message
}

// RunMacro calls the Lua macro function defined by the init script.
func (app *Application) RunMacro() error {
	if !app.scripts.State().HasFunction(MacroFunction) {
		return fmt.Errorf("%w: %s", lua.ErrNoFunction, MacroFunction)
	}
	ctx, cancel := context.WithTimeout(context.Background(), app.config.Script.TimeoutDuration())
	defer cancel()
	return app.scripts.Call(ctx, MacroFunction)
}

// reject records a refused action for the status line and rings the bell.
func (app *Application) reject(action string, err error) {
	app.metrics.RecordRejected()
	if err != nil {
		app.message = err.Error()
		app.logger.Debug("%s rejected: %v", action, err)
	} else {
		app.message = action + " not possible here"
	}
	app.dirty = true
	if app.backend != nil {
		app.backend.Beep()
	}
}

// applyReload installs a reloaded configuration.
func (app *Application) applyReload(r reload) {
	if r.err != nil {
		app.logger.Warn("config reload failed: %v", r.err)
		app.message = "config: " + r.err.Error()
		app.dirty = true
		return
	}
	theme, err := r.cfg.Theme.Build()
	if err != nil {
		app.logger.Warn("config reload: %v", err)
		return
	}
	app.config = r.cfg
	app.theme = theme
	if app.painter != nil {
		app.painter.SetTheme(theme)
	}
	if app.opts.LogLevel == "" {
		app.logger.SetLevel(r.cfg.LogLevel())
	}
	app.field.Viewport().SetMargins(r.cfg.View.Margins())
	app.field.SetMaxUndoEntries(r.cfg.Field.MaxUndoEntries)
	app.field.SetWindowSize(app.field.Viewport().Width(), app.field.Viewport().Height())
	app.message = "config reloaded"
	app.dirty = true
	app.logger.Info("config reloaded: %s", r.cfg)
}
